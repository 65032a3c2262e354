package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/iley/lirc/internal/build"
	"github.com/iley/lirc/internal/codegen"
	"github.com/iley/lirc/internal/config"
	"github.com/iley/lirc/internal/ir"
	"github.com/spf13/cobra"
)

var (
	cfg = config.Load()

	targetName string
	outputFile string
	useTokens  bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lirc",
	Short: "Stack IR compiler",
	Long:  "Compiles stack IR (.lir) programs to NASM x86-64 or LLVM IR and builds executables.",
}

var buildCmd = &cobra.Command{
	Use:   "build <file.lir>...",
	Short: "Build an executable",
	Long:  "Compile one or more .lir files, then assemble and link the result into an executable.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			if stat, err := os.Stat(arg); err != nil {
				return fmt.Errorf("file %s does not exist", arg)
			} else if stat.IsDir() {
				return fmt.Errorf("%s is a directory", arg)
			}
		}

		// When multiple files are specified, -o must be used
		if len(args) > 1 && outputFile == "" {
			return fmt.Errorf("output file (-o) must be specified when compiling multiple files")
		}

		target, err := codegen.TargetFromName(targetName)
		if err != nil {
			return err
		}

		mode, err := decodeMode()
		if err != nil {
			return err
		}

		keep, _ := cmd.Flags().GetBool("keep")
		opts := build.Options{
			Target:     target,
			Mode:       mode,
			OutputFile: outputFile,
			Keep:       keep,
		}
		if verbose {
			opts.Verbose = os.Stderr
		}

		binFile, err := build.Program(cfg, args, opts)
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}
		fmt.Printf("Built %s\n", binFile)
		return nil
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile <file.lir>...",
	Short: "Print generated code",
	Long:  "Compile one or more .lir files and print the generated code to stdout.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		mode, err := decodeMode()
		if err != nil {
			return err
		}
		program, err := build.DecodeFiles(args, mode)
		if err != nil {
			return err
		}
		return codegen.GenerateNamed(cmd.OutOrStdout(), targetName, program)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <file.lir>...",
	Short: "Dump decoded instructions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := decodeMode()
		if err != nil {
			return err
		}
		program, err := build.DecodeFiles(args, mode)
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}
		program.Dump(cmd.OutOrStdout())
		return nil
	},
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List supported targets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range codegen.Targets() {
			marker := " "
			if name == cfg.Target {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
		}
	},
}

// decodeMode returns the decoder chosen by --tokens, falling back to LIRC_DECODER.
func decodeMode() (ir.DecodeMode, error) {
	if useTokens {
		return ir.DecodeTokens, nil
	}
	return cfg.DecodeMode()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&targetName, "target", "t", cfg.Target, "target: "+strings.Join(codegen.Targets(), ", "))
	rootCmd.PersistentFlags().BoolVar(&useTokens, "tokens", false, "decode whitespace-separated tokens instead of lines")

	buildCmd.Flags().BoolP("keep", "k", cfg.Keep, "Keep intermediate files (.asm, .ll, .o)")
	buildCmd.Flags().StringVarP(&outputFile, "o", "o", "", "output file name")
	buildCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print external commands")

	rootCmd.AddCommand(buildCmd, compileCmd, dumpCmd, targetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
