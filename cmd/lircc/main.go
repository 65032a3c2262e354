package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iley/lirc/internal/build"
	"github.com/iley/lirc/internal/codegen"
	"github.com/iley/lirc/internal/config"
	"github.com/iley/lirc/internal/ir"
)

func main() {
	cfg := config.Load()

	outputString := flag.String("o", "", "output file name (- for stdout)")
	targetString := flag.String("t", cfg.Target, "target: "+strings.Join(codegen.Targets(), ", ")+", or ir")
	useTokens := flag.Bool("tokens", false, "decode whitespace-separated tokens instead of lines")
	dump := flag.Bool("dump", false, "dump decoded instructions to stderr")
	flag.Parse()

	if len(flag.Args()) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lircc [options] <input file>...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	inputFileNames := flag.Args()
	if len(inputFileNames) > 1 && *outputString == "" {
		fmt.Fprintln(os.Stderr, "When more than one input file name is provided, you must specify an output file name via -o")
		os.Exit(1)
	}

	mode, err := cfg.DecodeMode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *useTokens {
		mode = ir.DecodeTokens
	}

	program, err := build.DecodeFiles(inputFileNames, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error decoding program: %v\n", err)
		os.Exit(1)
	}

	if *dump {
		program.Dump(os.Stderr)
	}

	// Generate into memory first so that a failed compilation leaves no output file behind.
	var result bytes.Buffer
	if *targetString == "ir" {
		program.Print(&result)
	} else {
		target, err := codegen.TargetFromName(*targetString)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error parsing target: %v\n", err)
			os.Exit(1)
		}
		if err := codegen.Generate(&result, target, program); err != nil {
			fmt.Fprintf(os.Stderr, "error generating code: %v\n", err)
			os.Exit(1)
		}
	}

	if err := writeOutput(*outputString, inputFileNames[0], *targetString, result.Bytes()); err != nil {
		fmt.Fprintf(os.Stderr, "error writing output: %v\n", err)
		os.Exit(1)
	}
}

func writeOutput(outputName, firstInput, target string, data []byte) error {
	var output io.Writer
	if outputName == "-" {
		output = os.Stdout
	} else {
		if outputName == "" {
			// We know at this point that there is only one input file name.
			outputName = strings.TrimSuffix(firstInput, filepath.Ext(firstInput)) + outputExtension(target)
		}
		outputFile, err := os.Create(outputName)
		if err != nil {
			return err
		}
		defer func() {
			if err := outputFile.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		output = outputFile
	}
	_, err := output.Write(data)
	return err
}

func outputExtension(target string) string {
	switch target {
	case "ir":
		return ".ir.txt"
	case "llvm-ir", "llvm":
		return ".ll"
	}
	return ".asm"
}
