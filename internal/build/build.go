package build

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/iley/lirc/internal/codegen"
	"github.com/iley/lirc/internal/config"
	"github.com/iley/lirc/internal/ir"
)

// CompilationConfig holds the external toolchain settings for a target.
// An empty Assembler means the linker consumes the generated source directly.
type CompilationConfig struct {
	SourceSuffix   string
	Assembler      string
	AssemblerFlags []string
	Linker         string
	LinkerFlags    []string
}

func GetCompilationConfig(cfg *config.Config, target codegen.Target) (*CompilationConfig, error) {
	switch target {
	case codegen.TargetNasmX86_64Linux:
		return &CompilationConfig{
			SourceSuffix:   ".asm",
			Assembler:      cfg.Nasm,
			AssemblerFlags: []string{"-f", "elf64"},
			Linker:         cfg.Ld,
			LinkerFlags:    []string{},
		}, nil
	case codegen.TargetNasmX86_64Darwin:
		return &CompilationConfig{
			SourceSuffix:   ".asm",
			Assembler:      cfg.Nasm,
			AssemblerFlags: []string{"-f", "macho64"},
			Linker:         cfg.Ld,
			LinkerFlags:    []string{"-e", "_start", "-static"},
		}, nil
	case codegen.TargetLLVM:
		return &CompilationConfig{
			SourceSuffix: ".ll",
			Linker:       cfg.Clang,
			LinkerFlags:  []string{"-Wno-override-module"},
		}, nil
	}
	return nil, fmt.Errorf("%w: %v", codegen.ErrUnsupportedTarget, target)
}

type Options struct {
	Target     codegen.Target
	Mode       ir.DecodeMode
	OutputFile string
	Keep       bool
	// When set, external commands are echoed here before running.
	Verbose io.Writer
}

// Program compiles the given IR files into an executable and returns its path.
// Files are concatenated in order.
func Program(cfg *config.Config, files []string, opts Options) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("no input files")
	}
	cc, err := GetCompilationConfig(cfg, opts.Target)
	if err != nil {
		return "", err
	}

	binFile := opts.OutputFile
	if binFile == "" {
		binFile = strings.TrimSuffix(files[0], filepath.Ext(files[0]))
	}
	baseName := strings.TrimSuffix(filepath.Base(binFile), filepath.Ext(binFile))
	outputDir := filepath.Dir(binFile)
	srcFile := filepath.Join(outputDir, baseName+cc.SourceSuffix)
	objFile := filepath.Join(outputDir, baseName+".o")

	// Step 1: Compile .lir to assembly.
	program, err := DecodeFiles(files, opts.Mode)
	if err != nil {
		return "", err
	}
	var source bytes.Buffer
	if err := codegen.Generate(&source, opts.Target, program); err != nil {
		return "", fmt.Errorf("code generation failed: %w", err)
	}
	if err := os.WriteFile(srcFile, source.Bytes(), 0o644); err != nil {
		return "", err
	}
	generated := []string{srcFile}

	// Step 2: Assemble.
	linkInput := srcFile
	if cc.Assembler != "" {
		generated = append(generated, objFile)
		asArgs := append(append([]string{}, cc.AssemblerFlags...), "-o", objFile, srcFile)
		if err := run(opts.Verbose, cc.Assembler, asArgs...); err != nil {
			cleanup(opts.Keep, generated)
			return "", fmt.Errorf("assembly failed: %w", err)
		}
		linkInput = objFile
	}

	// Step 3: Link.
	ldArgs := append([]string{"-o", binFile, linkInput}, cc.LinkerFlags...)
	if err := run(opts.Verbose, cc.Linker, ldArgs...); err != nil {
		cleanup(opts.Keep, generated)
		return "", fmt.Errorf("linking failed: %w", err)
	}

	cleanup(opts.Keep, generated)
	return binFile, nil
}

// DecodeFiles decodes each file and concatenates the instructions.
func DecodeFiles(files []string, mode ir.DecodeMode) (ir.Program, error) {
	program := ir.Program{Instructions: []ir.Instruction{}}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return ir.Program{}, err
		}
		part, err := ir.DecodeReader(f, name, mode)
		f.Close()
		if err != nil {
			return ir.Program{}, err
		}
		program.Instructions = append(program.Instructions, part.Instructions...)
	}
	return program, nil
}

func run(verbose io.Writer, name string, args ...string) error {
	if verbose != nil {
		fmt.Fprintf(verbose, "%s %s\n", name, strings.Join(args, " "))
	}
	cmd := exec.Command(name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w\nOutput: %s", name, err, string(output))
	}
	return nil
}

// cleanup removes intermediate files unless they should be kept.
func cleanup(keep bool, files []string) {
	if keep {
		return
	}
	for _, f := range files {
		os.Remove(f)
	}
}
