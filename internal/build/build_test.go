package build

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/iley/lirc/internal/codegen"
	"github.com/iley/lirc/internal/config"
	"github.com/iley/lirc/internal/ir"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeFilesConcatenates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.lir", "push 1\n")
	b := writeFile(t, dir, "b.lir", "push 2\nadd\n")

	program, err := DecodeFiles([]string{a, b}, ir.DecodeLines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []ir.Instruction{ir.Push{Value: 1}, ir.Push{Value: 2}, ir.Add{}}
	if !reflect.DeepEqual(program.Instructions, expected) {
		t.Errorf("expected %v, got %v", expected, program.Instructions)
	}
}

func TestDecodeFilesReportsFilename(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "bad.lir", "push 1\npop\n")

	_, err := DecodeFiles([]string{a}, ir.DecodeLines)
	var decodeErr *ir.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *ir.DecodeError, got %v", err)
	}
	if decodeErr.Loc.Filename != a || decodeErr.Loc.Line != 2 {
		t.Errorf("unexpected location %s", decodeErr.Loc)
	}
}

func TestGetCompilationConfig(t *testing.T) {
	cfg := &config.Config{Nasm: "nasm", Ld: "ld", Clang: "clang"}

	testCases := []struct {
		target    codegen.Target
		suffix    string
		assembler string
		linker    string
		format    string
	}{
		{codegen.TargetNasmX86_64Linux, ".asm", "nasm", "ld", "elf64"},
		{codegen.TargetNasmX86_64Darwin, ".asm", "nasm", "ld", "macho64"},
		{codegen.TargetLLVM, ".ll", "", "clang", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.target.String(), func(t *testing.T) {
			cc, err := GetCompilationConfig(cfg, tc.target)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cc.SourceSuffix != tc.suffix || cc.Assembler != tc.assembler || cc.Linker != tc.linker {
				t.Errorf("unexpected config %+v", cc)
			}
			if tc.format != "" && !reflect.DeepEqual(cc.AssemblerFlags, []string{"-f", tc.format}) {
				t.Errorf("expected -f %s, got %v", tc.format, cc.AssemblerFlags)
			}
		})
	}

	if _, err := GetCompilationConfig(cfg, codegen.Target(99)); !errors.Is(err, codegen.ErrUnsupportedTarget) {
		t.Errorf("expected ErrUnsupportedTarget, got %v", err)
	}
}

func TestProgramStopsOnGenerationError(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "under.lir", "push 1\nmul\n")
	cfg := &config.Config{Nasm: "nasm", Ld: "ld", Clang: "clang"}

	_, err := Program(cfg, []string{src}, Options{Target: codegen.TargetNasmX86_64Linux})
	if !errors.Is(err, codegen.ErrStackUnderflow) {
		t.Fatalf("expected ErrStackUnderflow, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected no generated files, found %d entries", len(entries))
	}
}

func TestProgramNoInputs(t *testing.T) {
	if _, err := Program(&config.Config{}, nil, Options{}); err == nil {
		t.Error("expected error")
	}
}
