package codegen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/iley/lirc/internal/codegen/common"
	"github.com/iley/lirc/internal/codegen/llvm"
	"github.com/iley/lirc/internal/codegen/x86_64_darwin"
	"github.com/iley/lirc/internal/codegen/x86_64_linux"
	"github.com/iley/lirc/internal/ir"
)

type Target int

const (
	TargetNasmX86_64Linux Target = iota
	TargetNasmX86_64Darwin
	TargetLLVM
)

var (
	ErrUnsupportedTarget      = common.ErrUnsupportedTarget
	ErrUnsupportedInstruction = common.ErrUnsupportedInstruction
	ErrStackUnderflow         = common.ErrStackUnderflow
	ErrRegisterOverflow       = common.ErrRegisterOverflow
	ErrReservedLabel          = common.ErrReservedLabel
)

var targetNames = []struct {
	name   string
	target Target
}{
	{"nasm-x86_64", TargetNasmX86_64Linux},
	{"nasm-x86_64-macos", TargetNasmX86_64Darwin},
	{"llvm-ir", TargetLLVM},
	// Aliases.
	{"x86_64-linux", TargetNasmX86_64Linux},
	{"x86_64-darwin", TargetNasmX86_64Darwin},
	{"llvm", TargetLLVM},
}

func TargetFromName(name string) (Target, error) {
	for _, tn := range targetNames {
		if tn.name == name {
			return tn.target, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedTarget, name)
}

// Targets returns the canonical names of all known targets.
func Targets() []string {
	var names []string
	seen := map[Target]bool{}
	for _, tn := range targetNames {
		if !seen[tn.target] {
			seen[tn.target] = true
			names = append(names, tn.name)
		}
	}
	return names
}

func (t Target) String() string {
	for _, tn := range targetNames {
		if tn.target == t {
			return tn.name
		}
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// IsNasm reports whether the target produces NASM source.
func (t Target) IsNasm() bool {
	return t == TargetNasmX86_64Linux || t == TargetNasmX86_64Darwin
}

func backendFor(target Target) (common.CodeGenerator, error) {
	switch target {
	case TargetNasmX86_64Linux:
		return x86_64_linux.New(), nil
	case TargetNasmX86_64Darwin:
		return x86_64_darwin.New(), nil
	case TargetLLVM:
		return llvm.New(), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedTarget, target)
}

// Generate writes the assembly for the program to out.
// Nothing is written unless generation succeeds.
func Generate(out io.Writer, target Target, program ir.Program) error {
	cg, err := backendFor(target)
	if err != nil {
		return err
	}

	asmProgram, err := common.Generate(cg, program)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := cg.Format(&buf, asmProgram); err != nil {
		return err
	}
	_, err = out.Write(buf.Bytes())
	return err
}

func GenerateString(target Target, program ir.Program) (string, error) {
	var buf bytes.Buffer
	if err := Generate(&buf, target, program); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GenerateNamed is Generate for a target given by name.
func GenerateNamed(out io.Writer, targetName string, program ir.Program) error {
	target, err := TargetFromName(targetName)
	if err != nil {
		return err
	}
	return Generate(out, target, program)
}
