package x86_64

import (
	"fmt"
	"io"
	"strings"

	"github.com/iley/lirc/internal/asm"
	"github.com/iley/lirc/internal/codegen/common"
	"github.com/iley/lirc/internal/ir"
)

/*
NASM code generator for x86-64.

The virtual operand stack lives entirely in registers: the value at depth d is
kept in r(d+8). Registers below r8 (rax, rcx, rdx, rbx, rsp, rbp, rsi, rdi) are
left for the exit syscall and for sete, so at most 8 values can be live at once.
*/

const (
	REGISTER_BASE = 8
	MAX_REGISTER  = 15

	SYSCALL_EXIT_LINUX  = 60
	SYSCALL_EXIT_DARWIN = 1

	SYSCALL_CLASS_UNIX_DARWIN = 0x2000000
)

type Features struct {
	// Syscall number of exit(2) on the target OS.
	ExitSyscall int64
	// Added to syscall numbers. macOS encodes the syscall class in the high bits.
	SyscallClass int64
}

func (f Features) exitSyscall() asm.Arg {
	if f.SyscallClass != 0 {
		return asm.HexImm(f.SyscallClass | f.ExitSyscall)
	}
	return asm.Imm(f.ExitSyscall)
}

type Generator struct {
	Features Features
}

var _ common.CodeGenerator = &Generator{}

func (g *Generator) InitialState() *common.State {
	return common.NewState(0)
}

func (g *Generator) Prologue(s *common.State) []asm.Line {
	return []asm.Line{
		asm.Raw("section .text"),
		asm.Raw("\tglobal _start"),
		asm.Blank(),
		asm.Label("_start"),
	}
}

func (g *Generator) Emit(s *common.State, instr ir.Instruction) ([]asm.Line, error) {
	switch instr := instr.(type) {
	case ir.Push:
		dst, err := register(s.Depth)
		if err != nil {
			return nil, err
		}
		s.Depth++
		return []asm.Line{asm.Op2("mov", dst, asm.Imm(instr.Value))}, nil
	case ir.Add:
		return binaryOp(s, "add")
	case ir.Sub:
		return binaryOp(s, "sub")
	case ir.Mul:
		return binaryOp(s, "imul")
	case ir.Equal:
		left, right := operands(s)
		s.Depth--
		return []asm.Line{
			asm.Op2("cmp", left, right),
			asm.Op1("sete", asm.Reg("al")),
			asm.Op2("movzx", left, asm.Reg("al")),
		}, nil
	case ir.Label:
		if err := checkLabel(instr.Name); err != nil {
			return nil, err
		}
		return []asm.Line{asm.Blank(), asm.Label(instr.Name)}, nil
	case ir.Jump:
		if err := checkLabel(instr.Name); err != nil {
			return nil, err
		}
		return []asm.Line{asm.Op1("jmp", asm.Ref(instr.Name))}, nil
	case ir.BranchIfTrue:
		if err := checkLabel(instr.Name); err != nil {
			return nil, err
		}
		cond, _ := register(s.Depth - 1)
		s.Depth--
		return []asm.Line{
			asm.Op2("cmp", cond, asm.Imm(1)),
			asm.Op1("je", asm.Ref(instr.Name)),
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedInstruction, instr)
}

// Epilogue exits the process with the top of the stack as the exit status,
// or 0 when the stack is empty.
func (g *Generator) Epilogue(s *common.State) ([]asm.Line, error) {
	status := asm.Imm(0)
	if top := s.Top(); top >= 0 {
		var err error
		if status, err = register(top); err != nil {
			return nil, err
		}
	}
	return []asm.Line{
		asm.Blank(),
		asm.Op2("mov", asm.Reg("rax"), g.Features.exitSyscall()),
		asm.Op2("mov", asm.Reg("rdi"), status),
		asm.Op0("syscall"),
	}, nil
}

func (g *Generator) Format(out io.Writer, p asm.Program) error {
	return formatProgram(out, p)
}

func binaryOp(s *common.State, op string) ([]asm.Line, error) {
	left, right := operands(s)
	s.Depth--
	return []asm.Line{asm.Op2(op, left, right)}, nil
}

// operands returns the registers holding the two topmost values.
// Both are already live, so they are always within the register file.
func operands(s *common.State) (asm.Arg, asm.Arg) {
	left, _ := register(s.Depth - 2)
	right, _ := register(s.Depth - 1)
	return left, right
}

// reservedNames are symbols NASM would not read as a plain label.
var reservedNames = map[string]bool{
	"_start": true,
	"rip":    true,
}

func init() {
	for _, r := range []string{"ax", "bx", "cx", "dx", "si", "di", "sp", "bp"} {
		reservedNames["r"+r] = true
		reservedNames["e"+r] = true
		reservedNames[r] = true
	}
	for _, r := range []string{"al", "bl", "cl", "dl", "ah", "bh", "ch", "dh", "sil", "dil", "spl", "bpl"} {
		reservedNames[r] = true
	}
	for i := 8; i <= 15; i++ {
		for _, suffix := range []string{"", "d", "w", "b"} {
			reservedNames[fmt.Sprintf("r%d%s", i, suffix)] = true
		}
	}
}

// checkLabel rejects label names that clash with registers or the entry point.
// NASM register names are case-insensitive.
func checkLabel(name string) error {
	if reservedNames[strings.ToLower(name)] {
		return fmt.Errorf("%w: %s", common.ErrReservedLabel, name)
	}
	return nil
}

func register(depth int) (asm.Arg, error) {
	index := common.RegisterIndex(depth, REGISTER_BASE)
	if index > MAX_REGISTER {
		return asm.Arg{}, fmt.Errorf("%w: stack depth %d needs r%d, the last usable register is r%d",
			common.ErrRegisterOverflow, depth+1, index, MAX_REGISTER)
	}
	return asm.Reg(fmt.Sprintf("r%d", index)), nil
}
