package llvm

import (
	"fmt"
	"io"
	"strings"

	"github.com/iley/lirc/internal/asm"
	"github.com/iley/lirc/internal/codegen/common"
	"github.com/iley/lirc/internal/ir"
)

/*
LLVM IR code generator.

Every stack slot holds the name of an SSA value. Values are numbered with a
fresh counter (%r0, %r1, ...), so a name is never defined twice. A binary
operation defines a new value and stores it in the slot of its left operand.
The whole program becomes the body of "i64 @main()" and the top of the stack is
the return value.

Comparison and conditional branches are not supported by this target. No phi
nodes are built: values live at a label are used directly in the labelled
block, which is valid only when the block defining them dominates it.
*/

const VALUE_TYPE = "i64"

type CodeGenerator struct{}

var _ common.CodeGenerator = &CodeGenerator{}

func New() *CodeGenerator {
	return &CodeGenerator{}
}

func (cg *CodeGenerator) InitialState() *common.State {
	return common.NewState(0)
}

func (cg *CodeGenerator) Prologue(s *common.State) []asm.Line {
	return []asm.Line{
		asm.Raw(fmt.Sprintf("define %s @main() {", VALUE_TYPE)),
		asm.Label("entry"),
	}
}

func (cg *CodeGenerator) Emit(s *common.State, instr ir.Instruction) ([]asm.Line, error) {
	var lines []asm.Line

	// Instructions after a terminator need a block of their own.
	if _, isLabel := instr.(ir.Label); s.Terminated && !isLabel {
		lines = append(lines, openUnnamedBlock(s)...)
	}

	switch instr := instr.(type) {
	case ir.Push:
		name := freshValue(s)
		setSlot(s, s.Depth, name)
		s.Depth++
		return append(lines, asm.Assign(name, "add", VALUE_TYPE, asm.Imm(0), asm.Imm(instr.Value))), nil
	case ir.Add:
		return append(lines, binaryOp(s, "add")), nil
	case ir.Sub:
		return append(lines, binaryOp(s, "sub")), nil
	case ir.Mul:
		return append(lines, binaryOp(s, "mul")), nil
	case ir.Label:
		if err := checkLabel(instr.Name); err != nil {
			return nil, err
		}
		// Falling through into a label still needs an explicit branch.
		if !s.Terminated {
			lines = append(lines, asm.Op1("br", asm.Ref(instr.Name)))
		}
		s.Terminated = false
		return append(lines, asm.Blank(), asm.Label(instr.Name)), nil
	case ir.Jump:
		if err := checkLabel(instr.Name); err != nil {
			return nil, err
		}
		s.Terminated = true
		return append(lines, asm.Op1("br", asm.Ref(instr.Name))), nil
	}
	return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedInstruction, instr)
}

// Epilogue returns the top of the stack, or 0 when the stack is empty.
func (cg *CodeGenerator) Epilogue(s *common.State) ([]asm.Line, error) {
	var lines []asm.Line
	if s.Terminated {
		lines = append(lines, openUnnamedBlock(s)...)
	}

	ret := asm.Line{Op: "ret", Type: VALUE_TYPE, Arity: 1, Arg1: asm.Imm(0)}
	if top := s.Top(); top >= 0 {
		ret.Arg1 = asm.Reg(s.Slots[top])
	}
	return append(lines, ret, asm.Raw("}")), nil
}

func (cg *CodeGenerator) Format(out io.Writer, p asm.Program) error {
	return formatProgram(out, p)
}

// checkLabel rejects user labels that collide with generated block names.
func checkLabel(name string) error {
	if name == "entry" || strings.HasPrefix(name, "dead.") {
		return fmt.Errorf("%w: %s", common.ErrReservedLabel, name)
	}
	return nil
}

func binaryOp(s *common.State, op string) asm.Line {
	left, right := s.Slots[s.Depth-2], s.Slots[s.Depth-1]
	name := freshValue(s)
	s.Depth--
	setSlot(s, s.Depth-1, name)
	return asm.Assign(name, op, VALUE_TYPE, asm.Reg(left), asm.Reg(right))
}

func freshValue(s *common.State) string {
	name := fmt.Sprintf("r%d", common.RegisterIndex(s.Values, 0))
	s.Values++
	return name
}

// setSlot records the value held at the given depth and drops everything above it.
func setSlot(s *common.State, depth int, name string) {
	s.Slots = append(s.Slots[:depth], name)
}

func openUnnamedBlock(s *common.State) []asm.Line {
	name := fmt.Sprintf("dead.%d", s.Blocks)
	s.Blocks++
	s.Terminated = false
	return []asm.Line{asm.Blank(), asm.Label(name)}
}
