package ir

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

/*
Stack-oriented intermediate representation for lirc.
Operands are never named explicitly: every instruction works on the top of a
virtual operand stack and its position is derived from the current stack depth.

Here are the currently supported instructions:
 * Push(Value) - push a 64-bit signed literal.
 * Add, Sub, Mul - pop two values, push the result of the operation.
 * Equal - pop two values, push 1 if they are equal and 0 otherwise.
 * Label(Name) - define a jump target. No stack effect.
 * Jump(Name) - unconditional jump to a label. No stack effect.
 * BranchIfTrue(Name) - pop one value, jump to a label if it is nonzero.
*/

type Program struct {
	Instructions []Instruction
}

func (p Program) Print(writer io.Writer) {
	for i, instr := range p.Instructions {
		fmt.Fprintf(writer, "%4d  %s\n", i, instr)
	}
}

// Instructions are Stringers, so methods are disabled to show their fields.
var dumpConfig = spew.ConfigState{Indent: " ", DisableMethods: true}

// Dump writes the instructions with their Go types and fields.
func (p Program) Dump(writer io.Writer) {
	dumpConfig.Fdump(writer, p.Instructions)
}

// Instruction is a closed set: only types in this package implement it.
type Instruction interface {
	fmt.Stringer
	// GetStackEffect returns how many values the instruction pops and pushes.
	GetStackEffect() (pops, pushes int)
	// GetLabel returns the label defined or referenced by the instruction or empty string.
	GetLabel() string

	isInstruction()
}

type Push struct {
	Value int64
}

func (p Push) String() string {
	return fmt.Sprintf("push %d", p.Value)
}

func (p Push) GetStackEffect() (int, int) {
	return 0, 1
}

func (p Push) GetLabel() string {
	return ""
}

func (Push) isInstruction() {}

type Add struct{}

func (Add) String() string {
	return "add"
}

func (Add) GetStackEffect() (int, int) {
	return 2, 1
}

func (Add) GetLabel() string {
	return ""
}

func (Add) isInstruction() {}

type Sub struct{}

func (Sub) String() string {
	return "sub"
}

func (Sub) GetStackEffect() (int, int) {
	return 2, 1
}

func (Sub) GetLabel() string {
	return ""
}

func (Sub) isInstruction() {}

type Mul struct{}

func (Mul) String() string {
	return "mul"
}

func (Mul) GetStackEffect() (int, int) {
	return 2, 1
}

func (Mul) GetLabel() string {
	return ""
}

func (Mul) isInstruction() {}

type Equal struct{}

func (Equal) String() string {
	return "is_eql"
}

func (Equal) GetStackEffect() (int, int) {
	return 2, 1
}

func (Equal) GetLabel() string {
	return ""
}

func (Equal) isInstruction() {}

type Label struct {
	Name string
}

func (l Label) String() string {
	return fmt.Sprintf("label %s", l.Name)
}

func (l Label) GetStackEffect() (int, int) {
	return 0, 0
}

func (l Label) GetLabel() string {
	return l.Name
}

func (Label) isInstruction() {}

type Jump struct {
	Name string
}

func (j Jump) String() string {
	return fmt.Sprintf("jump %s", j.Name)
}

func (j Jump) GetStackEffect() (int, int) {
	return 0, 0
}

func (j Jump) GetLabel() string {
	return j.Name
}

func (Jump) isInstruction() {}

type BranchIfTrue struct {
	Name string
}

func (b BranchIfTrue) String() string {
	return fmt.Sprintf("jmp_if %s", b.Name)
}

func (b BranchIfTrue) GetStackEffect() (int, int) {
	return 1, 0
}

func (b BranchIfTrue) GetLabel() string {
	return b.Name
}

func (BranchIfTrue) isInstruction() {}

// IsBinary reports whether the instruction pops two operands and pushes one result.
func IsBinary(instr Instruction) bool {
	pops, pushes := instr.GetStackEffect()
	return pops == 2 && pushes == 1
}
