package common

import (
	"io"

	"github.com/iley/lirc/internal/asm"
	"github.com/iley/lirc/internal/ir"
)

// CodeGenerator is implemented by every target.
// Emit must update the state by exactly the instruction's stack effect.
type CodeGenerator interface {
	InitialState() *State
	Prologue(*State) []asm.Line
	Emit(*State, ir.Instruction) ([]asm.Line, error)
	Epilogue(*State) ([]asm.Line, error)
	Format(io.Writer, asm.Program) error
}

// Generate translates the program in a single left-to-right pass.
// Any error aborts the whole translation; no partial program is returned.
func Generate(cg CodeGenerator, program ir.Program) (asm.Program, error) {
	state := cg.InitialState()
	result := asm.Program{}
	result.Lines = append(result.Lines, cg.Prologue(state)...)

	for i, instr := range program.Instructions {
		pops, _ := instr.GetStackEffect()
		if state.Depth-pops < state.Floor {
			return asm.Program{}, &GenerationError{Index: i, Instruction: instr, Depth: state.Depth, Err: ErrStackUnderflow}
		}
		depth := state.Depth
		lines, err := cg.Emit(state, instr)
		if err != nil {
			return asm.Program{}, &GenerationError{Index: i, Instruction: instr, Depth: depth, Err: err}
		}
		result.Lines = append(result.Lines, lines...)
	}

	epilogue, err := cg.Epilogue(state)
	if err != nil {
		return asm.Program{}, &GenerationError{Index: len(program.Instructions), Depth: state.Depth, Err: err}
	}
	result.Lines = append(result.Lines, epilogue...)

	return result, nil
}
