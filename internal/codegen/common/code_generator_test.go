package common

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/iley/lirc/internal/asm"
	"github.com/iley/lirc/internal/ir"
)

// recordingGenerator emits one comment line per call so the calls can be counted.
type recordingGenerator struct {
	floor int
}

func (g *recordingGenerator) InitialState() *State {
	return NewState(g.floor)
}

func (g *recordingGenerator) Prologue(s *State) []asm.Line {
	return []asm.Line{asm.Comment("prologue")}
}

func (g *recordingGenerator) Emit(s *State, instr ir.Instruction) ([]asm.Line, error) {
	if _, ok := instr.(ir.Equal); ok {
		return nil, ErrUnsupportedInstruction
	}
	pops, pushes := instr.GetStackEffect()
	s.Depth += pushes - pops
	return []asm.Line{asm.Comment(fmt.Sprintf("%s @%d", instr, s.Depth))}, nil
}

func (g *recordingGenerator) Epilogue(s *State) ([]asm.Line, error) {
	return []asm.Line{asm.Comment(fmt.Sprintf("epilogue @%d", s.Depth))}, nil
}

func (g *recordingGenerator) Format(out io.Writer, p asm.Program) error {
	return nil
}

func TestGenerateOneBlockPerInstruction(t *testing.T) {
	program := ir.Program{Instructions: []ir.Instruction{
		ir.Push{Value: 2},
		ir.Push{Value: 3},
		ir.Add{},
		ir.Label{Name: "x"},
		ir.Jump{Name: "x"},
	}}
	got, err := Generate(&recordingGenerator{}, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []asm.Line{
		asm.Comment("prologue"),
		asm.Comment("push 2 @1"),
		asm.Comment("push 3 @2"),
		asm.Comment("add @1"),
		asm.Comment("label x @1"),
		asm.Comment("jump x @1"),
		asm.Comment("epilogue @1"),
	}
	if !reflect.DeepEqual(got.Lines, expected) {
		t.Errorf("expected %v, got %v", expected, got.Lines)
	}
}

func TestGenerateStackUnderflowRespectsFloor(t *testing.T) {
	program := ir.Program{Instructions: []ir.Instruction{ir.Push{Value: 1}, ir.Push{Value: 1}, ir.Add{}, ir.Add{}}}

	_, err := Generate(&recordingGenerator{floor: 4}, program)
	if !errors.Is(err, ErrStackUnderflow) {
		t.Fatalf("expected ErrStackUnderflow, got %v", err)
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %T", err)
	}
	if genErr.Index != 3 || genErr.Depth != 5 {
		t.Errorf("unexpected error position: %+v", genErr)
	}
	expectedMsg := `instruction 3 "add" (stack depth 5): stack underflow`
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestGenerateStopsAtFirstFailure(t *testing.T) {
	program := ir.Program{Instructions: []ir.Instruction{ir.Push{Value: 1}, ir.Push{Value: 1}, ir.Equal{}, ir.Push{Value: 1}}}
	got, err := Generate(&recordingGenerator{}, program)
	if !errors.Is(err, ErrUnsupportedInstruction) {
		t.Fatalf("expected ErrUnsupportedInstruction, got %v", err)
	}
	if got.Lines != nil {
		t.Errorf("expected no partial program, got %v", got.Lines)
	}
}

func TestRegisterIndex(t *testing.T) {
	testCases := []struct {
		depth, base, expected int
	}{
		{0, 8, 8},
		{1, 8, 9},
		{7, 8, 15},
		{0, 0, 0},
		{3, 0, 3},
	}
	for _, tc := range testCases {
		if got := RegisterIndex(tc.depth, tc.base); got != tc.expected {
			t.Errorf("RegisterIndex(%d, %d) = %d, want %d", tc.depth, tc.base, got, tc.expected)
		}
	}
}

func TestStateTop(t *testing.T) {
	s := NewState(2)
	if s.Top() != -1 {
		t.Errorf("expected empty stack, got top %d", s.Top())
	}
	s.Depth = 4
	if s.Top() != 3 {
		t.Errorf("expected top 3, got %d", s.Top())
	}
}

func TestGenerationErrorEpilogue(t *testing.T) {
	err := &GenerationError{Index: 2, Depth: 9, Err: ErrRegisterOverflow}
	expected := "epilogue (stack depth 9): out of registers"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
