package common

import (
	"errors"
	"fmt"

	"github.com/iley/lirc/internal/ir"
)

var (
	ErrUnsupportedTarget      = errors.New("unsupported target")
	ErrUnsupportedInstruction = errors.New("instruction not supported by target")
	ErrStackUnderflow         = errors.New("stack underflow")
	ErrRegisterOverflow       = errors.New("out of registers")
	ErrReservedLabel          = errors.New("label name is reserved by target")
)

// GenerationError wraps a failure with the position at which it happened.
// Instruction is nil for failures in the epilogue.
type GenerationError struct {
	Index       int
	Instruction ir.Instruction
	Depth       int
	Err         error
}

func (e *GenerationError) Error() string {
	if e.Instruction == nil {
		return fmt.Sprintf("epilogue (stack depth %d): %v", e.Depth, e.Err)
	}
	return fmt.Sprintf("instruction %d %q (stack depth %d): %v", e.Index, e.Instruction, e.Depth, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
