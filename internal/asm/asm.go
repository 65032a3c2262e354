package asm

import "github.com/iley/lirc/internal/util"

// Program is a target-neutral listing of assembly lines.
// Each target's formatter decides how lines are rendered.
type Program struct {
	Lines []Line
}

type Line struct {
	Comment string
	Label   string
	Raw     string // emitted verbatim, e.g. section headers
	Result  string // SSA result name, for dialects that have one
	Op      string
	Type    string // operand type, for typed dialects
	Arity   int
	Arg1    Arg
	Arg2    Arg
}

type Arg struct {
	Reg   string
	Imm   *int64
	Hex   bool // render Imm in hexadecimal
	Label string
}

func Imm(value int64) Arg {
	return Arg{Imm: util.Int64Ptr(value)}
}

func HexImm(value int64) Arg {
	return Arg{Imm: util.Int64Ptr(value), Hex: true}
}

func Reg(reg string) Arg {
	return Arg{Reg: reg}
}

func Ref(label string) Arg {
	return Arg{Label: label}
}

func Op0(op string) Line {
	return Line{Op: op}
}

func Op1(op string, arg Arg) Line {
	return Line{Op: op, Arity: 1, Arg1: arg}
}

func Op2(op string, arg1, arg2 Arg) Line {
	return Line{Op: op, Arity: 2, Arg1: arg1, Arg2: arg2}
}

// Assign builds "result = op type arg1, arg2".
func Assign(result, op, typ string, arg1, arg2 Arg) Line {
	return Line{Result: result, Op: op, Type: typ, Arity: 2, Arg1: arg1, Arg2: arg2}
}

func Comment(text string) Line {
	return Line{Comment: text}
}

func Label(text string) Line {
	return Line{Label: text}
}

func Raw(text string) Line {
	return Line{Raw: text}
}

func Blank() Line {
	return Line{}
}
