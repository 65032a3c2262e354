package ir

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/iley/lirc/internal/lexer"
	"github.com/iley/lirc/internal/util"
)

type DecodeMode int

const (
	// One instruction per line, e.g. "push 2".
	DecodeLines DecodeMode = iota
	// Whitespace-separated tokens, e.g. "push 2 push 3 add" or "2 3 add".
	DecodeTokens
)

func (m DecodeMode) String() string {
	switch m {
	case DecodeLines:
		return "lines"
	case DecodeTokens:
		return "tokens"
	default:
		return "unknown"
	}
}

func DecodeModeFromName(name string) (DecodeMode, error) {
	switch name {
	case "lines", "":
		return DecodeLines, nil
	case "tokens":
		return DecodeTokens, nil
	}
	return 0, fmt.Errorf("unknown decoder: %s", name)
}

// DecodeError reports the first instruction that could not be decoded.
type DecodeError struct {
	Loc    lexer.Location
	Text   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %q", e.Loc, e.Reason, e.Text)
}

// Decode converts IR text into a program. Decoding is all-or-nothing:
// the first malformed instruction fails the whole input.
func Decode(source string, mode DecodeMode) (Program, error) {
	return DecodeReader(strings.NewReader(source), "", mode)
}

func DecodeReader(r io.Reader, filename string, mode DecodeMode) (Program, error) {
	switch mode {
	case DecodeLines:
		return decodeLines(r, filename)
	case DecodeTokens:
		return decodeTokens(r, filename)
	}
	return Program{}, fmt.Errorf("unknown decoder: %v", mode)
}

func decodeLines(r io.Reader, filename string) (Program, error) {
	program := Program{Instructions: []Instruction{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if idx := strings.IndexByte(raw, ';'); idx >= 0 {
			raw = raw[:idx]
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		loc := lexer.Location{
			Filename: filename,
			Line:     lineNo,
			Col:      leadingSpaceRunes(raw) + 1,
		}

		keyword, rest := line, ""
		if idx := strings.IndexFunc(line, unicode.IsSpace); idx >= 0 {
			keyword, rest = line[:idx], strings.TrimSpace(line[idx:])
		}

		instr, err := decodeInstruction(keyword, rest, rest != "", loc)
		if err != nil {
			return Program{}, err
		}
		program.Instructions = append(program.Instructions, instr)
	}
	if err := scanner.Err(); err != nil {
		return Program{}, fmt.Errorf("error reading IR: %w", err)
	}

	return program, nil
}

func decodeTokens(r io.Reader, filename string) (Program, error) {
	program := Program{Instructions: []Instruction{}}

	lexemes, err := lexer.New(r, filename).All()
	if err != nil {
		return Program{}, fmt.Errorf("error reading IR: %w", err)
	}

	for i := 0; i < len(lexemes); i++ {
		lex := lexemes[i]
		var instr Instruction
		switch {
		case lex.Type == lexer.LEX_NUMBER:
			instr, err = decodeInstruction("push", lex.Str, true, lex.Loc)
		case lex.Type == lexer.LEX_KEYWORD && takesArgument(lex.Str):
			if i+1 >= len(lexemes) || lexemes[i+1].Type == lexer.LEX_KEYWORD {
				instr, err = decodeInstruction(lex.Str, "", false, lex.Loc)
			} else {
				i++
				instr, err = decodeInstruction(lex.Str, lexemes[i].Str, true, lexemes[i].Loc)
			}
		default:
			instr, err = decodeInstruction(lex.Str, "", false, lex.Loc)
		}
		if err != nil {
			return Program{}, err
		}
		program.Instructions = append(program.Instructions, instr)
	}

	return program, nil
}

// leadingSpaceRunes counts the whitespace runes before the first token,
// so columns agree with the lexer's rune-based ones.
func leadingSpaceRunes(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

func takesArgument(keyword string) bool {
	switch keyword {
	case "push", "const", "label", "jump", "jmp_if":
		return true
	}
	return false
}

// decodeInstruction builds a single instruction out of a keyword and its (already trimmed) argument.
func decodeInstruction(keyword, arg string, hasArg bool, loc lexer.Location) (Instruction, error) {
	text := keyword
	if hasArg {
		text = keyword + " " + arg
	}
	fail := func(reason string) (Instruction, error) {
		return nil, &DecodeError{Loc: loc, Text: text, Reason: reason}
	}

	switch keyword {
	case "push", "const":
		if !hasArg {
			return fail("missing integer operand")
		}
		value, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fail("invalid integer operand")
		}
		return Push{Value: value}, nil
	case "add", "sub", "mul", "is_eql":
		if hasArg {
			return fail("unexpected operand")
		}
		switch keyword {
		case "add":
			return Add{}, nil
		case "sub":
			return Sub{}, nil
		case "mul":
			return Mul{}, nil
		default:
			return Equal{}, nil
		}
	case "label", "jump", "jmp_if":
		if !hasArg {
			return fail("missing label operand")
		}
		if !util.IsIdentifier(arg) {
			return fail("invalid label name")
		}
		switch keyword {
		case "label":
			return Label{Name: arg}, nil
		case "jump":
			return Jump{Name: arg}, nil
		default:
			return BranchIfTrue{Name: arg}, nil
		}
	}

	// A bare integer literal is shorthand for push.
	if !hasArg {
		if value, err := strconv.ParseInt(keyword, 10, 64); err == nil {
			return Push{Value: value}, nil
		}
	}
	return fail("unknown instruction")
}
