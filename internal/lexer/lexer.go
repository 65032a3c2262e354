package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type TokenType int

// Token types
const (
	LEX_EOF TokenType = iota
	LEX_IDENT
	LEX_NUMBER
	LEX_KEYWORD
)

func (t TokenType) String() string {
	switch t {
	case LEX_EOF:
		return "EOF"
	case LEX_IDENT:
		return "IDENT"
	case LEX_NUMBER:
		return "NUMBER"
	case LEX_KEYWORD:
		return "KEYWORD"
	default:
		return "UNKNOWN"
	}
}

// Keywords of the stack IR.
var keywords = map[string]bool{
	"push":   true,
	"const":  true,
	"add":    true,
	"sub":    true,
	"mul":    true,
	"is_eql": true,
	"label":  true,
	"jump":   true,
	"jmp_if": true,
}

type Location struct {
	Filename string
	Line     int
	Col      int
}

func (l Location) String() string {
	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Col)
}

type Lexeme struct {
	Type TokenType
	Str  string
	Loc  Location
}

func (l Lexeme) String() string {
	if l.Str == "" {
		return fmt.Sprintf("<%s>", l.Type)
	}
	return fmt.Sprintf("<%s %q>", l.Type, l.Str)
}

// Lexer splits IR text into whitespace-separated tokens.
// A ';' at the start of a token begins a comment that runs to the end of the line.
type Lexer struct {
	input     *bufio.Reader
	filename  string
	line      int
	col       int
	prevCol   int
	lastRune  rune
	hasUnread bool
}

func New(inputReader io.Reader, filename string) *Lexer {
	return &Lexer{
		input:    bufio.NewReader(inputReader),
		filename: filename,
		line:     1,
		col:      1,
		prevCol:  1,
	}
}

// readRune reads the next rune from the input
func (l *Lexer) readRune() (rune, error) {
	var r rune
	var err error

	if l.hasUnread {
		l.hasUnread = false
		r = l.lastRune
	} else {
		r, _, err = l.input.ReadRune()
	}

	if err != nil {
		return 0, err
	}

	l.prevCol = l.col
	l.lastRune = r
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, nil
}

// unreadRune puts back the last read rune.
// Should be called at most once per readRune.
func (l *Lexer) unreadRune() {
	l.hasUnread = true
	if l.lastRune == '\n' {
		l.line--
	}
	l.col = l.prevCol
}

// skipSpace skips whitespace characters
func (l *Lexer) skipSpace() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !unicode.IsSpace(r) {
			l.unreadRune()
			return nil
		}
	}
}

// skipComment skips everything up to and including the end of the line.
func (l *Lexer) skipComment() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// Next returns the next lexeme from the input
func (l *Lexer) Next() (Lexeme, error) {
	for {
		if err := l.skipSpace(); err != nil {
			return Lexeme{Type: LEX_EOF}, err
		}
		loc := Location{Filename: l.filename, Line: l.line, Col: l.col}

		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return Lexeme{Type: LEX_EOF, Loc: loc}, nil
			}
			return Lexeme{Type: LEX_EOF}, err
		}

		if r == ';' {
			if err := l.skipComment(); err != nil {
				return Lexeme{Type: LEX_EOF}, err
			}
			continue
		}

		l.unreadRune()
		word, err := l.readWord()
		if err != nil {
			return Lexeme{Type: LEX_EOF}, err
		}
		return Lexeme{Type: classify(word), Str: word, Loc: loc}, nil
	}
}

// All reads lexemes until EOF. The trailing EOF lexeme is not included.
func (l *Lexer) All() ([]Lexeme, error) {
	var result []Lexeme
	for {
		lex, err := l.Next()
		if err != nil {
			return nil, err
		}
		if lex.Type == LEX_EOF {
			return result, nil
		}
		result = append(result, lex)
	}
}

func (l *Lexer) readWord() (string, error) {
	var sb strings.Builder
	for {
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return sb.String(), nil
			}
			return "", err
		}
		if unicode.IsSpace(r) {
			l.unreadRune()
			return sb.String(), nil
		}
		sb.WriteRune(r)
	}
}

func classify(word string) TokenType {
	if keywords[word] {
		return LEX_KEYWORD
	}
	if isNumber(word) {
		return LEX_NUMBER
	}
	return LEX_IDENT
}

func isNumber(s string) bool {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
