package llvm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/iley/lirc/internal/asm"
)

func formatProgram(out io.Writer, p asm.Program) error {
	w := bufio.NewWriter(out)
	for _, line := range p.Lines {
		text, err := formatLine(line)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", text)
	}
	return w.Flush()
}

func formatLine(line asm.Line) (string, error) {
	var sb strings.Builder

	if line.Raw != "" {
		sb.WriteString(line.Raw)
	} else if line.Label != "" {
		fmt.Fprintf(&sb, "%s:", line.Label)
	} else if line.Op != "" {
		sb.WriteString("  ")
		if line.Result != "" {
			fmt.Fprintf(&sb, "%%%s = ", line.Result)
		}
		sb.WriteString(line.Op)
		if line.Type != "" {
			fmt.Fprintf(&sb, " %s", line.Type)
		}

		args := []asm.Arg{line.Arg1, line.Arg2}
		for i := 0; i < line.Arity && i < len(args); i++ {
			arg, err := argToString(args[i])
			if err != nil {
				return "", err
			}
			if i == 0 {
				fmt.Fprintf(&sb, " %s", arg)
			} else {
				fmt.Fprintf(&sb, ", %s", arg)
			}
		}
	}

	if line.Comment != "" {
		if sb.Len() > 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "; %s", line.Comment)
	}

	return sb.String(), nil
}

func argToString(arg asm.Arg) (string, error) {
	switch {
	case arg.Reg != "":
		return "%" + arg.Reg, nil
	case arg.Label != "":
		return "label %" + arg.Label, nil
	case arg.Imm != nil:
		return fmt.Sprintf("%d", *arg.Imm), nil
	}
	return "", fmt.Errorf("invalid arg %#v", arg)
}
