package x86_64

import (
	"bufio"
	"fmt"
	"io"

	"github.com/iley/lirc/internal/asm"
)

func formatProgram(out io.Writer, p asm.Program) error {
	w := bufio.NewWriter(out)
	for _, line := range p.Lines {
		if err := formatLine(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}

func formatLine(out io.Writer, line asm.Line) error {
	if line.Raw != "" {
		fmt.Fprintf(out, "%s", line.Raw)
	} else if line.Label != "" {
		fmt.Fprintf(out, "%s:", line.Label)
	} else if line.Op != "" {
		fmt.Fprintf(out, "\t%s", line.Op)

		if line.Arity >= 1 {
			arg, err := argToString(line.Arg1)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, " %s", arg)
		}
		if line.Arity >= 2 {
			arg, err := argToString(line.Arg2)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, ", %s", arg)
		}
	}

	if line.Comment != "" {
		fmt.Fprintf(out, "\t; %s", line.Comment)
	}

	_, err := fmt.Fprintf(out, "\n")
	return err
}

func argToString(arg asm.Arg) (string, error) {
	switch {
	case arg.Reg != "":
		return arg.Reg, nil
	case arg.Label != "":
		return arg.Label, nil
	case arg.Imm != nil && arg.Hex:
		return fmt.Sprintf("0x%X", *arg.Imm), nil
	case arg.Imm != nil:
		return fmt.Sprintf("%d", *arg.Imm), nil
	}
	return "", fmt.Errorf("invalid arg %#v", arg)
}
