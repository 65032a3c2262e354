package x86_64_linux

import (
	"github.com/iley/lirc/internal/codegen/x86_64"
)

// CodeGenerator emits NASM for x86-64 Linux. Programs exit via syscall 60.
type CodeGenerator struct {
	x86_64.Generator
}

func New() *CodeGenerator {
	return &CodeGenerator{
		Generator: x86_64.Generator{
			Features: x86_64.Features{ExitSyscall: x86_64.SYSCALL_EXIT_LINUX},
		},
	}
}
