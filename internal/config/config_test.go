package config

import (
	"runtime"
	"testing"

	"github.com/iley/lirc/internal/ir"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"LIRC_TARGET", "LIRC_DECODER", "LIRC_NASM", "LIRC_LD", "LIRC_CLANG", "LIRC_KEEP"} {
		t.Setenv(name, "")
	}
	cfg := Load()
	if cfg.Target != DefaultTarget() {
		t.Errorf("expected default target %q, got %q", DefaultTarget(), cfg.Target)
	}
	if cfg.Decoder != "lines" {
		t.Errorf("expected lines decoder, got %q", cfg.Decoder)
	}
	if cfg.Nasm != "nasm" || cfg.Ld != "ld" || cfg.Clang != "clang" {
		t.Errorf("unexpected toolchain defaults: %+v", cfg)
	}
	if cfg.Keep {
		t.Error("expected Keep to default to false")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LIRC_TARGET", "llvm-ir")
	t.Setenv("LIRC_DECODER", "tokens")
	t.Setenv("LIRC_NASM", "/opt/nasm/bin/nasm")
	t.Setenv("LIRC_KEEP", "true")

	cfg := Load()
	if cfg.Target != "llvm-ir" {
		t.Errorf("got target %q", cfg.Target)
	}
	if cfg.Decoder != "tokens" {
		t.Errorf("got decoder %q", cfg.Decoder)
	}
	if cfg.Nasm != "/opt/nasm/bin/nasm" {
		t.Errorf("got nasm %q", cfg.Nasm)
	}
	if !cfg.Keep {
		t.Error("expected Keep")
	}
}

func TestDefaultTarget(t *testing.T) {
	expected := "nasm-x86_64"
	if runtime.GOOS == "darwin" {
		expected = "nasm-x86_64-macos"
	}
	if got := DefaultTarget(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestDecodeMode(t *testing.T) {
	t.Setenv("LIRC_DECODER", "tokens")
	mode, err := Load().DecodeMode()
	if err != nil || mode != ir.DecodeTokens {
		t.Errorf("expected tokens decoder, got %v, %v", mode, err)
	}

	t.Setenv("LIRC_DECODER", "bytes")
	if _, err := Load().DecodeMode(); err == nil {
		t.Error("expected error for unknown decoder")
	}
}

func TestLoadSeesEnvironmentChanges(t *testing.T) {
	t.Setenv("LIRC_TARGET", "llvm-ir")
	first := Load()
	t.Setenv("LIRC_TARGET", "nasm-x86_64-macos")
	second := Load()

	if first.Target != "llvm-ir" {
		t.Errorf("expected first target llvm-ir, got %q", first.Target)
	}
	if second.Target != "nasm-x86_64-macos" {
		t.Errorf("expected second target nasm-x86_64-macos, got %q", second.Target)
	}
}
