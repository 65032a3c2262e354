package config

import (
	"runtime"

	"github.com/iley/lirc/internal/ir"
	"github.com/xyproto/env/v2"
)

// Config holds defaults that command-line flags may override.
type Config struct {
	Target  string
	Decoder string

	// External toolchain.
	Nasm  string
	Ld    string
	Clang string

	Keep bool
}

func DefaultTarget() string {
	switch runtime.GOOS {
	case "darwin":
		return "nasm-x86_64-macos"
	default:
		return "nasm-x86_64"
	}
}

// Load reads the LIRC_* environment variables.
// The environment is re-read on every call, so changes made since the last call are seen.
func Load() *Config {
	env.Load()
	return &Config{
		Target:  env.Str("LIRC_TARGET", DefaultTarget()),
		Decoder: env.Str("LIRC_DECODER", "lines"),
		Nasm:    env.Str("LIRC_NASM", "nasm"),
		Ld:      env.Str("LIRC_LD", "ld"),
		Clang:   env.Str("LIRC_CLANG", "clang"),
		Keep:    env.Bool("LIRC_KEEP"),
	}
}

// DecodeMode returns the decoder selected by LIRC_DECODER.
func (c *Config) DecodeMode() (ir.DecodeMode, error) {
	return ir.DecodeModeFromName(c.Decoder)
}
