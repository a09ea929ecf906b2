// Package config resolves command-line arguments and optional YAML defaults
// into the immutable configuration consumed by the line emitter.
package config

import (
	"errors"
)

// StdinName is the input identifier that selects standard input.
const StdinName = "-"

// ErrConflictingNumbering is returned when both numbering modes are requested.
var ErrConflictingNumbering = errors.New("the argument '--number' cannot be used with '--number-nonblank'")

// Mode selects the line numbering policy.
type Mode int

const (
	// ModePlain prints every line unchanged.
	ModePlain Mode = iota
	// ModeNumberAll numbers every line.
	ModeNumberAll
	// ModeNumberNonblank numbers non-empty lines only.
	ModeNumberNonblank
)

// String returns the flag-style name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNumberAll:
		return "number"
	case ModeNumberNonblank:
		return "number-nonblank"
	default:
		return "plain"
	}
}

// Config is the resolved run configuration. At most one of NumberLines and
// NumberNonblankLines is true.
type Config struct {
	Files               []string
	NumberLines         bool
	NumberNonblankLines bool
	LockInputs          bool
}

// Mode returns the numbering policy selected by the config.
func (c Config) Mode() Mode {
	switch {
	case c.NumberLines:
		return ModeNumberAll
	case c.NumberNonblankLines:
		return ModeNumberNonblank
	default:
		return ModePlain
	}
}

// Validate reports whether the config holds its invariants.
func (c Config) Validate() error {
	if c.NumberLines && c.NumberNonblankLines {
		return ErrConflictingNumbering
	}
	return nil
}

// Flags holds the flags given on the command line. A nil field means the
// flag was not set explicitly.
type Flags struct {
	Number         *bool
	NumberNonblank *bool
	Lock           *bool
}

// Resolve builds a Config from positional arguments, explicit flags and
// optional file defaults. A numbering flag on the command line replaces the
// numbering settings of the defaults file as a whole.
func Resolve(args []string, flags Flags, defaults *File) (Config, error) {
	var cfg Config
	if defaults != nil {
		cfg.NumberLines = defaults.Number
		cfg.NumberNonblankLines = defaults.NumberNonblank
		cfg.LockInputs = defaults.Lock
	}

	if flags.Number != nil || flags.NumberNonblank != nil {
		cfg.NumberLines = flags.Number != nil && *flags.Number
		cfg.NumberNonblankLines = flags.NumberNonblank != nil && *flags.NumberNonblank
	}
	if flags.Lock != nil {
		cfg.LockInputs = *flags.Lock
	}

	if len(args) == 0 {
		cfg.Files = []string{StdinName}
	} else {
		cfg.Files = append([]string(nil), args...)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
