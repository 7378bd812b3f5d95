package logger

import (
	"io"
	"os"
)

var (
	FlagVerboseCount int  // -V, -VV
	FlagQuiet        bool // --quiet/-q
	FlagSilent       bool // --silent/-s
	FlagJSON         bool // --json
)

// ConfigureLoggerFromFlags applies the CLI flags; fallback is the level from
// the config file, used when no verbosity flag was given.
func ConfigureLoggerFromFlags(fallback string) {
	var out io.Writer = os.Stdout
	level := fallback
	switch {
	case FlagQuiet:
		level = "error"
	case FlagSilent:
		level = "error"
		out = io.Discard
	case FlagVerboseCount > 0:
		level = "debug"
	}

	Configure(Options{
		Level: level,
		JSON:  FlagJSON,
		Color: !FlagJSON,
		Out:   out,
	})
}
