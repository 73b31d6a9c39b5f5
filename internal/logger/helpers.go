package logger

import (
	"io"
	"os"
)

var (
	FlagVerboseCount int  // -V, -VV
	FlagQuiet        bool // --quiet/-q
	FlagSilent       bool // --silent/-s
	FlagJSON         bool // --json-logs, used by `serve`
)

// ConfigureLoggerFromFlags applies the global verbosity flags, writing to w
// (stdout when nil).
func ConfigureLoggerFromFlags(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	level := "info"
	switch {
	case FlagSilent:
		level = "error"
		w = io.Discard
	case FlagQuiet:
		level = "error"
	case FlagVerboseCount > 0:
		level = "debug"
	}

	Configure(Options{
		Level: level,
		JSON:  FlagJSON,
		Color: !FlagJSON,
		Out:   w,
	})
}
