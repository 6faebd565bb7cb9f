// Package present renders command results in the selected output mode.
package present

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/mithrel/freightdesk/internal/present/format"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeYAML
	ModeAuto
)

var modeNames = map[string]Mode{
	"plain":  ModePlain,
	"pretty": ModePretty,
	"json":   ModeJSON,
	"ndjson": ModeNDJSON,
	"yaml":   ModeYAML,
	"auto":   ModeAuto,
}

// ModeNames lists the accepted --output values.
func ModeNames() []string {
	return []string{"auto", "plain", "pretty", "json", "ndjson", "yaml"}
}

func ParseMode(s string) (Mode, bool) {
	m, ok := modeNames[s]
	return m, ok
}

// IsTerminal reports whether w is a character device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Resolve turns ModeAuto into pretty on a terminal and plain elsewhere.
func Resolve(m Mode, w io.Writer) Mode {
	if m != ModeAuto {
		return m
	}
	if IsTerminal(w) {
		return ModePretty
	}
	return ModePlain
}

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
}

// Render writes v in the structured modes and t in the human ones.
func Render(w io.Writer, v any, t format.Table, opts Options) error {
	switch Resolve(opts.Mode, w) {
	case ModeJSON:
		return format.WriteJSON(w, v, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, v)
	case ModeYAML:
		return format.WriteYAML(w, v)
	case ModePretty:
		return format.WritePretty(w, t)
	default:
		return format.WritePlain(w, t, opts.Headers)
	}
}
