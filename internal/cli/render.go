package cli

import (
	"fmt"
	"io"
	"os"

	observe "github.com/ravegoth/obj-observe"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Renderer formats change events for terminal output. Colors degrade to
// plain text when the destination is not a TTY (pipes, CI logs).
type Renderer struct {
	profile termenv.Profile
}

// NewRenderer picks a color profile for the destination writer.
func NewRenderer(w io.Writer) *Renderer {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		profile = termenv.ColorProfile()
	}
	return &Renderer{profile: profile}
}

// Change renders one "key: old -> new" line.
func (r *Renderer) Change(key string, old, new any) string {
	return fmt.Sprintf("%s: %s -> %s",
		r.profile.String(key).Foreground(r.profile.Color("6")).Bold().String(),
		r.profile.String(formatValue(old)).Foreground(r.profile.Color("1")).String(),
		r.profile.String(formatValue(new)).Foreground(r.profile.Color("2")).String(),
	)
}

// Summary renders the end-of-replay summary line.
func (r *Renderer) Summary(scenario string, steps, notifications int) string {
	return fmt.Sprintf("%s: %d steps, %d notifications",
		r.profile.String(scenario).Bold().String(), steps, notifications)
}

func formatValue(v any) string {
	if v == observe.NoValue {
		return "<no value>"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}
