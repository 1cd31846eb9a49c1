package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the careerflow banner and version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ___                        __ _               ", "#38bdf8"},
		{"  / __\\__ _ _ __ ___  ___ _ __/ _| | _____      __", "#22d3ee"},
		{" / /  / _` | '__/ _ \\/ _ \\ '__| |_| |/ _ \\ \\ /\\ / /", "#2dd4bf"},
		{"/ /__| (_| | | |  __/  __/ |  |  _| | (_) \\ V  V / ", "#34d399"},
		{"\\____/\\__,_|_|  \\___|\\___|_|  |_| |_|\\___/ \\_/\\_/  ", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}

// Styles colors prompts for the interactive runner.
type Styles struct {
	profile termenv.Profile
}

// NewStyles detects the color profile from the environment.
// Plain disables colors.
func NewStyles(plain bool) Styles {
	if plain {
		return Styles{profile: termenv.Ascii}
	}
	return Styles{profile: termenv.EnvColorProfile()}
}

// Question styles a question line.
func (s Styles) Question(text string) string {
	return s.profile.String(text).Foreground(s.profile.Color("#38bdf8")).Bold().String()
}

// Hint styles a faint help line.
func (s Styles) Hint(text string) string {
	return s.profile.String(text).Foreground(s.profile.Color("#94a3b8")).String()
}

// Error styles an error line.
func (s Styles) Error(text string) string {
	return s.profile.String(text).Foreground(s.profile.Color("#f87171")).String()
}

// Success styles a completion line.
func (s Styles) Success(text string) string {
	return s.profile.String(text).Foreground(s.profile.Color("#4ade80")).String()
}
