package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Hornbill banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Warm gradient after the hornbill's casque.
	lines := []struct {
		text  string
		color string
	}{
		{" _   _                 _     _ _ _ ", "#fbbf24"},
		{"| | | | ___  _ __ _ __ | |__ (_) | |", "#f59e0b"},
		{"| |_| |/ _ \\| '__| '_ \\| '_ \\| | | |", "#f97316"},
		{"|  _  | (_) | |  | | | | |_) | | | |", "#ea580c"},
		{"|_| |_|\\___/|_|  |_| |_|_.__/|_|_|_|", "#dc2626"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  Nagaland trip planner v"+v).Faint())
	}
	fmt.Fprintln(w)
}
