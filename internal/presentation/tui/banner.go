package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// Subtitle is printed under the banner.
const Subtitle = "One question. One honest answer. Then move forward."

// PrintBanner outputs the journey banner with the release version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   _", "#f59e0b"},
		{"  (_) ___  _   _ _ __ _ __   ___ _   _", "#f59e0b"},
		{"  | |/ _ \\| | | | '__| '_ \\ / _ \\ | | |", "#fb923c"},
		{"  | | (_) | |_| | |  | | | |  __/ |_| |", "#f97316"},
		{" _/ |\\___/ \\__,_|_|  |_| |_|\\___|\\__, |", "#ef4444"},
		{"|__/                              |___/", "#e11d48"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println(termenv.String("  " + Subtitle).Faint())
	if v := strings.TrimSpace(version); v != "" {
		fmt.Println(termenv.String("  v" + v).Faint())
	}
	fmt.Println()
}

// Status formats a one-line status message. Failures are red, the rest green.
func Status(msg string, failed bool) string {
	p := termenv.ColorProfile()
	color := "#22c55e"
	if failed {
		color = "#ef4444"
	}
	return termenv.String(msg).Foreground(p.Color(color)).String()
}
