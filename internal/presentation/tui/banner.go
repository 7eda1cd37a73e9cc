package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  _ __  _ __ ___  _ __ | |__ (_)_ __   __| |", "#818cf8"},
	{" | '_ \\| '__/ _ \\| '_ \\| '_ \\| | '_ \\ / _` |", "#a78bfa"},
	{" | |_) | | | (_) | |_) | |_) | | | | | (_| |", "#c084fc"},
	{" | .__/|_|  \\___/| .__/|_.__/|_|_| |_|\\__,_|", "#e879f9"},
	{" |_|             |_|", "#f472b6"},
}

// Banner returns the colored banner followed by the version line.
func Banner(version string) string {
	p := termenv.ColorProfile()
	var b strings.Builder
	b.WriteString("\n")
	for _, l := range bannerLines {
		b.WriteString(termenv.String(l.text).Foreground(p.Color(l.color)).String())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %s\n\n", termenv.String("v"+strings.TrimSpace(version)).Faint())
	return b.String()
}

// PrintBanner writes the banner to w.
func PrintBanner(w io.Writer, version string) {
	io.WriteString(w, Banner(version))
}
