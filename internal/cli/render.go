package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/propbind/internal/presentation/tui"
	"golang.org/x/term"
)

// Row is one line of a two column report.
type Row struct {
	Key   string
	Value string
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Markdown formats rows as a markdown table.
func Markdown(title string, header Row, rows []Row) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "## %s\n\n", title)
	}
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", header.Key, header.Value)
	for _, r := range rows {
		fmt.Fprintf(&b, "| `%s` | %s |\n", escape(r.Key), escape(r.Value))
	}
	return b.String()
}

func escape(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}

// Print writes rows to w: as rendered markdown on a terminal, as key=value lines otherwise.
func Print(w io.Writer, title string, header Row, rows []Row) error {
	if IsTerminal(w) {
		out, err := tui.NewRenderer()(Markdown(title, header, rows))
		if err == nil {
			_, err = io.WriteString(w, out)
			return err
		}
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s=%s\n", r.Key, r.Value); err != nil {
			return err
		}
	}
	return nil
}
