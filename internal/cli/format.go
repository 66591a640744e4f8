// Package cli provides shared formatting helpers for CLI output.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sgx-labs/folio/internal/explorer"
)

// ANSI color constants.
const (
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
	Dim     = "\033[2m"
	Bold    = "\033[1m"
	Reset   = "\033[0m"
)

// Box width is the inner content width (between the border characters).
const boxWidth = 48

// Margin is the left indent for all formatted output.
const margin = "  "

// NoColor disables ANSI escapes. It starts true when NO_COLOR is set.
var NoColor = os.Getenv("NO_COLOR") != ""

func paint(color, s string) string {
	if NoColor {
		return s
	}
	return color + s + Reset
}

// ShortenHome replaces $HOME prefix with ~.
func ShortenHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

// Header prints a small heavy-border box with a title.
func Header(w io.Writer, title string) {
	fmt.Fprintln(w)
	heavyTop := margin + "┏" + strings.Repeat("━", boxWidth) + "┓"
	heavyBottom := margin + "┗" + strings.Repeat("━", boxWidth) + "┛"
	padded := padRight("  "+title, boxWidth)

	fmt.Fprintln(w, paint(Cyan, heavyTop))
	fmt.Fprintln(w, paint(Cyan, margin+"┃"+padded+"┃"))
	fmt.Fprintln(w, paint(Cyan, heavyBottom))
}

// Section prints a section divider line: ── Name ─────────────────
func Section(w io.Writer, name string) {
	prefix := "── " + name + " "
	remaining := max(boxWidth+2-runeLen(prefix), 0)
	fmt.Fprintf(w, "\n%s%s\n\n", margin, paint(Cyan, prefix+strings.Repeat("─", remaining)))
}

// Item prints one explorer item as a title line and an indented summary.
func Item(w io.Writer, it explorer.Item, label string) {
	line := margin + paint(Bold, it.Title)
	if label != "" {
		line += "  " + paint(Magenta, label)
	}
	if it.Date != "" {
		line += "  " + paint(Dim, it.Date)
	}
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "%s  %s\n", margin, paint(Dim, it.Href))
	if it.Summary != "" {
		fmt.Fprintf(w, "%s  %s\n", margin, it.Summary)
	}
	if len(it.Tags) > 0 {
		fmt.Fprintf(w, "%s  %s\n", margin, paint(Cyan, strings.Join(it.Tags, " · ")))
	}
	if it.Confidential {
		fmt.Fprintf(w, "%s  %s\n", margin, paint(Yellow, "confidential"))
	}
}

// OK prints a passing check line.
func OK(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s%s %s\n", margin, paint(Green, "✓"), msg)
}

// Fail prints a failing check line with its reason indented below.
func Fail(w io.Writer, msg, reason string) {
	fmt.Fprintf(w, "%s%s %s\n", margin, paint(Red, "✗"), msg)
	for _, l := range strings.Split(strings.TrimRight(reason, "\n"), "\n") {
		fmt.Fprintf(w, "%s    %s\n", margin, paint(Dim, l))
	}
}

// Warn prints a [WARN] line to w.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint(Yellow, "[WARN]"), fmt.Sprintf(format, args...))
}

func padRight(s string, width int) string {
	n := runeLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
