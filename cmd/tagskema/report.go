package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	tagskema "github.com/reoring/tagskema"
)

type palette struct {
	path, code, hint *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path: color.New(color.FgCyan),
		code: color.New(color.FgRed, color.Bold),
		hint: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.path, p.code, p.hint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// writeReport prints one line per issue: "<path> <code>: <message> (<hint>)".
func writeReport(w io.Writer, err error, colored bool) {
	iss, ok := tagskema.AsIssues(err)
	if !ok {
		iss = tagskema.ToIssues("/", err)
	}
	p := newPalette(colored)
	for _, it := range iss {
		fmt.Fprintf(w, "%s %s: %s", p.path.Sprint(it.Path), p.code.Sprint(it.Code), it.Message)
		if it.Hint != "" {
			fmt.Fprintf(w, " %s", p.hint.Sprintf("(%s)", it.Hint))
		}
		fmt.Fprintln(w)
	}
}
