package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/iilei/jsonease/pkg/jsonease"
)

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	nameColor   = color.New(color.Bold)
	gutterColor = color.New(color.FgBlue)
	caretColor  = color.New(color.FgGreen, color.Bold)
	okColor     = color.New(color.FgGreen)
)

// reporter prints diagnostics for failed inputs.
type reporter struct {
	w io.Writer
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w}
}

// report prints err for the input called name. Syntax diagnoses with a
// position also show the offending source line with a caret under the
// column.
func (r *reporter) report(name, text string, err error) {
	d := jsonease.DiagnosisOf(err)
	if d == nil {
		fmt.Fprintf(r.w, "%s: %s\n", nameColor.Sprint(name), errorColor.Sprint(err.Error()))
		return
	}

	fmt.Fprintf(r.w, "%s: %s\n", nameColor.Sprint(name), errorColor.Sprint(d.Error()))
	if d.Position == nil || text == "" {
		return
	}

	lines := strings.Split(text, "\n")
	if d.Position.Line > len(lines) {
		return
	}
	line := strings.TrimRight(lines[d.Position.Line-1], "\r")
	number := fmt.Sprintf("%4d", d.Position.Line)
	fmt.Fprintf(r.w, "%s %s\n", gutterColor.Sprint(number+" |"), line)
	fmt.Fprintf(r.w, "%s %s%s\n", gutterColor.Sprint(strings.Repeat(" ", len(number))+" |"), caretPad(line, d.Position.Column), caretColor.Sprint("^"))
}

// note prints an informational line for a successful input.
func (r *reporter) note(name, msg string) {
	fmt.Fprintf(r.w, "%s: %s\n", nameColor.Sprint(name), msg)
}

// caretPad returns the whitespace that puts a caret under the given 1-based
// column of line. Wide runes take two cells; tabs are kept so the terminal
// expands them the same way on both lines.
func caretPad(line string, column int) string {
	var b strings.Builder
	i := 1
	for _, r := range line {
		if i >= column {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		i++
	}
	return b.String()
}

func valid(name string) string {
	return okColor.Sprint("✓") + " " + name + ": valid"
}
