// Package ui prints the CLI's human-facing summaries.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Output is where every helper writes.
var Output io.Writer = color.Output

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	blue   = color.New(color.FgBlue)
	red    = color.New(color.FgRed)
)

const width = 60

// Header prints a framed title.
func Header(text string) {
	line := strings.Repeat("=", width)
	green.Fprintf(Output, "\n%s\n", line)
	green.Fprintf(Output, "%-60s\n", center(text, width))
	green.Fprintf(Output, "%s\n\n", line)
}

func Step(stepNum, totalSteps int, text string) {
	yellow.Fprintf(Output, "[%d/%d] %s\n", stepNum, totalSteps, text)
}

func Success(text string) {
	green.Fprintf(Output, "  → %s\n", text)
}

func Info(text string) {
	fmt.Fprintf(Output, "  → %s\n", text)
}

func Warning(text string) {
	yellow.Fprintf(Output, "  ⚠ %s\n", text)
}

func Error(text string) {
	red.Fprintf(Output, "Error: %s\n", text)
}

func BlueText(text string) {
	blue.Fprintln(Output, text)
}

func YellowText(text string) {
	yellow.Fprintln(Output, text)
}

// Counts prints a reconciliation tally, in yellow when anything is missing.
func Counts(inSync, missingInExternal, missingInLedger int) {
	text := fmt.Sprintf("%d in sync, %d missing in external, %d missing in ledger",
		inSync, missingInExternal, missingInLedger)
	if missingInExternal+missingInLedger == 0 {
		Success(text)
		return
	}
	Warning(text)
}

func center(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// NoColor reports whether colored output is disabled.
func NoColor() bool {
	return color.NoColor
}
