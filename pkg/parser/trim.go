package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yurifrl/ivacruce/pkg/models"
)

const (
	markerVentas  = "IVA VENTAS"
	markerCompras = "IVA COMPRAS"
	markerTotals  = "TOTALES POR TASA"
	pageMarker    = "PPag."

	skipOpen  = "----"
	skipClose = "--"
)

var (
	ansiEscape   = regexp.MustCompile(`\x1b[^m]*m`)
	controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	pageFooter   = regexp.MustCompile(`PPag\.:\s*\d+\s*$`)
)

// TrimSections scans lines from bodyStart (1-based) and returns the data
// lines with rule blocks removed, plus the section of the book. Scanning
// stops at the per-rate totals block.
func TrimSections(lines []string, bodyStart int) ([]string, models.Section) {
	if bodyStart < 1 {
		bodyStart = 1
	}
	section := models.SectionUnknown
	out := make([]string, 0, len(lines))
	skipping := false

	for i := bodyStart - 1; i < len(lines); i++ {
		line := lines[i]

		if section == models.SectionUnknown {
			if strings.Contains(line, markerVentas) {
				section = models.Ventas
			} else if strings.Contains(line, markerCompras) {
				section = models.Compras
			}
		}

		if strings.Contains(line, markerTotals) {
			break
		}

		if strings.HasPrefix(line, skipOpen) {
			skipping = true
			continue
		}
		if strings.HasPrefix(line, skipClose) {
			skipping = false
			continue
		}
		if skipping {
			continue
		}

		out = append(out, cleanLine(line))
	}
	return out, section
}

func cleanLine(line string) string {
	line = ansiEscape.ReplaceAllString(line, "")
	return controlChars.ReplaceAllString(line, "")
}

// StripContinuations removes page footers from the cleaned stream. A short
// line without a footer marks the end of data and drops everything from it
// onwards.
func StripContinuations(lines []string, minLength int) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(line, pageMarker) || utf8.RuneCountInString(strings.TrimSpace(line)) < minLength {
			if !pageFooter.MatchString(line) {
				break
			}
			line = pageFooter.ReplaceAllString(line, "")
			if strings.TrimSpace(line) == "" {
				continue
			}
		}
		out = append(out, line)
	}
	return out
}
