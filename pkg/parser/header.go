package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yurifrl/ivacruce/pkg/models"
)

var ErrHeaderTooShort = errors.New("header block too short")

// ParseHeader reads the metadata block on lines 2 to 6. Book and period sit
// after the last double space of their lines.
func ParseHeader(lines []string) (models.Header, error) {
	if len(lines) < 6 {
		return models.Header{}, fmt.Errorf("%w: got %d lines", ErrHeaderTooShort, len(lines))
	}
	clean := make([]string, 5)
	for i := range clean {
		clean[i] = strings.TrimSpace(controlChars.ReplaceAllString(lines[i+1], ""))
	}
	return models.Header{
		RazonSocial: clean[0],
		Direccion:   clean[1],
		CUIT:        clean[2],
		Libro:       lastField(clean[3]),
		Periodo:     lastField(clean[4]),
	}, nil
}

func lastField(s string) string {
	parts := strings.Split(s, "  ")
	return strings.TrimSpace(parts[len(parts)-1])
}
