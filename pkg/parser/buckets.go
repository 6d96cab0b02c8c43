package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/ivacruce/pkg/models"
)

var ErrMissingAmount = errors.New("missing amount")

// Class decides how a rate code stores its amounts.
type Class int

const (
	// Simple codes store one amount under the bare code.
	Simple Class = iota
	// Split codes store a Neto and an IVA amount.
	Split
	// ConditionalSplit codes split only in the Ventas book.
	ConditionalSplit
)

const (
	netSuffix = " Neto"
	taxSuffix = " IVA"
)

type RateTable struct {
	split       map[string]struct{}
	conditional map[string]struct{}
}

func NewRateTable(split, conditional []string) RateTable {
	t := RateTable{
		split:       make(map[string]struct{}, len(split)),
		conditional: make(map[string]struct{}, len(conditional)),
	}
	for _, c := range split {
		t.split[c] = struct{}{}
	}
	for _, c := range conditional {
		t.conditional[c] = struct{}{}
	}
	return t
}

func (t RateTable) Classify(code string) Class {
	if _, ok := t.split[code]; ok {
		return Split
	}
	if _, ok := t.conditional[code]; ok {
		return ConditionalSplit
	}
	return Simple
}

// Resolve collapses ConditionalSplit into Split or Simple for a section.
func (t RateTable) Resolve(code string, section models.Section) Class {
	class := t.Classify(code)
	if class != ConditionalSplit {
		return class
	}
	if section == models.Ventas {
		return Split
	}
	return Simple
}

// ParseAmount reads a decimal-comma amount such as "1 234,50".
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	return decimal.NewFromString(clean)
}

// accumulate routes one rate code and its amount tokens into m.
func (p *Parser) accumulate(m *models.Movement, code string, amounts []string, section models.Section, line int) error {
	switch p.rates.Resolve(code, section) {
	case Split:
		if len(amounts) < 2 {
			return fmt.Errorf("line %d: %w: rate %q needs net and tax amounts", line, ErrMissingAmount, code)
		}
		m.Add(code+netSuffix, p.amount(amounts[0], code+netSuffix, line))
		m.Add(code+taxSuffix, p.amount(amounts[1], code+taxSuffix, line))
	default:
		m.Add(code, p.amount(amounts[0], code, line))
	}
	return nil
}

func (p *Parser) amount(raw, bucket string, line int) decimal.Decimal {
	v, err := ParseAmount(raw)
	if err != nil {
		p.logger.Warn("unparseable amount, using 0", "line", line, "bucket", bucket, "value", raw)
		return decimal.Zero
	}
	return v
}
