package parser

import (
	"errors"
	"fmt"

	"github.com/yurifrl/ivacruce/pkg/models"
)

var ErrNoMovements = errors.New("no movements found")

// ParseLedger turns a raw IVA book export into its header, section and
// movements. A broken header is logged and left empty.
func (p *Parser) ParseLedger(data []byte, filename string) (*models.Ledger, error) {
	lines, enc, err := DecodeLines(data)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("decoded ledger", "file", filename, "encoding", enc, "lines", len(lines))

	header, err := ParseHeader(lines)
	if err != nil {
		p.logger.Warn("failed to parse header, continuing without it", "file", filename, "error", err)
	}

	cleaned, section := TrimSections(lines, p.bodyStart)
	if section == models.SectionUnknown {
		p.logger.Warn("no section marker found", "file", filename)
	}
	body := StripContinuations(cleaned, p.minLineLength)
	p.logger.Debug("trimmed ledger body", "cleaned", len(cleaned), "body", len(body), "section", section)

	movements, err := p.ParseMovements(body, section)
	if err != nil {
		return nil, fmt.Errorf("failed to parse movements: %w", err)
	}
	if len(movements) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoMovements)
	}

	return &models.Ledger{
		Source:    filename,
		Header:    header,
		Section:   section,
		Movements: movements,
	}, nil
}
