package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/yurifrl/ivacruce/pkg/aggregate"
	"github.com/yurifrl/ivacruce/pkg/models"
)

type FilterFunc func(models.Row) bool

// Create renders the table as delimited text with two-decimal amounts. With
// withTotals a totals line over the rows that passed filter is appended.
func Create(table *models.Table, filter FilterFunc, withTotals bool, comma rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = comma

	if err := w.Write(table.Columns()); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	var kept []models.Row
	for _, r := range table.Rows {
		if filter != nil && !filter(r) {
			continue
		}
		kept = append(kept, r)
		if err := w.Write(r.Strings()); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	if withTotals {
		if err := w.Write(aggregate.Totals(kept, len(table.Buckets)).Strings()); err != nil {
			return nil, fmt.Errorf("failed to write csv totals: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
