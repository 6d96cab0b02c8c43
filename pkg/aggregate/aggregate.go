// Package aggregate turns parsed movements into the one-row-per-invoice table:
// bucket columns are unioned, credit notes negated, contiguous duplicates of
// the same invoice merged, and row and column totals computed.
package aggregate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/ivacruce/pkg/models"
)

var ErrInvalidNumber = errors.New("invalid numeric field")

// Build aggregates movements in their original order. creditNoteCode is the
// Comprobante value whose amounts are negated.
func Build(movements []*models.Movement, creditNoteCode string) (*models.Table, error) {
	buckets := Buckets(movements)

	rows := make([]models.Row, 0, len(movements))
	for _, m := range movements {
		row, err := newRow(m, buckets, creditNoteCode)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	rows = MergeAdjacent(rows)
	for i := range rows {
		rows[i].Total = sum(rows[i].Amounts)
	}

	return &models.Table{
		Buckets: buckets,
		Rows:    rows,
		Totals:  Totals(rows, len(buckets)),
	}, nil
}

// Buckets returns the union of bucket names in first-seen order.
func Buckets(movements []*models.Movement) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range movements {
		for _, b := range m.Buckets() {
			if _, ok := seen[b]; ok {
				continue
			}
			seen[b] = struct{}{}
			out = append(out, b)
		}
	}
	return out
}

func newRow(m *models.Movement, buckets []string, creditNoteCode string) (models.Row, error) {
	pv, err := parseInt("PV", m.PV, m.Line)
	if err != nil {
		return models.Row{}, err
	}
	nro, err := parseInt("Nro", m.Nro, m.Line)
	if err != nil {
		return models.Row{}, err
	}
	concepto, err := parseInt("Concepto", m.Concepto, m.Line)
	if err != nil {
		return models.Row{}, err
	}

	negate := strings.TrimSpace(m.Comprobante) == creditNoteCode
	amounts := make([]decimal.Decimal, len(buckets))
	for i, b := range buckets {
		v := m.Amount(b)
		if negate {
			v = v.Neg()
		}
		amounts[i] = v
	}

	return models.Row{
		Fecha:        strings.TrimSpace(m.Fecha),
		Comprobante:  strings.TrimSpace(m.Comprobante),
		PV:           pv,
		Nro:          nro,
		Letra:        strings.TrimSpace(m.Letra),
		RazonSocial:  strings.TrimSpace(m.RazonSocial),
		Condicion:    strings.TrimSpace(m.Condicion),
		CUIT:         strings.TrimSpace(m.CUIT),
		Concepto:     concepto,
		Jurisdiccion: strings.TrimSpace(m.Jurisdiccion),
		Amounts:      amounts,
	}, nil
}

func parseInt(field, raw string, line int) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w: %s=%q", line, ErrInvalidNumber, field, raw)
	}
	return n, nil
}

// MergeAdjacent folds each row into its immediate predecessor when both carry
// the same PV, Nro and Razon Social. Rows of the same invoice that are not
// contiguous stay separate.
func MergeAdjacent(rows []models.Row) []models.Row {
	if len(rows) == 0 {
		return rows
	}
	out := make([]models.Row, 0, len(rows))
	acc := cloneRow(rows[0])
	for _, next := range rows[1:] {
		if sameInvoice(acc, next) {
			for i := range acc.Amounts {
				acc.Amounts[i] = acc.Amounts[i].Add(next.Amounts[i])
			}
			continue
		}
		out = append(out, acc)
		acc = cloneRow(next)
	}
	return append(out, acc)
}

func sameInvoice(a, b models.Row) bool {
	return a.PV == b.PV && a.Nro == b.Nro && a.RazonSocial == b.RazonSocial
}

func cloneRow(r models.Row) models.Row {
	amounts := make([]decimal.Decimal, len(r.Amounts))
	copy(amounts, r.Amounts)
	r.Amounts = amounts
	return r
}

// Totals sums every bucket column and the Total column over rows.
func Totals(rows []models.Row, width int) models.Row {
	t := models.Row{IsTotals: true, Amounts: make([]decimal.Decimal, width)}
	for _, r := range rows {
		for i := 0; i < width && i < len(r.Amounts); i++ {
			t.Amounts[i] = t.Amounts[i].Add(r.Amounts[i])
		}
		t.Total = t.Total.Add(r.Total)
	}
	return t
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
