// Package reconcile compares the normalized ledger table with the
// authoritative invoice list. Invoices are matched on their zero-padded
// point-of-sale and number key and reported missing in both directions.
package reconcile

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/yurifrl/ivacruce/pkg/compare"
	"github.com/yurifrl/ivacruce/pkg/models"
)

var ErrMissingColumn = errors.New("missing key column")

// Columns names the key columns of the external sheet.
type Columns struct {
	PointOfSale   string
	InvoiceNumber string
}

// Status indicates the reconciliation result for a ledger row.
type Status int

const (
	Matched Status = iota
	NotInExternal
)

// Entry links a ledger row with its reconciliation key and status.
type Entry struct {
	Key    string
	Row    models.Row
	Status Status
}

// Report is the result of comparing both sources.
type Report struct {
	Items []Entry
	// MissingFromLedger holds external rows whose key is not in the ledger.
	MissingFromLedger [][]string
	// MissingFromExternal holds ledger rows whose key is not in the external sheet.
	MissingFromExternal []models.Row
}

// Build reconciles ledger rows against the external sheet.
func Build(rows []models.Row, external *models.Sheet, cols Columns) (*Report, error) {
	extKeys, err := externalKeys(external, cols)
	if err != nil {
		return nil, err
	}
	ledgerKeys := make(map[string]struct{}, len(rows))

	report := &Report{Items: make([]Entry, 0, len(rows))}
	for _, r := range rows {
		key := RowKey(r)
		ledgerKeys[key] = struct{}{}
		status := NotInExternal
		if _, ok := extKeys.set[key]; ok {
			status = Matched
		}
		report.Items = append(report.Items, Entry{Key: key, Row: r, Status: status})
		if status == NotInExternal {
			report.MissingFromExternal = append(report.MissingFromExternal, r)
		}
	}
	for i, row := range external.Rows {
		if _, ok := ledgerKeys[extKeys.byRow[i]]; !ok {
			report.MissingFromLedger = append(report.MissingFromLedger, row)
		}
	}
	return report, nil
}

// MissingFromA returns the external rows whose key is absent from the ledger.
func MissingFromA(rows []models.Row, external *models.Sheet, cols Columns) ([][]string, error) {
	report, err := Build(rows, external, cols)
	if err != nil {
		return nil, err
	}
	return report.MissingFromLedger, nil
}

// MissingFromB returns the ledger rows whose key is absent from the external sheet.
func MissingFromB(rows []models.Row, external *models.Sheet, cols Columns) ([]models.Row, error) {
	report, err := Build(rows, external, cols)
	if err != nil {
		return nil, err
	}
	return report.MissingFromExternal, nil
}

// RowKey is the reconciliation key of a ledger row.
func RowKey(r models.Row) string {
	return compare.Key(strconv.FormatInt(r.PV, 10), strconv.FormatInt(r.Nro, 10))
}

type keyIndex struct {
	set   map[string]struct{}
	byRow []string
}

func externalKeys(sheet *models.Sheet, cols Columns) (keyIndex, error) {
	if sheet == nil {
		return keyIndex{}, errors.New("external sheet is nil")
	}
	pvIdx := sheet.Index(cols.PointOfSale)
	if pvIdx < 0 {
		return keyIndex{}, fmt.Errorf("%w: %q in %s", ErrMissingColumn, cols.PointOfSale, sheet.Name)
	}
	nroIdx := sheet.Index(cols.InvoiceNumber)
	if nroIdx < 0 {
		return keyIndex{}, fmt.Errorf("%w: %q in %s", ErrMissingColumn, cols.InvoiceNumber, sheet.Name)
	}

	idx := keyIndex{
		set:   make(map[string]struct{}, len(sheet.Rows)),
		byRow: make([]string, len(sheet.Rows)),
	}
	for i, row := range sheet.Rows {
		key := compare.Key(models.Cell(row, pvIdx), models.Cell(row, nroIdx))
		idx.set[key] = struct{}{}
		idx.byRow[i] = key
	}
	return idx, nil
}

// InSyncCount returns how many ledger rows exist in the external sheet.
func (r *Report) InSyncCount() int {
	return len(r.Items) - len(r.MissingFromExternal)
}

// MissingCount returns how many invoices are missing on either side.
func (r *Report) MissingCount() int {
	return len(r.MissingFromLedger) + len(r.MissingFromExternal)
}
