package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/ivacruce/pkg/compare"
	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/models"
	"github.com/yurifrl/ivacruce/pkg/reconcile"
)

const (
	MovementsSheet = "Movimientos"

	defaultSheet = "Sheet1"
	// the header block sits in column F, one empty title row above it
	headerColumn   = 6
	headerFirstRow = 2
	// the movements table header goes on row 9
	tableHeaderRow = 9
	maxSheetName   = 31
)

type Options struct {
	CurrencyFormat     string
	CurrencyFromColumn int
	LedgerLabel        string
	ExternalLabel      string
}

func OptionsFrom(cfg *config.Config) Options {
	return Options{
		CurrencyFormat:     cfg.Workbook.CurrencyFormat,
		CurrencyFromColumn: cfg.Workbook.CurrencyFromColumn,
		LedgerLabel:        cfg.Workbook.LedgerLabel,
		ExternalLabel:      cfg.Workbook.ExternalLabel,
	}
}

// SheetNames returns the four consolidated sheet names: ledger, external,
// external-not-in-ledger and ledger-not-in-external.
func (o Options) SheetNames() [4]string {
	ledger := strings.ToUpper(o.LedgerLabel)
	external := strings.ToUpper(o.ExternalLabel)
	return [4]string{
		sheetName(o.LedgerLabel),
		sheetName(o.ExternalLabel),
		sheetName(fmt.Sprintf("%s NO EN %s", external, ledger)),
		sheetName(fmt.Sprintf("%s NO EN %s", ledger, external)),
	}
}

// WriteMovements renders the single-sheet movements workbook: header block,
// then the table without its totals row.
func WriteMovements(w io.Writer, header models.Header, table *models.Table, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, MovementsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	for i, v := range header.Values() {
		cell, err := excelize.CoordinatesToCellName(headerColumn, headerFirstRow+i)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(MovementsSheet, cell, v); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	columns := table.Columns()
	if err := writeRow(f, MovementsSheet, tableHeaderRow, toAny(columns)); err != nil {
		return err
	}
	for i, r := range table.Rows {
		if err := writeRow(f, MovementsSheet, tableHeaderRow+1+i, r.Values()); err != nil {
			return err
		}
	}
	if err := applyCurrency(f, MovementsSheet, tableHeaderRow+1, tableHeaderRow+len(table.Rows), len(columns), opts); err != nil {
		return err
	}

	return f.Write(w)
}

// WriteConsolidated renders the reconciliation workbook with the ledger, the
// external sheet and both missing-invoice lists.
func WriteConsolidated(w io.Writer, table *models.Table, external *models.Sheet, report *reconcile.Report, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	names := opts.SheetNames()
	if err := f.SetSheetName(defaultSheet, names[0]); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range names[1:] {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	ledgerRows := make([][]any, len(table.Rows))
	for i, r := range table.Rows {
		ledgerRows[i] = keyedValues(r)
	}
	missingExternal := make([][]any, len(report.MissingFromExternal))
	for i, r := range report.MissingFromExternal {
		missingExternal[i] = keyedValues(r)
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{names[0], table.Columns(), ledgerRows},
		{names[1], external.Header, stringRows(external.Rows)},
		{names[2], external.Header, stringRows(report.MissingFromLedger)},
		{names[3], table.Columns(), missingExternal},
	}
	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.header, s.rows, opts); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// keyedValues renders PV and Nro zero-padded, as they appear in the
// reconciliation key.
func keyedValues(r models.Row) []any {
	values := r.Values()
	if r.IsTotals {
		return values
	}
	values[2] = fmt.Sprintf("%0*d", compare.PointOfSaleWidth, r.PV)
	values[3] = fmt.Sprintf("%0*d", compare.InvoiceNumberWidth, r.Nro)
	return values
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, opts Options) error {
	if err := writeRow(f, sheet, 1, toAny(header)); err != nil {
		return err
	}
	width := len(header)
	for i, r := range rows {
		if err := writeRow(f, sheet, i+2, r); err != nil {
			return err
		}
		if len(r) > width {
			width = len(r)
		}
	}
	return applyCurrency(f, sheet, 2, len(rows)+1, width, opts)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// applyCurrency formats columns from opts.CurrencyFromColumn to lastCol over
// rows first..last.
func applyCurrency(f *excelize.File, sheet string, first, last, lastCol int, opts Options) error {
	from := opts.CurrencyFromColumn
	if last < first || lastCol < from || from < 1 {
		return nil
	}
	numFmt := opts.CurrencyFormat
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}
	topLeft, err := excelize.CoordinatesToCellName(from, first)
	if err != nil {
		return err
	}
	bottomRight, err := excelize.CoordinatesToCellName(lastCol, last)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, topLeft, bottomRight, style)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func stringRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = toAny(r)
	}
	return out
}

func sheetName(s string) string {
	r := []rune(s)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}
