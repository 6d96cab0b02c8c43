package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	// TotalColumn is the per-row sum of every bucket column.
	TotalColumn = "Total"
	// TotalsMarker replaces Nro on the totals row.
	TotalsMarker = "TOTALES"
)

// IdentityColumns are the leading columns of every normalized table.
var IdentityColumns = []string{
	"Fecha",
	"Comprobante",
	"PV",
	"Nro",
	"Letra",
	"Razon Social",
	"Condicion",
	"CUIT",
	"Concepto",
	"Jurisdiccion",
}

// Row is one invoice of the normalized table. Amounts is aligned with the
// owning table's Buckets.
type Row struct {
	Fecha        string
	Comprobante  string
	PV           int64
	Nro          int64
	Letra        string
	RazonSocial  string
	Condicion    string
	CUIT         string
	Concepto     int64
	Jurisdiccion string

	Amounts []decimal.Decimal
	Total   decimal.Decimal

	// IsTotals marks the synthetic totals row.
	IsTotals bool
}

// Table is the one-row-per-invoice view of a ledger.
type Table struct {
	Buckets []string
	Rows    []Row
	// Totals holds the column sums over Rows. It is never part of Rows.
	Totals Row
}

// Columns returns identity columns, bucket columns and Total, in output order.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(IdentityColumns)+len(t.Buckets)+1)
	cols = append(cols, IdentityColumns...)
	cols = append(cols, t.Buckets...)
	return append(cols, TotalColumn)
}

// Amount returns the value of the named bucket on row, zero when unknown.
func (t *Table) Amount(row Row, bucket string) decimal.Decimal {
	for i, b := range t.Buckets {
		if b == bucket && i < len(row.Amounts) {
			return row.Amounts[i]
		}
	}
	return decimal.Zero
}

// Identity renders the identity cells of the row.
func (r Row) Identity() []string {
	if r.IsTotals {
		return []string{"", "", "", TotalsMarker, "", "", "", "", "", ""}
	}
	return []string{
		r.Fecha,
		r.Comprobante,
		strconv.FormatInt(r.PV, 10),
		strconv.FormatInt(r.Nro, 10),
		r.Letra,
		r.RazonSocial,
		r.Condicion,
		r.CUIT,
		strconv.FormatInt(r.Concepto, 10),
		r.Jurisdiccion,
	}
}

// Values renders the row as spreadsheet cells: numbers stay numeric.
func (r Row) Values() []any {
	out := make([]any, 0, len(IdentityColumns)+len(r.Amounts)+1)
	if r.IsTotals {
		for _, s := range r.Identity() {
			out = append(out, s)
		}
	} else {
		out = append(out,
			r.Fecha, r.Comprobante, r.PV, r.Nro, r.Letra, r.RazonSocial,
			r.Condicion, r.CUIT, r.Concepto, r.Jurisdiccion)
	}
	for _, a := range r.Amounts {
		out = append(out, a.InexactFloat64())
	}
	return append(out, r.Total.InexactFloat64())
}

// Strings renders the row as text cells with two-decimal amounts.
func (r Row) Strings() []string {
	out := r.Identity()
	for _, a := range r.Amounts {
		out = append(out, a.StringFixed(2))
	}
	return append(out, r.Total.StringFixed(2))
}
