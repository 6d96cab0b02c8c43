package parser

import "github.com/yurifrl/ivacruce/pkg/models"

// Column is a fixed-width field of a primary ledger line. Offsets count
// characters, not bytes, and are half-open.
type Column struct {
	Name  string
	Start int
	End   int
	set   func(*models.Identity, string)
}

// Layout maps a primary line onto identity fields and the rate tail.
type Layout struct {
	Columns   []Column
	TailStart int
	number    Column
}

var nroColumn = Column{"Nro", 12, 20, func(id *models.Identity, v string) { id.Nro = v }}

var LedgerLayout = Layout{
	Columns: []Column{
		{"Fecha", 0, 2, func(id *models.Identity, v string) { id.Fecha = v }},
		{"Comprobante", 3, 5, func(id *models.Identity, v string) { id.Comprobante = v }},
		{"PV", 6, 11, func(id *models.Identity, v string) { id.PV = v }},
		nroColumn,
		{"Letra", 20, 21, func(id *models.Identity, v string) { id.Letra = v }},
		{"Razon Social", 22, 44, func(id *models.Identity, v string) { id.RazonSocial = v }},
		{"Condicion", 45, 49, func(id *models.Identity, v string) { id.Condicion = v }},
		{"CUIT", 50, 63, func(id *models.Identity, v string) { id.CUIT = v }},
		{"Concepto", 64, 67, func(id *models.Identity, v string) { id.Concepto = v }},
		{"Jurisdiccion", 68, 69, func(id *models.Identity, v string) { id.Jurisdiccion = v }},
	},
	TailStart: 70,
	number:    nroColumn,
}

// Extract slices every identity column out of line, verbatim.
func (l Layout) Extract(line string) models.Identity {
	runes := []rune(line)
	var id models.Identity
	for _, c := range l.Columns {
		c.set(&id, slice(runes, c.Start, c.End))
	}
	return id
}

// Number returns the invoice-number column of line.
func (l Layout) Number(line string) string {
	return slice([]rune(line), l.number.Start, l.number.End)
}

// Tail returns the rate code and amounts portion of line.
func (l Layout) Tail(line string) string {
	runes := []rune(line)
	return slice(runes, l.TailStart, len(runes))
}

// slice is runes[start:end] clamped to the line length.
func slice(runes []rune, start, end int) string {
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}
