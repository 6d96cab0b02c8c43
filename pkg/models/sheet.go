package models

// Sheet is an external tabular source kept as raw text: a header row plus
// data rows, every value a string.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Index returns the position of the named column, or -1.
func (s *Sheet) Index(column string) int {
	for i, h := range s.Header {
		if h == column {
			return i
		}
	}
	return -1
}

// Cell returns row[idx], or "" when the row is short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Header carries the ledger's leading metadata block.
type Header struct {
	RazonSocial string
	Direccion   string
	CUIT        string
	Libro       string
	Periodo     string
}

// Values returns the header fields in display order.
func (h Header) Values() []string {
	return []string{h.RazonSocial, h.Direccion, h.CUIT, h.Libro, h.Periodo}
}

// IsZero reports whether no header field was extracted.
func (h Header) IsZero() bool {
	return h == Header{}
}

// Ledger is a fully parsed and aggregated IVA book.
type Ledger struct {
	Source    string
	Header    Header
	Section   Section
	Movements []*Movement
	Table     *Table
}
