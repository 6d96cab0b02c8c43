package models

import "github.com/shopspring/decimal"

// Section identifies which side of the IVA book a ledger belongs to.
type Section string

const (
	SectionUnknown Section = ""
	Ventas         Section = "Ventas"
	Compras        Section = "Compras"
)

// Identity holds the fixed-width fields of a movement's primary line, verbatim.
type Identity struct {
	Fecha        string
	Comprobante  string
	PV           string
	Nro          string
	Letra        string
	RazonSocial  string
	Condicion    string
	CUIT         string
	Concepto     string
	Jurisdiccion string
}

// Movement is one logical invoice or credit note assembled from one or more
// physical ledger lines.
type Movement struct {
	Identity
	// Line is the 1-based index of the primary line in the cleaned stream.
	Line int

	amounts map[string]decimal.Decimal
	order   []string
}

// NewMovement opens a movement for the given identity.
func NewMovement(id Identity, line int) *Movement {
	return &Movement{
		Identity: id,
		Line:     line,
		amounts:  make(map[string]decimal.Decimal),
	}
}

// Add accumulates amount into the named bucket. The first write is stored as
// given; repeated writes are summed and rounded to two decimals.
func (m *Movement) Add(bucket string, amount decimal.Decimal) {
	if m.amounts == nil {
		m.amounts = make(map[string]decimal.Decimal)
	}
	prev, ok := m.amounts[bucket]
	if !ok {
		m.order = append(m.order, bucket)
		m.amounts[bucket] = amount
		return
	}
	m.amounts[bucket] = prev.Add(amount).Round(2)
}

// Amount returns the accumulated value of a bucket, zero when untouched.
func (m *Movement) Amount(bucket string) decimal.Decimal {
	return m.amounts[bucket]
}

// Has reports whether the bucket was touched by any line of the movement.
func (m *Movement) Has(bucket string) bool {
	_, ok := m.amounts[bucket]
	return ok
}

// Buckets returns bucket names in first-seen order.
func (m *Movement) Buckets() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// IsEmpty reports whether the movement carries neither identity nor amounts.
func (m *Movement) IsEmpty() bool {
	return m.Identity == (Identity{}) && len(m.order) == 0
}
