package parser

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/yurifrl/ivacruce/pkg/config"
)

func newTestParser() *Parser {
	return New(log.New(io.Discard), config.New(""))
}

// entry describes the identity block of a primary ledger line.
type entry struct {
	fecha, comprobante, pv, nro, letra, razon, condicion, cuit, concepto, jurisdiccion string
}

// primary renders e at its fixed offsets and appends the rate tail.
func primary(e entry, tail string) string {
	buf := []rune(strings.Repeat(" ", 70))
	put := func(start int, v string) { copy(buf[start:], []rune(v)) }
	put(0, e.fecha)
	put(3, e.comprobante)
	put(6, e.pv)
	put(12, e.nro)
	put(20, e.letra)
	put(22, e.razon)
	put(45, e.condicion)
	put(50, e.cuit)
	put(64, e.concepto)
	put(68, e.jurisdiccion)
	return string(buf) + tail
}

// continuation renders a line that repeats only the invoice number.
func continuation(nro, tail string) string {
	buf := []rune(strings.Repeat(" ", 70))
	copy(buf[12:], []rune(nro))
	return string(buf) + tail
}

// orphan renders a continuation line with a blank number column.
func orphan(tail string) string {
	return strings.Repeat(" ", 70) + tail
}

func invoice(nro string) entry {
	return entry{
		fecha:        "05",
		comprobante:  "FC",
		pv:           "00002",
		nro:          nro,
		letra:        "A",
		razon:        "DISTRIBUIDORA SUR SA",
		condicion:    "RI",
		cuit:         "30-71234567-8",
		concepto:     "001",
		jurisdiccion: "1",
	}
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		filename string
		want     FileType
	}{
		{"IVA_VENTAS_2025_03.TXT", LedgerTXT},
		{"comprobantes.zip", ExternalZIP},
		{"Mis Comprobantes Emitidos.csv", ExternalCSV},
		{"export.xls", ExternalXLS},
		{"export.XLSX", ExternalXLSX},
		{"notes.pdf", ""},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.filename))
		})
	}
}

func TestProcessExternalUnknownType(t *testing.T) {
	_, err := newTestParser().ProcessExternal([]byte("x"), "data.pdf")
	assert.Error(t, err)
}
