package csv

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/ivacruce/pkg/models"
)

func table() *models.Table {
	d := decimal.RequireFromString
	return &models.Table{
		Buckets: []string{"Exento"},
		Rows: []models.Row{
			{Fecha: "05", Comprobante: "FC", PV: 2, Nro: 1, RazonSocial: "ACME; SA", Concepto: 1,
				Amounts: []decimal.Decimal{d("10")}, Total: d("10")},
			{Fecha: "06", Comprobante: "NC", PV: 2, Nro: 2, RazonSocial: "OTRA SRL", Concepto: 1,
				Amounts: []decimal.Decimal{d("-2.5")}, Total: d("-2.5")},
		},
	}
}

func TestCreate(t *testing.T) {
	out, err := Create(table(), nil, true, ';')
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Fecha;Comprobante;PV;Nro;Letra;Razon Social;Condicion;CUIT;Concepto;Jurisdiccion;Exento;Total", lines[0])
	assert.Equal(t, `05;FC;2;1;;"ACME; SA";;;1;;10.00;10.00`, lines[1])
	assert.Equal(t, "06;NC;2;2;;OTRA SRL;;;1;;-2.50;-2.50", lines[2])
	assert.Equal(t, ";;;TOTALES;;;;;;;7.50;7.50", lines[3])
}

func TestCreateWithFilter(t *testing.T) {
	onlyCreditNotes := func(r models.Row) bool { return r.Comprobante == "NC" }

	out, err := Create(table(), onlyCreditNotes, true, ',')
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "06,NC"))
	assert.Equal(t, ",,,TOTALES,,,,,,,-2.50,-2.50", lines[2])
}

func TestCreateWithoutTotals(t *testing.T) {
	out, err := Create(table(), nil, false, ';')
	require.NoError(t, err)
	assert.NotContains(t, string(out), "TOTALES")
}
