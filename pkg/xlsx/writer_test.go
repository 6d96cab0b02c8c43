package xlsx

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/models"
	"github.com/yurifrl/ivacruce/pkg/reconcile"
)

func sampleTable() *models.Table {
	rows := []models.Row{
		{Fecha: "05", Comprobante: "FC", PV: 2, Nro: 1, RazonSocial: "ACME SA", Concepto: 1,
			Amounts: []decimal.Decimal{decimal.RequireFromString("100"), decimal.RequireFromString("21")},
			Total:   decimal.RequireFromString("121")},
		{Fecha: "06", Comprobante: "NC", PV: 2, Nro: 2, RazonSocial: "OTRA SRL", Concepto: 1,
			Amounts: []decimal.Decimal{decimal.RequireFromString("-50"), decimal.RequireFromString("-10.5")},
			Total:   decimal.RequireFromString("-60.5")},
	}
	return &models.Table{
		Buckets: []string{"Tasa 21% Neto", "Tasa 21% IVA"},
		Rows:    rows,
		Totals: models.Row{IsTotals: true,
			Amounts: []decimal.Decimal{decimal.RequireFromString("50"), decimal.RequireFromString("10.5")},
			Total:   decimal.RequireFromString("60.5")},
	}
}

func raw(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestWriteMovements(t *testing.T) {
	header := models.Header{RazonSocial: "EMPRESA DEMO SRL", Direccion: "AV. SIEMPRE VIVA 742", CUIT: "30-71234567-8", Libro: "IVA VENTAS", Periodo: "03/2025"}
	var buf bytes.Buffer
	require.NoError(t, WriteMovements(&buf, header, sampleTable(), OptionsFrom(config.New(""))))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{MovementsSheet}, f.GetSheetList())
	assert.Equal(t, "EMPRESA DEMO SRL", raw(t, f, MovementsSheet, "F2"))
	assert.Equal(t, "03/2025", raw(t, f, MovementsSheet, "F6"))
	assert.Equal(t, "Fecha", raw(t, f, MovementsSheet, "A9"))
	assert.Equal(t, "Tasa 21% Neto", raw(t, f, MovementsSheet, "K9"))
	assert.Equal(t, "Total", raw(t, f, MovementsSheet, "M9"))
	assert.Equal(t, "1", raw(t, f, MovementsSheet, "D10"))
	assert.Equal(t, "100", raw(t, f, MovementsSheet, "K10"))
	assert.Equal(t, "-60.5", raw(t, f, MovementsSheet, "M11"))
	// totals row is not exported
	assert.Equal(t, "", raw(t, f, MovementsSheet, "D12"))

	styled, err := f.GetCellStyle(MovementsSheet, "K10")
	require.NoError(t, err)
	plain, err := f.GetCellStyle(MovementsSheet, "J10")
	require.NoError(t, err)
	assert.NotEqual(t, plain, styled)
}

func TestWriteConsolidated(t *testing.T) {
	table := sampleTable()
	external := &models.Sheet{
		Name:   "arca.csv",
		Header: []string{"Fecha", "Punto de Venta", "Número de Comprobante"},
		Rows: [][]string{
			{"05/03/2025", "2", "1"},
			{"07/03/2025", "2", "9"},
		},
	}
	report, err := reconcile.Build(table.Rows, external, reconcile.Columns{PointOfSale: "Punto de Venta", InvoiceNumber: "Número de Comprobante"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteConsolidated(&buf, table, external, report, OptionsFrom(config.New(""))))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Mendez", "ARCA", "ARCA NO EN MENDEZ", "MENDEZ NO EN ARCA"}, f.GetSheetList())
	assert.Equal(t, "Razon Social", raw(t, f, "Mendez", "F1"))
	assert.Equal(t, "OTRA SRL", raw(t, f, "Mendez", "F3"))
	assert.Equal(t, "00002", raw(t, f, "Mendez", "C2"))
	assert.Equal(t, "00000001", raw(t, f, "Mendez", "D2"))
	assert.Equal(t, "07/03/2025", raw(t, f, "ARCA", "A3"))

	rows, err := f.GetRows("ARCA NO EN MENDEZ")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Fecha", "Punto de Venta", "Número de Comprobante"}, {"07/03/2025", "2", "9"}}, rows)

	assert.Equal(t, "00002", raw(t, f, "MENDEZ NO EN ARCA", "C2"))
	assert.Equal(t, "00000002", raw(t, f, "MENDEZ NO EN ARCA", "D2"))
	assert.Equal(t, "-60.5", raw(t, f, "MENDEZ NO EN ARCA", "M2"))
	assert.Equal(t, "", raw(t, f, "MENDEZ NO EN ARCA", "D3"))
}

func TestSheetNames(t *testing.T) {
	opts := Options{LedgerLabel: "Estudio Contable Hermanos Rodriguez", ExternalLabel: "ARCA"}
	names := opts.SheetNames()
	for _, n := range names {
		assert.LessOrEqual(t, len([]rune(n)), maxSheetName)
	}
	assert.Equal(t, "ARCA", names[1])
}
