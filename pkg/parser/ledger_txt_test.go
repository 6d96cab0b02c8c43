package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/yurifrl/ivacruce/pkg/models"
)

func sampleLedger() string {
	nc := invoice("00000002")
	nc.comprobante = "NC"
	nc.razon = "PEÑALOZA HNOS"

	lines := []string{
		"\x1b[0m",
		"  EMPRESA DEMO SRL",
		"  AV. SIEMPRE VIVA 742",
		"  30-71234567-8",
		"  Libro:  IVA VENTAS",
		"  Periodo:  03/2025",
		"",
		"",
		"",
		"------------------------------------------------------------",
		"                       LIBRO IVA VENTAS            Hoja 1",
		"--  ------",
		primary(invoice("00000001"), "Tasa 21%   100,00   21,00   121,00"),
		continuation("00000001", "Perc.IIBB   3,00"),
		primary(nc, "Tasa 21%   50,00   10,50   60,50"),
		primary(invoice("00000003"), "T.10.5%   200,00   21,00   221,00") + "   PPag.: 1",
		"------------------------------------------------------------",
		"                       LIBRO IVA VENTAS            Hoja 2",
		"--",
		primary(invoice("00000004"), "Exento   80,00   80,00"),
		"",
		"TOTALES POR TASA",
		"Tasa 21%   150,00",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestParseLedger(t *testing.T) {
	ledger, err := newTestParser().ParseLedger([]byte(sampleLedger()), "ventas.txt")
	require.NoError(t, err)

	assert.Equal(t, "ventas.txt", ledger.Source)
	assert.Equal(t, models.Ventas, ledger.Section)
	assert.Equal(t, "EMPRESA DEMO SRL", ledger.Header.RazonSocial)
	assert.Equal(t, "IVA VENTAS", ledger.Header.Libro)
	assert.Equal(t, "03/2025", ledger.Header.Periodo)

	require.Len(t, ledger.Movements, 4)
	assert.Equal(t, "00000001", ledger.Movements[0].Nro)
	assertAmount(t, "3.00", ledger.Movements[0].Amount("Perc.IIBB"))
	assert.Equal(t, "NC", ledger.Movements[1].Comprobante)
	assert.True(t, strings.HasPrefix(ledger.Movements[1].RazonSocial, "PEÑALOZA HNOS"))
	assert.Equal(t, "00000003", ledger.Movements[2].Nro)
	assertAmount(t, "200.00", ledger.Movements[2].Amount("T.10.5% Neto"))
	assertAmount(t, "80.00", ledger.Movements[3].Amount("Exento"))
}

func TestParseLedgerLatin1(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(sampleLedger())
	require.NoError(t, err)

	ledger, err := newTestParser().ParseLedger([]byte(encoded), "ventas.txt")
	require.NoError(t, err)

	require.Len(t, ledger.Movements, 4)
	assert.Equal(t, "PEÑALOZA HNOS"+strings.Repeat(" ", 9), ledger.Movements[1].RazonSocial)
}

func TestParseLedgerWithoutMovements(t *testing.T) {
	_, err := newTestParser().ParseLedger([]byte("a\nb\nc"), "empty.txt")
	assert.ErrorIs(t, err, ErrNoMovements)
}

func TestDecodeLines(t *testing.T) {
	lines, enc, err := DecodeLines([]byte("\xEF\xBB\xBFuno\ndos\n"))
	require.NoError(t, err)
	assert.Equal(t, UTF8, enc)
	assert.Equal(t, []string{"uno", "dos"}, lines)

	lines, enc, err = DecodeLines([]byte("a\xf1o\n"))
	require.NoError(t, err)
	assert.Equal(t, Latin1, enc)
	assert.Equal(t, []string{"año"}, lines)
}
