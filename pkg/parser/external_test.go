package parser

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const externalCSV = "\xEF\xBB\xBFFecha;Tipo;Punto de Venta;Número de Comprobante;Imp. Total\r\n" +
	"05/03/2025;1 - Factura A;2;1;121,00\r\n" +
	"\r\n" +
	"06/03/2025;3 - Nota de Crédito A;00002;00000002;60,50\r\n"

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseExternalZIP(t *testing.T) {
	data := buildZip(t, map[string]string{
		"LEAME.txt":            "no",
		"comprobantes/mis.CSV": externalCSV,
	})

	sheet, err := newTestParser().ProcessExternal(data, "arca.zip")
	require.NoError(t, err)

	assert.Equal(t, "comprobantes/mis.CSV", sheet.Name)
	assert.Equal(t, []string{"Fecha", "Tipo", "Punto de Venta", "Número de Comprobante", "Imp. Total"}, sheet.Header)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, 2, sheet.Index("Punto de Venta"))
	assert.Equal(t, 3, sheet.Index("Número de Comprobante"))
	assert.Equal(t, -1, sheet.Index("CAE"))
	assert.Equal(t, "00000002", sheet.Rows[1][3])
	assert.Equal(t, "121,00", sheet.Rows[0][4])
}

func TestParseExternalZIPWithoutCSV(t *testing.T) {
	data := buildZip(t, map[string]string{"LEAME.txt": "no"})

	_, err := newTestParser().ParseExternalZIP(data)
	assert.ErrorIs(t, err, ErrNoCSVInArchive)
}

func TestParseExternalZIPInvalidArchive(t *testing.T) {
	_, err := newTestParser().ParseExternalZIP([]byte("not a zip"))
	assert.Error(t, err)
}

func TestParseExternalCSVEmpty(t *testing.T) {
	_, err := newTestParser().ParseExternalCSV(nil, "vacio.csv")
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestParseExternalXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Punto de Venta", "Número de Comprobante", "Denominación"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"3", "15", "CLIENTE UNO"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheet, err := newTestParser().ProcessExternal(buf.Bytes(), "arca.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Punto de Venta", "Número de Comprobante", "Denominación"}, sheet.Header)
	assert.Equal(t, [][]string{{"3", "15", "CLIENTE UNO"}}, sheet.Rows)
}
