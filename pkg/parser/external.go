package parser

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/ivacruce/pkg/models"
)

// xlsMaxRows is the row limit of the legacy BIFF8 format.
const xlsMaxRows = 65536

var (
	ErrNoCSVInArchive = errors.New("no csv file found in archive")
	ErrEmptySheet     = errors.New("external sheet is empty")
)

// ParseExternalZIP reads the first .csv entry of an archive.
func (p *Parser) ParseExternalZIP(data []byte) (*models.Sheet, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		p.logger.Debug("found csv in archive", "entry", f.Name, "bytes", len(content))
		return p.ParseExternalCSV(content, f.Name)
	}
	return nil, ErrNoCSVInArchive
}

// ParseExternalCSV reads delimiter-separated text. Every value stays a string.
func (p *Parser) ParseExternalCSV(data []byte, name string) (*models.Sheet, error) {
	text, enc, err := DecodeText(data)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = p.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	p.logger.Debug("parsed external csv", "name", name, "encoding", enc, "records", len(records))
	return sheetFromRecords(name, records)
}

// ParseExternalXLS reads the first sheet of a legacy Excel export.
func (p *Parser) ParseExternalXLS(data []byte, name string) (*models.Sheet, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}
	rows := workbook.ReadAllCells(xlsMaxRows)
	p.logger.Debug("parsed external xls", "name", name, "rows", len(rows))
	return sheetFromRecords(name, rows)
}

// ParseExternalXLSX reads the first sheet of an Office Open XML workbook.
func (p *Parser) ParseExternalXLSX(data []byte, name string) (*models.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	p.logger.Debug("parsed external xlsx", "name", name, "sheet", sheets[0], "rows", len(rows))
	return sheetFromRecords(name, rows)
}

// sheetFromRecords uses the first record as header and drops blank rows.
func sheetFromRecords(name string, records [][]string) (*models.Sheet, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptySheet)
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	sheet := &models.Sheet{Name: name, Header: header}
	for _, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		sheet.Rows = append(sheet.Rows, rec)
	}
	return sheet, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
