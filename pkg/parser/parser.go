package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/models"
)

type FileType string

const (
	LedgerTXT    FileType = "ledger_txt"
	ExternalZIP  FileType = "external_zip"
	ExternalCSV  FileType = "external_csv"
	ExternalXLS  FileType = "external_xls"
	ExternalXLSX FileType = "external_xlsx"
)

type Parser struct {
	logger        *log.Logger
	layout        Layout
	rates         RateTable
	bodyStart     int
	minLineLength int
	delimiter     rune
}

func New(logger *log.Logger, cfg *config.Config) *Parser {
	if cfg == nil {
		cfg = config.New("")
	}
	return &Parser{
		logger:        logger,
		layout:        LedgerLayout,
		rates:         NewRateTable(cfg.Ledger.SplitCodes, cfg.Ledger.ConditionalSplitCodes),
		bodyStart:     cfg.Ledger.BodyStart,
		minLineLength: cfg.Ledger.MinLineLength,
		delimiter:     cfg.Delimiter(),
	}
}

// ProcessExternal parses an authoritative invoice list, picking the reader
// from the file extension.
func (p *Parser) ProcessExternal(data []byte, filename string) (*models.Sheet, error) {
	fileType := DetectType(filename)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	switch fileType {
	case ExternalZIP:
		return p.ParseExternalZIP(data)
	case ExternalCSV:
		return p.ParseExternalCSV(data, filepath.Base(filename))
	case ExternalXLS:
		return p.ParseExternalXLS(data, filepath.Base(filename))
	case ExternalXLSX:
		return p.ParseExternalXLSX(data, filepath.Base(filename))
	default:
		p.logger.Debug("unknown file type", "filename", filename)
		return nil, fmt.Errorf("unknown external file type: %s", filename)
	}
}

func DetectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return LedgerTXT
	case ".zip":
		return ExternalZIP
	case ".csv":
		return ExternalCSV
	case ".xls":
		return ExternalXLS
	case ".xlsx":
		return ExternalXLSX
	}
	return ""
}
