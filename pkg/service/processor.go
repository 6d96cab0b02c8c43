package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/ivacruce/pkg/aggregate"
	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/models"
	"github.com/yurifrl/ivacruce/pkg/parser"
	"github.com/yurifrl/ivacruce/pkg/reconcile"
	"github.com/yurifrl/ivacruce/pkg/xlsx"
)

const (
	movementsSuffix    = "-movimientos.xlsx"
	consolidatedSuffix = "-cruce.xlsx"
)

type Processor struct {
	config *config.Config
	logger *log.Logger
	parser *parser.Parser
}

// Result bundles a parsed ledger with its reconciliation.
type Result struct {
	Ledger   *models.Ledger
	External *models.Sheet
	Report   *reconcile.Report
}

func NewProcessor(cfg *config.Config, logger *log.Logger) *Processor {
	return &Processor{
		config: cfg,
		logger: logger,
		parser: parser.New(logger, cfg),
	}
}

// ParseLedger runs the full text-to-table pipeline over a ledger export.
func (p *Processor) ParseLedger(data []byte, filename string) (ledger *models.Ledger, err error) {
	defer recoverError(&err, p.logger, filename)

	ledger, err = p.parser.ParseLedger(data, filename)
	if err != nil {
		return nil, err
	}
	table, err := aggregate.Build(ledger.Movements, p.config.Ledger.CreditNoteCode)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", filename, err)
	}
	ledger.Table = table
	p.logger.Info("parsed ledger", "file", filename, "section", ledger.Section,
		"movements", len(ledger.Movements), "rows", len(table.Rows), "buckets", len(table.Buckets))
	return ledger, nil
}

// Reconcile parses the external invoice list and compares it with ledger.
func (p *Processor) Reconcile(ledger *models.Ledger, data []byte, filename string) (result *Result, err error) {
	defer recoverError(&err, p.logger, filename)

	sheet, err := p.parser.ProcessExternal(data, filename)
	if err != nil {
		return nil, err
	}
	report, err := reconcile.Build(ledger.Table.Rows, sheet, p.columns())
	if err != nil {
		return nil, err
	}
	p.logger.Info("reconciliation complete", "ledger", ledger.Source, "external", filename,
		"in_sync", report.InSyncCount(),
		"missing_in_ledger", len(report.MissingFromLedger),
		"missing_in_external", len(report.MissingFromExternal))
	return &Result{Ledger: ledger, External: sheet, Report: report}, nil
}

// RenderMovements returns the movements workbook for ledger.
func (p *Processor) RenderMovements(ledger *models.Ledger) (out []byte, err error) {
	defer recoverError(&err, p.logger, ledger.Source)

	var buf bytes.Buffer
	if err := xlsx.WriteMovements(&buf, ledger.Header, ledger.Table, xlsx.OptionsFrom(p.config)); err != nil {
		return nil, fmt.Errorf("failed to render movements workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderConsolidated returns the four-sheet reconciliation workbook.
func (p *Processor) RenderConsolidated(result *Result) (out []byte, err error) {
	defer recoverError(&err, p.logger, result.Ledger.Source)

	var buf bytes.Buffer
	if err := xlsx.WriteConsolidated(&buf, result.Ledger.Table, result.External, result.Report, xlsx.OptionsFrom(p.config)); err != nil {
		return nil, fmt.Errorf("failed to render consolidated workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ConvertFile writes the movements workbook next to the ledger, or into the
// configured output directory, and returns its path.
func (p *Processor) ConvertFile(inputPath string) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	ledger, err := p.ParseLedger(data, filepath.Base(inputPath))
	if err != nil {
		return "", err
	}
	out, err := p.RenderMovements(ledger)
	if err != nil {
		return "", err
	}
	outPath := p.determineOutputPath(inputPath, movementsSuffix)
	if err := WriteFileAtomic(outPath, out); err != nil {
		return "", err
	}
	p.logger.Info("processed file successfully", "input", inputPath, "output", outPath)
	return outPath, nil
}

// ReconcileFiles parses both sources and writes the consolidated workbook to
// outputPath, or to a path derived from the ledger when it is empty.
func (p *Processor) ReconcileFiles(ledgerPath, externalPath, outputPath string) (*Result, string, error) {
	ledgerData, err := os.ReadFile(ledgerPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read ledger: %w", err)
	}
	externalData, err := os.ReadFile(externalPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read external source: %w", err)
	}

	ledger, err := p.ParseLedger(ledgerData, filepath.Base(ledgerPath))
	if err != nil {
		return nil, "", err
	}
	result, err := p.Reconcile(ledger, externalData, filepath.Base(externalPath))
	if err != nil {
		return nil, "", err
	}
	out, err := p.RenderConsolidated(result)
	if err != nil {
		return nil, "", err
	}

	if outputPath == "" {
		outputPath = p.determineOutputPath(ledgerPath, consolidatedSuffix)
	}
	if err := WriteFileAtomic(outputPath, out); err != nil {
		return nil, "", err
	}
	p.logger.Info("wrote consolidated workbook", "output", outputPath)
	return result, outputPath, nil
}

// ProcessDirectory converts every .txt ledger in dir. A failing ledger is
// logged and does not stop the others; the returned error joins every
// failure.
func (p *Processor) ProcessDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading directory: %w", err)
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || parser.DetectType(entry.Name()) != parser.LedgerTXT {
			continue
		}
		if _, err := p.ConvertFile(filepath.Join(dir, entry.Name())); err != nil {
			p.logger.Error("failed to process entry", "file", entry.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name(), err))
		}
	}

	return errors.Join(errs...)
}

func (p *Processor) columns() reconcile.Columns {
	return reconcile.Columns{
		PointOfSale:   p.config.External.PointOfSaleColumn,
		InvoiceNumber: p.config.External.InvoiceNumberColumn,
	}
}

func (p *Processor) determineOutputPath(inputPath, suffix string) string {
	fileName := filepath.Base(inputPath)
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if p.config.GetOutputPath() != "" {
		return filepath.Join(p.config.GetOutputPath(), baseName+suffix)
	}
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + suffix
}

// WriteFileAtomic writes data to a temp file beside path and renames it into
// place, so a failed run never leaves a partial workbook.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// recoverError turns a panic in the pipeline into a single error.
func recoverError(err *error, logger *log.Logger, source string) {
	if rec := recover(); rec != nil {
		logger.Error("panic recovered", "panic", rec, "source", source)
		*err = fmt.Errorf("processing %s failed: %v", source, rec)
	}
}
