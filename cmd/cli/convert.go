package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/csv"
	"github.com/yurifrl/ivacruce/pkg/service"
	"github.com/yurifrl/ivacruce/pkg/ui"
)

// convertPaths converts every ledger matching pattern. All matches are
// attempted; the error reports how many failed.
func convertPaths(processor *service.Processor, cfg *config.Config, logger *log.Logger, pattern string) error {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no files found matching pattern %s", pattern)
	}

	failed := 0
	for _, match := range matches {
		if err := convertPath(processor, cfg, match, os.Stdout); err != nil {
			logger.Warn("failed to convert", "error", err, "path", match)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d path(s) failed to convert", failed, len(matches))
	}
	return nil
}

func convertPath(processor *service.Processor, cfg *config.Config, path string, stdout io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	switch {
	case info.IsDir():
		return processor.ProcessDirectory(path)
	case format == "csv":
		return printCSV(processor, cfg, path, stdout)
	default:
		out, err := processor.ConvertFile(path)
		if err != nil {
			return err
		}
		ui.Success(out)
		return nil
	}
}

func printCSV(processor *service.Processor, cfg *config.Config, path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	ledger, err := processor.ParseLedger(data, filepath.Base(path))
	if err != nil {
		return err
	}
	out, err := csv.Create(ledger.Table, cliFilters.toFilterFunc(), withTotals, cfg.Delimiter())
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
