// Command ivalote converts every IVA ledger export (.txt) in a directory into
// its movements workbook.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/service"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ivalote",
	})

	flags := pflag.NewFlagSet("ivalote", pflag.ExitOnError)
	cfgFile := flags.StringP("config", "c", "", "Config file (default is config.yaml)")
	flags.StringP("output", "o", "", "Directory for the movements workbooks (default: next to each ledger)")
	flags.String("credit-note", "NC", "Comprobante code negated as a credit note")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ivalote [flags] <ledger_dir>\n\n")
		fmt.Fprintf(os.Stderr, "Converts each IVA ledger .txt in ledger_dir into <name>-movimientos.xlsx.\n\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Build(*cfgFile, flags)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	dir := flags.Arg(0)
	if err := service.NewProcessor(cfg, logger).ProcessDirectory(dir); err != nil {
		logger.Fatal("some ledgers were not converted", "dir", dir, "err", err)
	}
}
