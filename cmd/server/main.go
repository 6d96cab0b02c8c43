// Command server exposes the ledger conversion and ARCA reconciliation over
// HTTP with a small upload page.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/server"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "ivacruce-server",
	})

	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	host := flags.String("host", "0.0.0.0", "Listen address")
	port := flags.StringP("port", "p", "3000", "Listen port")
	cfgFile := flags.StringP("config", "c", "", "Config file (default is config.yaml)")
	flags.String("delimiter", ";", "ARCA CSV delimiter")
	flags.String("credit-note", "NC", "Comprobante code negated as a credit note")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: server [flags]\n\nServes POST /api/process and GET /api/files/{id}.\n\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Build(*cfgFile, flags)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	addr := net.JoinHostPort(*host, *port)
	logger.Info("starting server", "addr", addr, "file_ttl", cfg.Server.FileTTL)
	if err := server.New(cfg, logger).Start(addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
