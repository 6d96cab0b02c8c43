package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/ivacruce/pkg/config"
	"github.com/yurifrl/ivacruce/pkg/executors"
	"github.com/yurifrl/ivacruce/pkg/plan"
	"github.com/yurifrl/ivacruce/pkg/service"
	"github.com/yurifrl/ivacruce/pkg/ui"
)

var version = "dev"

var (
	cliFilters filters
	cfgFile    string
	verbose    bool
	format     string
	withTotals bool
)

var rootCmd = &cobra.Command{
	Use:           "ivacruce",
	Short:         "Normalize IVA ledgers and reconcile them against ARCA",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func newLogger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    verbose,
		ReportTimestamp: true,
		Prefix:          "ivacruce",
		Level:           level,
	})
}

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <input_path>",
	Short: "Convert IVA ledgers into movements workbooks or CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		return convertPaths(service.NewProcessor(cfg, logger), cfg, logger, args[0])
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [flags] <ledger.txt> <arca export>",
	Short: "Reconcile a ledger against the ARCA invoice list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		processor := service.NewProcessor(cfg, newLogger())

		target, _ := cmd.Flags().GetString("file")
		result, out, err := processor.ReconcileFiles(args[0], args[1], target)
		if err != nil {
			return err
		}

		ui.Header("Cruce " + filepath.Base(args[0]))
		ui.Info(fmt.Sprintf("%d invoice(s) in ledger, %d in external", len(result.Ledger.Table.Rows), len(result.External.Rows)))
		ui.Counts(result.Report.InSyncCount(), len(result.Report.MissingFromExternal), len(result.Report.MissingFromLedger))
		ui.Success(out)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <ledger.txt>",
	Short: "Dump the parsed header, movements and table of a ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		ledger, err := service.NewProcessor(cfg, newLogger()).ParseLedger(data, filepath.Base(args[0]))
		if err != nil {
			return err
		}

		printer := pp.New()
		printer.SetOutput(os.Stdout)
		printer.SetColoringEnabled(!ui.NoColor())
		printer.Println(ledger.Header)
		for _, m := range ledger.Movements {
			amounts := make(map[string]string, len(m.Buckets()))
			for _, b := range m.Buckets() {
				amounts[b] = m.Amount(b).StringFixed(2)
			}
			printer.Println(m.Line, m.Identity, amounts)
		}
		printer.Println(ledger.Table.Buckets, ledger.Table.Totals)
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Preview a YAML plan of reconciliations (dry-run)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Plan preview for %s\n", args[0])
		p.Print()
		summaries, err := executors.New(newLogger(), cfg, os.Stdout).Plan(p)
		if err != nil {
			return err
		}
		ui.Header("Summary of changes")
		for _, s := range summaries {
			ui.Info(s.String())
		}
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <plan_file>",
	Short: "Run a YAML plan and write every workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}

		summaries, err := executors.New(newLogger(), cfg, os.Stdout).Apply(p)
		for i, s := range summaries {
			ui.Step(i+1, len(p.Jobs), s.Job.Name)
			if s.Reconciled() {
				ui.Counts(s.InSync, s.MissingFromExternal, s.MissingFromLedger)
			}
			ui.Success(s.Output)
		}
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output directory (default: next to the ledger)")
	rootCmd.PersistentFlags().String("delimiter", ";", "External CSV delimiter")
	rootCmd.PersistentFlags().String("credit-note", "NC", "Comprobante code of credit notes")

	convertCmd.Flags().StringVar(&format, "format", "xlsx", "Output format: xlsx or csv")
	convertCmd.Flags().BoolVar(&withTotals, "totals", true, "Append the totals row to CSV output")
	convertCmd.Flags().StringVar(&cliFilters.comprobante, "comprobante", "", "Filter by comprobante code")
	convertCmd.Flags().Int64Var(&cliFilters.pointOfSale, "pv", 0, "Filter by point of sale")
	convertCmd.Flags().Float64Var(&cliFilters.minTotal, "min", 0, "Minimum row total")
	convertCmd.Flags().Float64Var(&cliFilters.maxTotal, "max", 0, "Maximum row total")
	convertCmd.Flags().StringVar(&cliFilters.razonSocial, "razon", "", "Filter by razon social (case insensitive)")

	reconcileCmd.Flags().StringP("file", "f", "", "Consolidated workbook path")

	rootCmd.AddCommand(convertCmd, reconcileCmd, inspectCmd, planCmd, applyCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ui.Error(err.Error())
		os.Exit(1)
	}
}
