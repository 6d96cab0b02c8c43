package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const envPrefix = "IVACRUCE"

// LedgerConfig describes the fixed-column IVA book layout.
type LedgerConfig struct {
	// BodyStart is the 1-based line where movements begin.
	BodyStart             int      `mapstructure:"body_start"`
	MinLineLength         int      `mapstructure:"min_line_length"`
	CreditNoteCode        string   `mapstructure:"credit_note_code"`
	SplitCodes            []string `mapstructure:"split_codes"`
	ConditionalSplitCodes []string `mapstructure:"conditional_split_codes"`
}

// ExternalConfig describes the authoritative invoice list.
type ExternalConfig struct {
	Delimiter           string `mapstructure:"delimiter"`
	PointOfSaleColumn   string `mapstructure:"point_of_sale_column"`
	InvoiceNumberColumn string `mapstructure:"invoice_number_column"`
}

// WorkbookConfig controls the generated spreadsheets.
type WorkbookConfig struct {
	CurrencyFormat string `mapstructure:"currency_format"`
	// CurrencyFromColumn is the 1-based first column rendered as currency.
	CurrencyFromColumn int    `mapstructure:"currency_from_column"`
	LedgerLabel        string `mapstructure:"ledger_label"`
	ExternalLabel      string `mapstructure:"external_label"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	// FileTTL is how long a generated workbook stays downloadable.
	FileTTL time.Duration `mapstructure:"file_ttl"`
}

type Config struct {
	OutputPath string         `mapstructure:"output"`
	Ledger     LedgerConfig   `mapstructure:"ledger"`
	External   ExternalConfig `mapstructure:"external"`
	Workbook   WorkbookConfig `mapstructure:"workbook"`
	Server     ServerConfig   `mapstructure:"server"`
}

func (c *Config) GetOutputPath() string {
	return c.OutputPath
}

// Delimiter returns the external CSV separator as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.External.Delimiter)
	return r
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Ledger.BodyStart < 1 {
		return fmt.Errorf("ledger.body_start must be >= 1, got %d", c.Ledger.BodyStart)
	}
	if c.Ledger.CreditNoteCode == "" {
		return errors.New("ledger.credit_note_code is required")
	}
	if utf8.RuneCountInString(c.External.Delimiter) != 1 {
		return fmt.Errorf("external.delimiter must be a single character, got %q", c.External.Delimiter)
	}
	if c.External.PointOfSaleColumn == "" || c.External.InvoiceNumberColumn == "" {
		return errors.New("external key columns are required")
	}
	if c.Workbook.CurrencyFromColumn < 1 {
		return fmt.Errorf("workbook.currency_from_column must be >= 1, got %d", c.Workbook.CurrencyFromColumn)
	}
	if c.Server.FileTTL <= 0 {
		return fmt.Errorf("server.file_ttl must be positive, got %s", c.Server.FileTTL)
	}
	return nil
}

// New creates a new default configuration
func New(outputPath string) *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// defaults always decode
	_ = v.Unmarshal(cfg)
	cfg.OutputPath = outputPath
	return cfg
}

// Build layers defaults, .env, the config file, IVACRUCE_* environment
// variables and command-line flags, in increasing precedence.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// a missing .env is not an error
	_ = gotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for flag, key := range flagKeys {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var flagKeys = map[string]string{
	"output":      "output",
	"delimiter":   "external.delimiter",
	"credit-note": "ledger.credit_note_code",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", "")

	v.SetDefault("ledger.body_start", 10)
	v.SetDefault("ledger.min_line_length", 35)
	v.SetDefault("ledger.credit_note_code", "NC")
	v.SetDefault("ledger.split_codes", []string{
		"Tasa 21%",
		"T.10.5%",
		"Tasa 27%",
		"C.F.21%",
		"C.F.10.5%",
		"Tasa 2.5%",
		"T.IMP 21%",
		"T.IMP 10%",
	})
	v.SetDefault("ledger.conditional_split_codes", []string{"R.Monot21", "R.Mont.10"})

	v.SetDefault("external.delimiter", ";")
	v.SetDefault("external.point_of_sale_column", "Punto de Venta")
	v.SetDefault("external.invoice_number_column", "Número de Comprobante")

	v.SetDefault("workbook.currency_format", `"$"#,##0.00`)
	v.SetDefault("workbook.currency_from_column", 11)
	v.SetDefault("workbook.ledger_label", "Mendez")
	v.SetDefault("workbook.external_label", "ARCA")

	v.SetDefault("server.file_ttl", "30m")
}
