package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBDriver   string `long:"db-driver" env:"DB_DRIVER" default:"sqlite" choice:"sqlite" choice:"postgres" description:"Database driver"`
	SQLitePath string `long:"sqlite-path" env:"SQLITE_PATH" default:"./data/gradcafe.db" description:"SQLite database file (sqlite driver only)"`
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"gradcafe" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" description:"Database password (required for postgres)"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"gradcafe" description:"Database name"`

	// Listing source
	ListingURL   string        `long:"listing-url" env:"LISTING_URL" default:"https://www.thegradcafe.com/survey/index.php" description:"Survey listing URL"`
	Pages        int           `long:"pages" env:"PAGES" default:"10" description:"Number of listing pages fetched per ingestion run"`
	PageWorkers  int           `long:"page-workers" env:"PAGE_WORKERS" default:"3" description:"Concurrent listing page requests"`
	RequestDelay time.Duration `long:"request-delay" env:"REQUEST_DELAY" default:"500ms" description:"Minimum spacing between listing page requests"`
	HTTPTimeout  time.Duration `long:"http-timeout" env:"HTTP_TIMEOUT" default:"15s" description:"Timeout of a single listing page request"`

	// Application configuration
	Port           string        `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	IngestInterval time.Duration `long:"ingest-interval" env:"INGEST_INTERVAL" default:"0s" description:"Run ingestion on this interval (0 disables)"`
	ReportSettings string        `long:"report-settings" env:"REPORT_SETTINGS" default:"./report.yml" description:"YAML file overriding report settings (optional)"`
	ImportFile     string        `long:"import-file" env:"IMPORT_FILE" description:"JSON export with standardized names loaded once at startup (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 GradCafe Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	cfg, err := parse(os.Args[1:])
	if err != nil || cfg == nil {
		return cfg, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// parse returns nil, nil when help was requested.
func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBDriver:       raw.DBDriver,
		SQLitePath:     raw.SQLitePath,
		DBHost:         raw.DBHost,
		DBPort:         raw.DBPort,
		DBUser:         raw.DBUser,
		DBPassword:     raw.DBPassword,
		DBName:         raw.DBName,
		ListingURL:     raw.ListingURL,
		Pages:          raw.Pages,
		PageWorkers:    raw.PageWorkers,
		RequestDelay:   raw.RequestDelay,
		HTTPTimeout:    raw.HTTPTimeout,
		Port:           raw.Port,
		IngestInterval: raw.IngestInterval,
		ReportSettings: raw.ReportSettings,
		ImportFile:     raw.ImportFile,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		return fmt.Errorf("db-password is required for the postgres driver")
	}
	if cfg.DBDriver == "sqlite" && cfg.SQLitePath == "" {
		return fmt.Errorf("sqlite-path is required for the sqlite driver")
	}

	positiveFields := map[string]int{
		"pages":        cfg.Pages,
		"page-workers": cfg.PageWorkers,
	}
	for fieldName, fieldValue := range positiveFields {
		if fieldValue <= 0 {
			return fmt.Errorf("%s must be positive", fieldName)
		}
	}

	nonNegativeDurations := map[string]time.Duration{
		"request-delay":   cfg.RequestDelay,
		"http-timeout":    cfg.HTTPTimeout,
		"ingest-interval": cfg.IngestInterval,
	}
	for fieldName, fieldValue := range nonNegativeDurations {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
