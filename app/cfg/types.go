package cfg

import "time"

type Cfg struct {
	// Database configuration
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Listing source
	ListingURL   string
	Pages        int
	PageWorkers  int
	RequestDelay time.Duration
	HTTPTimeout  time.Duration

	// Application configuration
	Port           string
	IngestInterval time.Duration
	ReportSettings string
	ImportFile     string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
