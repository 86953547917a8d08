package shared

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Catalog struct {
		Path string `yaml:"path"` // empty = embedded default catalog
	} `yaml:"catalog"`

	Scan struct {
		Workers     int      `yaml:"workers"`       // 0 = GOMAXPROCS
		Extensions  []string `yaml:"extensions"`    // empty = walker defaults
		MaxFileKB   int      `yaml:"max_file_kb"`   // 0 = walker default
		MinSeverity int      `yaml:"min_severity"`  // findings below are hidden in summaries
	} `yaml:"scan"`

	Database struct {
		DSN string `yaml:"dsn"` // "./secscan.db"
	} `yaml:"database"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	API struct {
		Addr           string   `yaml:"addr"`
		SessionMinutes int      `yaml:"session_minutes"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"api"`

	Logging struct {
		Debug bool `yaml:"debug"`
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.DSN = "./secscan.db"
	c.Reporting.OutDir = "./reports"
	c.Scan.MinSeverity = 1
	c.API.Addr = ":8480"
	c.API.SessionMinutes = 60
	return c
}

// LoadConfig layers defaults, an optional YAML file, a .env file if one is
// present, and SECSCAN_* environment overrides, in that order.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	_ = godotenv.Load()

	if v := os.Getenv("SECSCAN_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("SECSCAN_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("SECSCAN_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("SECSCAN_API_ADDR"); v != "" {
		c.API.Addr = v
	}
	if v := os.Getenv("SECSCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scan.Workers = n
		}
	}
	if v := os.Getenv("SECSCAN_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.Debug = b
		}
	}
	return c, nil
}
