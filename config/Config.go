package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/reaandrew/badchars/core"
	"github.com/reaandrew/badchars/sources"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable the tool reads.
const EnvPrefix = "BADCHARS_"

// ScanConfig is everything needed to run one scan.
type ScanConfig struct {
	Driver         string `json:"driver" yaml:"driver" toml:"driver"`
	Host           string `json:"host" yaml:"host" toml:"host"`
	Port           int    `json:"port" yaml:"port" toml:"port"`
	Username       string `json:"username" yaml:"username" toml:"username"`
	Password       string `json:"-" yaml:"password" toml:"password"`
	Database       string `json:"database" yaml:"database" toml:"database"`
	Table          string `json:"table" yaml:"table" toml:"table"`
	PkColumn       string `json:"pk_column" yaml:"pk_column" toml:"pk_column"`
	Column         string `json:"column" yaml:"column" toml:"column"`
	BookmarkColumn string `json:"bookmark_column" yaml:"bookmark_column" toml:"bookmark_column"`
	BookmarkValue  string `json:"bookmark_value" yaml:"bookmark_value" toml:"bookmark_value"`
	Profile        string `json:"profile" yaml:"profile" toml:"profile"`
	Report         string `json:"report" yaml:"report" toml:"report"`
	BaseURL        string `json:"base_url" yaml:"base_url" toml:"base_url"`
	OutputDir      string `json:"output_dir" yaml:"output_dir" toml:"output_dir"`
	Checkpoint     string `json:"checkpoint" yaml:"checkpoint" toml:"checkpoint"`
}

// Defaults returns the values used when nothing else is configured.
// A zero port means the driver's default port.
func Defaults() ScanConfig {
	return ScanConfig{
		Driver:  string(sources.MySQL),
		Profile: core.CP1252.String(),
		Report:  "console",
	}
}

// Load reads a YAML or TOML file, chosen by extension, on top of the defaults.
func Load(path string) (ScanConfig, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config file type: %s", path)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from envFile into the process environment.
// A missing default .env file is not an error.
func LoadDotEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return nil
		}
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load env file '%s': %w", envFile, err)
	}
	log.Debugf("Loaded environment from %s", envFile)
	return nil
}

// ApplyEnv overlays BADCHARS_* variables onto cfg.
func ApplyEnv(cfg ScanConfig) (ScanConfig, error) {
	fields := map[string]*string{
		"DRIVER":          &cfg.Driver,
		"HOST":            &cfg.Host,
		"USERNAME":        &cfg.Username,
		"PASSWORD":        &cfg.Password,
		"DATABASE":        &cfg.Database,
		"TABLE":           &cfg.Table,
		"PK_COLUMN":       &cfg.PkColumn,
		"COLUMN":          &cfg.Column,
		"BOOKMARK_COLUMN": &cfg.BookmarkColumn,
		"BOOKMARK_VALUE":  &cfg.BookmarkValue,
		"PROFILE":         &cfg.Profile,
		"REPORT":          &cfg.Report,
		"BASE_URL":        &cfg.BaseURL,
		"OUTPUT_DIR":      &cfg.OutputDir,
		"CHECKPOINT":      &cfg.Checkpoint,
	}
	for name, field := range fields {
		if value, ok := os.LookupEnv(EnvPrefix + name); ok {
			*field = value
		}
	}

	if value, ok := os.LookupEnv(EnvPrefix + "PORT"); ok {
		port, err := strconv.Atoi(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid value for %sPORT=%q: %w", EnvPrefix, value, err)
		}
		cfg.Port = port
	}
	return cfg, nil
}

// Validate checks that a scan can be attempted with cfg.
func (c ScanConfig) Validate() error {
	if _, err := sources.ParseDialect(c.Driver); err != nil {
		return err
	}
	if _, err := core.ParseEncodingProfile(c.Profile); err != nil {
		return err
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if c.Table == "" || c.PkColumn == "" || c.Column == "" {
		return fmt.Errorf("table, pk column and column are required")
	}
	if c.BookmarkValue != "" && c.BookmarkColumn == "" {
		return fmt.Errorf("bookmark value needs a bookmark column")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// Bookmark returns the configured bookmark, or nil.
func (c ScanConfig) Bookmark() *core.Bookmark {
	if c.BookmarkColumn == "" {
		return nil
	}
	return &core.Bookmark{Column: c.BookmarkColumn, Value: c.BookmarkValue}
}

// ConnectionSettings converts cfg into what sources.Open needs.
func (c ScanConfig) ConnectionSettings() (sources.ConnectionSettings, error) {
	dialect, err := sources.ParseDialect(c.Driver)
	if err != nil {
		return sources.ConnectionSettings{}, err
	}
	return sources.ConnectionSettings{
		Dialect:  dialect,
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		Database: c.Database,
	}, nil
}
