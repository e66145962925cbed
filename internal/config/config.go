// Package config loads agencyhub settings from a TOML file, with sensible
// defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Role controls visibility of financial figures in report surfaces.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Config holds all agencyhub configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Operator OperatorConfig `toml:"operator"`
	Billing  BillingConfig  `toml:"billing"`
	Payments PaymentsConfig `toml:"payments"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Currency         string `toml:"currency"`
	DefaultRangeDays int    `toml:"default_range_days"`
	DBPath           string `toml:"db_path,omitempty"`
}

// OperatorConfig identifies the person running the tool. The operator is
// resolved once at startup and passed explicitly to anything that needs
// role-based filtering.
type OperatorConfig struct {
	Name string `toml:"name,omitempty"`
	Role Role   `toml:"role"`
}

// BillingConfig holds invoicing preferences.
type BillingConfig struct {
	InvoicePrefix string  `toml:"invoice_prefix"`
	TaxRate       float64 `toml:"tax_rate,omitempty"`
}

// PaymentsConfig holds payments-provider API settings.
type PaymentsConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
	APIKey  string `toml:"api_key,omitempty"`
}

// CanSeeFinancials reports whether the operator may view payroll and profit.
func (o OperatorConfig) CanSeeFinancials() bool {
	return o.Role == RoleAdmin
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency:         "USD",
			DefaultRangeDays: 30,
		},
		Operator: OperatorConfig{
			Role: RoleAdmin,
		},
		Billing: BillingConfig{
			InvoicePrefix: "HD",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "agencyhub")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "agencyhub")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path, returning defaults if it doesn't exist.
// An empty path means the default location.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Operator.Role != RoleAdmin && cfg.Operator.Role != RoleMember {
		return cfg, fmt.Errorf("unknown operator role %q", cfg.Operator.Role)
	}
	if cfg.General.DefaultRangeDays <= 0 {
		cfg.General.DefaultRangeDays = 30
	}

	return cfg, nil
}

// Save writes the config back to path (default location when empty).
func Save(cfg Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
