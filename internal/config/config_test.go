package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.Currency != "USD" {
		t.Fatalf("currency: got %q", cfg.General.Currency)
	}
	if cfg.General.DefaultRangeDays != 30 {
		t.Fatalf("range days: got %d", cfg.General.DefaultRangeDays)
	}
	if cfg.Operator.Role != RoleAdmin {
		t.Fatalf("role: got %q", cfg.Operator.Role)
	}
	if cfg.Billing.InvoicePrefix != "HD" {
		t.Fatalf("prefix: got %q", cfg.Billing.InvoicePrefix)
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[general]
currency = "EUR"
default_range_days = 14

[operator]
name = "Dana"
role = "member"

[billing]
invoice_prefix = "ACME"

[payments]
base_url = "https://pay.example.com"
api_key = "sk_test_123"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.Currency != "EUR" || cfg.General.DefaultRangeDays != 14 {
		t.Fatalf("general: %+v", cfg.General)
	}
	if cfg.Operator.Name != "Dana" || cfg.Operator.Role != RoleMember {
		t.Fatalf("operator: %+v", cfg.Operator)
	}
	if cfg.Operator.CanSeeFinancials() {
		t.Fatal("member should not see financials")
	}
	if cfg.Payments.BaseURL != "https://pay.example.com" {
		t.Fatalf("payments: %+v", cfg.Payments)
	}
}

func TestLoadRejectsUnknownRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[operator]\nrole = \"root\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.General.Currency = "GBP"
	cfg.Operator.Name = "Sam"

	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.General.Currency != "GBP" || got.Operator.Name != "Sam" {
		t.Fatalf("round trip: %+v", got)
	}
}
