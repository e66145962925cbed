package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harmondigital/agencyhub/internal/config"
	"github.com/harmondigital/agencyhub/internal/store"
	"github.com/harmondigital/agencyhub/internal/tui"
)

var (
	flagDB     string
	flagConfig string
	flagDays   int
)

var rootCmd = &cobra.Command{
	Use:   "agencyhub",
	Short: "Agency operations from the terminal",
	Long:  "Track time, manage clients and projects, and reconcile revenue against payroll.",
	RunE:  runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default ~/.config/agencyhub/agencyhub.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default ~/.config/agencyhub/config.toml)")
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 0, "Reporting window in days (overrides config)")
}

// loadConfig is the shared config path used by all commands.
func loadConfig() (config.Config, error) {
	path := flagConfig
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if flagDays > 0 {
		cfg.General.DefaultRangeDays = flagDays
	}
	return cfg, nil
}

// openStore opens the database, preferring --db, then the config, then the
// default location.
func openStore(cfg config.Config) (*store.Store, error) {
	path := flagDB
	if path == "" {
		path = cfg.General.DBPath
	}
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.New(path)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	app := tui.NewApp(s, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
