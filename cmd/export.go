package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harmondigital/agencyhub/internal/export"
	"github.com/harmondigital/agencyhub/internal/store"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export [csv|json]",
	Short: "Export time entries with billing detail",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	format := "csv"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown format %q, want csv or json", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	entries, err := s.ListEntries(store.EntryFilter{})
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	plist, err := s.ListProjects(true)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	projects := make(map[int64]*store.Project, len(plist))
	for i := range plist {
		projects[plist[i].ID] = &plist[i]
	}
	mlist, err := s.ListMembers(true)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	members := make(map[int64]*store.TeamMember, len(mlist))
	for i := range mlist {
		members[mlist[i].ID] = &mlist[i]
	}

	path := flagExportOut
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, fmt.Sprintf("agencyhub-export-%s.%s", time.Now().Format("2006-01-02"), format))
	}

	if format == "csv" {
		err = export.ToCSV(entries, projects, members, path)
	} else {
		err = export.ToJSON(entries, projects, members, cfg.General.DefaultRangeDays, path)
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Printf("Exported %d entries to %s\n", len(entries), path)
	return nil
}
