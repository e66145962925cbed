package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harmondigital/agencyhub/internal/cli"
	"github.com/harmondigital/agencyhub/internal/finance"
	"github.com/harmondigital/agencyhub/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the reconciliation summary for the reporting window",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	days := cfg.General.DefaultRangeDays
	if days <= 0 {
		days = finance.DefaultRangeDays
	}
	from := windowStart(days)
	entries, err := s.ListEntries(store.EntryFilter{From: &from})
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	projects, err := s.ListProjects(true)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	members, err := s.ListMembers(true)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}

	sum := finance.Compute(entries, projects, members, days)
	currency := cfg.General.Currency

	fmt.Println()
	fmt.Printf("  Reconciliation, last %dd\n\n", days)
	row := func(label, value string) {
		fmt.Printf("  %-20s %14s\n", label, value)
	}
	row("Total hours", cli.FormatHours(sum.TotalHours))
	row("Billable hours", cli.FormatHours(sum.BillableHours))
	fmt.Println()
	row("Hourly revenue", cli.FormatMoney(sum.HourlyRevenue, currency))
	row("Retainer revenue", cli.FormatMoney(sum.RetainerRevenue, currency))
	row("Total revenue", cli.FormatMoney(sum.TotalRevenue, currency))
	fmt.Println()
	row("Billed", cli.FormatMoney(sum.BilledRevenue, currency))
	row("Unbilled", cli.FormatMoney(sum.UnbilledRevenue, currency))

	if cfg.Operator.CanSeeFinancials() {
		fmt.Println()
		row("Payroll cost", cli.FormatMoney(sum.PayrollCost, currency))
		row("Paid out", cli.FormatMoney(sum.PaidPayroll, currency))
		row("Owed to team", cli.FormatMoney(sum.UnpaidPayroll, currency))
		fmt.Println()
		row("Profit", cli.FormatMoney(sum.Profit, currency))
		row("Margin", cli.FormatPercent(sum.ProfitMargin))
	}
	fmt.Println()
	return nil
}

// windowStart returns the first day of a window of the given length ending
// today.
func windowStart(days int) time.Time {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -(days - 1))
}
