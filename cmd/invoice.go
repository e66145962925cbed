package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harmondigital/agencyhub/internal/cli"
	"github.com/harmondigital/agencyhub/internal/finance"
	"github.com/harmondigital/agencyhub/internal/store"
)

var flagInvoicePeriod int

var invoiceCmd = &cobra.Command{
	Use:   "invoice <account-id>",
	Short: "Draft an invoice from an account's unbilled time",
	Long: `Consolidates the account's unbilled billable hours and retainer fees
for the period into a draft invoice and marks the source entries billed.`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoice,
}

func init() {
	invoiceCmd.Flags().IntVar(&flagInvoicePeriod, "period", 30, "Billing period length in days, ending today")
	rootCmd.AddCommand(invoiceCmd)
}

func runInvoice(_ *cobra.Command, args []string) error {
	var accountID int64
	if _, err := fmt.Sscanf(args[0], "%d", &accountID); err != nil {
		return fmt.Errorf("account id must be a number: %w", err)
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

	account, err := s.GetAccount(accountID)
	if err != nil {
		return fmt.Errorf("account %d: %w", accountID, err)
	}

	periodEnd := windowStart(1).AddDate(0, 0, 1)
	periodStart := periodEnd.AddDate(0, 0, -flagInvoicePeriod)

	projects, err := s.ListAccountProjects(accountID)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	entries, err := s.ListAccountEntries(accountID, periodStart, periodEnd)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	draft := finance.BuildDraft(accountID, projects, entries, periodStart, periodEnd)
	if len(draft.Lines) == 0 {
		fmt.Printf("Nothing to bill for %s in the last %d days.\n", account.Name, flagInvoicePeriod)
		return nil
	}

	prefix := cfg.Billing.InvoicePrefix
	number, err := s.NextInvoiceNumber(prefix, time.Now().UTC().Year())
	if err != nil {
		return fmt.Errorf("invoice number: %w", err)
	}

	inv := &store.Invoice{
		Number:      number,
		AccountID:   accountID,
		PeriodStart: draft.PeriodStart,
		PeriodEnd:   draft.PeriodEnd,
		Subtotal:    draft.Subtotal,
		Status:      store.InvoiceDraft,
		Lines:       draft.Lines,
	}
	created, err := s.CreateInvoice(inv)
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	if err := s.MarkEntriesBilled(draft.EntryIDs); err != nil {
		return fmt.Errorf("mark entries billed: %w", err)
	}

	currency := cfg.General.Currency
	fmt.Printf("\n  Invoice %s for %s\n\n", created.Number, account.Name)
	for _, line := range created.Lines {
		fmt.Printf("  %-44s %12s\n", line.Description, cli.FormatMoney(line.Amount, currency))
	}
	fmt.Printf("\n  %-44s %12s\n", "Subtotal", cli.FormatMoney(created.Subtotal, currency))
	fmt.Printf("  %d time entries marked billed\n\n", len(draft.EntryIDs))
	return nil
}
