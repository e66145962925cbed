package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harmondigital/agencyhub/internal/paysync"
)

var flagSyncVerbose bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync accounts and invoices with the payments provider",
	Long: `Pulls customers and subscriptions from the configured payments provider,
links them to local accounts by contact email, and pushes draft invoices.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVarP(&flagSyncVerbose, "verbose", "v", false, "Verbose sync logging")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := paysync.NewClient(cfg.Payments.BaseURL, cfg.Payments.APIKey)
	if client == nil {
		return fmt.Errorf("payments provider not configured, set base_url and api_key in the [payments] config section")
	}

	s, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	log := zap.NewNop()
	if flagSyncVerbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()
	}

	syncer := paysync.NewSyncer(client, s, log)
	result, err := syncer.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Printf("Pulled %d customers and %d subscriptions.\n", result.Customers, result.Subscriptions)
	fmt.Printf("Linked %d accounts, pushed %d invoices.\n", result.AccountsLinked, result.InvoicesPushed)
	return nil
}
