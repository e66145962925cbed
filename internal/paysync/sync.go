package paysync

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/harmondigital/agencyhub/internal/store"
)

// Syncer reconciles local accounts and invoices with the payments provider.
type Syncer struct {
	client *Client
	store  *store.Store
	log    *zap.Logger
}

// Result summarizes one sync run.
type Result struct {
	Customers      int
	Subscriptions  int
	AccountsLinked int
	InvoicesPushed int
}

func NewSyncer(client *Client, s *store.Store, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{client: client, store: s, log: log}
}

// Run pulls customers and subscriptions in one concurrent batch, links local
// accounts to provider customers by contact email, then pushes draft invoices.
// Failures are logged and returned; nothing is retried.
func (sy *Syncer) Run(ctx context.Context) (*Result, error) {
	var (
		customers []Customer
		subs      []Subscription
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = sy.client.ListCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = sy.client.ListSubscriptions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		sy.log.Error("provider pull failed", zap.Error(err))
		return nil, err
	}

	res := &Result{Customers: len(customers), Subscriptions: len(subs)}
	sy.log.Info("pulled provider data",
		zap.Int("customers", len(customers)),
		zap.Int("subscriptions", len(subs)),
	)

	linked, err := sy.linkAccounts(customers)
	if err != nil {
		return res, err
	}
	res.AccountsLinked = linked

	pushed, err := sy.pushDraftInvoices(ctx)
	if err != nil {
		return res, err
	}
	res.InvoicesPushed = pushed

	return res, nil
}

// linkAccounts records provider customer ids on accounts matched by email.
func (sy *Syncer) linkAccounts(customers []Customer) (int, error) {
	accounts, err := sy.store.ListAccounts()
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	byEmail := make(map[string]Customer, len(customers))
	for _, c := range customers {
		if c.Email != "" {
			byEmail[strings.ToLower(c.Email)] = c
		}
	}

	linked := 0
	for _, a := range accounts {
		if a.ExternalID != "" || a.ContactEmail == "" {
			continue
		}
		c, ok := byEmail[strings.ToLower(a.ContactEmail)]
		if !ok {
			continue
		}
		if err := sy.store.LinkAccountCustomer(a.ID, c.ID); err != nil {
			return linked, fmt.Errorf("link account %d: %w", a.ID, err)
		}
		sy.log.Info("linked account to customer",
			zap.String("account", a.Name),
			zap.String("customer_id", c.ID),
		)
		linked++
	}
	return linked, nil
}

// pushDraftInvoices sends each local draft invoice to the provider and marks
// it synced with the provider's invoice id.
func (sy *Syncer) pushDraftInvoices(ctx context.Context) (int, error) {
	draft := store.InvoiceDraft
	invoices, err := sy.store.ListInvoices(&draft)
	if err != nil {
		return 0, fmt.Errorf("list draft invoices: %w", err)
	}

	pushed := 0
	for i := range invoices {
		inv, err := sy.store.GetInvoice(invoices[i].ID)
		if err != nil {
			return pushed, err
		}

		account, err := sy.store.GetAccount(inv.AccountID)
		if err != nil {
			return pushed, err
		}
		if account.ExternalID == "" {
			sy.log.Warn("skipping invoice, account not linked",
				zap.String("number", inv.Number),
				zap.String("account", account.Name),
			)
			continue
		}

		req := InvoiceRequest{
			IdempotencyKey: uuid.NewString(),
			CustomerID:     account.ExternalID,
			Number:         inv.Number,
			PeriodStart:    inv.PeriodStart.Format("2006-01-02"),
			PeriodEnd:      inv.PeriodEnd.Format("2006-01-02"),
			Total:          inv.Subtotal,
		}
		for _, l := range inv.Lines {
			req.Lines = append(req.Lines, InvoiceLineItem{
				Description: l.Description,
				Hours:       l.Hours,
				Rate:        l.Rate,
				Amount:      l.Amount,
			})
		}

		created, err := sy.client.CreateInvoice(ctx, req)
		if err != nil {
			sy.log.Error("invoice push failed", zap.String("number", inv.Number), zap.Error(err))
			return pushed, err
		}
		if err := sy.store.MarkInvoiceSynced(inv.ID, created.ID); err != nil {
			return pushed, err
		}
		sy.log.Info("pushed invoice",
			zap.String("number", inv.Number),
			zap.String("external_id", created.ID),
		)
		pushed++
	}
	return pushed, nil
}
