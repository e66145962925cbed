package paysync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/harmondigital/agencyhub/internal/store"
)

// newTestServer serves canned envelopes per function name.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for name, h := range handlers {
		mux.HandleFunc("/functions/"+name, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func ok(t *testing.T, data any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := json.Marshal(data)
		json.NewEncoder(w).Encode(envelope{Success: true, Data: raw})
	}
}

// ============================================================
// Client
// ============================================================

func TestNewClientRequiresCredentials(t *testing.T) {
	if NewClient("", "key") != nil {
		t.Fatal("expected nil client without base url")
	}
	if NewClient("http://x", "") != nil {
		t.Fatal("expected nil client without api key")
	}
	if NewClient("http://x", "key") == nil {
		t.Fatal("expected client")
	}
}

func TestListCustomers(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"listCustomers": ok(t, []Customer{
			{ID: "cus_1", Name: "Acme", Email: "billing@acme.com"},
		}),
	})

	c := NewClient(srv.URL, "key")
	customers, err := c.ListCustomers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(customers) != 1 || customers[0].ID != "cus_1" {
		t.Fatalf("unexpected customers: %+v", customers)
	}
}

func TestListSubscriptions(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"listSubscriptions": ok(t, []Subscription{
			{ID: "sub_1", CustomerID: "cus_1", Status: "active", MonthlyUSD: 3000},
		}),
	})

	c := NewClient(srv.URL, "key")
	subs, err := c.ListSubscriptions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 || subs[0].MonthlyUSD != 3000 {
		t.Fatalf("unexpected subscriptions: %+v", subs)
	}
}

func TestCreateInvoiceSendsAuthAndPayload(t *testing.T) {
	var gotAuth string
	var gotReq InvoiceRequest

	srv := newTestServer(t, map[string]http.HandlerFunc{
		"createInvoice": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&gotReq)
			raw, _ := json.Marshal(CreatedInvoice{ID: "in_9", Number: gotReq.Number, Status: "open"})
			json.NewEncoder(w).Encode(envelope{Success: true, Data: raw})
		},
	})

	c := NewClient(srv.URL, "sk_test")
	created, err := c.CreateInvoice(context.Background(), InvoiceRequest{
		IdempotencyKey: "abc",
		CustomerID:     "cus_1",
		Number:         "HD-2026-0001",
		Total:          500,
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer sk_test" {
		t.Fatalf("auth header: %q", gotAuth)
	}
	if gotReq.Number != "HD-2026-0001" || gotReq.Total != 500 {
		t.Fatalf("payload: %+v", gotReq)
	}
	if created.ID != "in_9" {
		t.Fatalf("created: %+v", created)
	}
}

func TestInvokeEnvelopeError(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"listCustomers": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(envelope{Success: false, Error: "provider exploded"})
		},
	})

	c := NewClient(srv.URL, "key")
	_, err := c.ListCustomers(context.Background())
	if err == nil {
		t.Fatal("expected envelope error")
	}
}

func TestInvokeUnauthorized(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"listCustomers": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	})

	c := NewClient(srv.URL, "key")
	_, err := c.ListCustomers(context.Background())
	if err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestInvokeRateLimited(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		"listCustomers": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
	})

	c := NewClient(srv.URL, "key")
	_, err := c.ListCustomers(context.Background())
	if err != ErrRateLimited {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

// ============================================================
// Syncer
// ============================================================

func newSyncStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSyncerLinksAccountsAndPushesInvoices(t *testing.T) {
	s := newSyncStore(t)

	account, err := s.CreateAccount("Acme", "Pat", "billing@acme.com", store.AccountActive)
	if err != nil {
		t.Fatal(err)
	}
	project, err := s.CreateProject(&account.ID, "Site", store.BillingHourly, 100, 0, false)
	if err != nil {
		t.Fatal(err)
	}

	start, _ := time.Parse("2006-01-02", "2026-08-01")
	end, _ := time.Parse("2006-01-02", "2026-08-31")
	inv, err := s.CreateInvoice(&store.Invoice{
		Number:      "HD-2026-0001",
		AccountID:   account.ID,
		PeriodStart: start,
		PeriodEnd:   end,
		Subtotal:    500,
		Lines: []store.InvoiceLine{
			{ProjectID: project.ID, Description: "Site: 5.00 hours @ 100.00/h", Hours: 5, Rate: 100, Amount: 500},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	srv := newTestServer(t, map[string]http.HandlerFunc{
		"listCustomers":     ok(t, []Customer{{ID: "cus_1", Name: "Acme", Email: "Billing@Acme.com"}}),
		"listSubscriptions": ok(t, []Subscription{}),
		"createInvoice": func(w http.ResponseWriter, r *http.Request) {
			var req InvoiceRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.IdempotencyKey == "" {
				t.Error("missing idempotency key")
			}
			raw, _ := json.Marshal(CreatedInvoice{ID: "in_42", Number: req.Number, Status: "open"})
			json.NewEncoder(w).Encode(envelope{Success: true, Data: raw})
		},
	})

	sy := NewSyncer(NewClient(srv.URL, "key"), s, zap.NewNop())
	res, err := sy.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Customers != 1 || res.AccountsLinked != 1 || res.InvoicesPushed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	// Account linked by case-insensitive email match.
	got, _ := s.GetAccount(account.ID)
	if got.ExternalID != "cus_1" {
		t.Fatalf("account external id: %q", got.ExternalID)
	}

	// Invoice marked synced with the provider id.
	synced, _ := s.GetInvoice(inv.ID)
	if synced.Status != store.InvoiceSynced || synced.ExternalID != "in_42" {
		t.Fatalf("invoice not synced: %+v", synced)
	}
}

func TestSyncerSkipsUnlinkedAccounts(t *testing.T) {
	s := newSyncStore(t)

	// Account with no contact email can never match a customer.
	account, err := s.CreateAccount("Orphan", "", "", store.AccountActive)
	if err != nil {
		t.Fatal(err)
	}
	start, _ := time.Parse("2006-01-02", "2026-08-01")
	end, _ := time.Parse("2006-01-02", "2026-08-31")
	if _, err := s.CreateInvoice(&store.Invoice{
		Number:      "HD-2026-0001",
		AccountID:   account.ID,
		PeriodStart: start,
		PeriodEnd:   end,
		Subtotal:    100,
	}); err != nil {
		t.Fatal(err)
	}

	srv := newTestServer(t, map[string]http.HandlerFunc{
		"listCustomers":     ok(t, []Customer{}),
		"listSubscriptions": ok(t, []Subscription{}),
	})

	sy := NewSyncer(NewClient(srv.URL, "key"), s, nil)
	res, err := sy.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.InvoicesPushed != 0 {
		t.Fatalf("pushed invoices for unlinked account: %+v", res)
	}
}

func TestSyncerPullFailure(t *testing.T) {
	s := newSyncStore(t)

	srv := newTestServer(t, map[string]http.HandlerFunc{
		"listCustomers": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"listSubscriptions": ok(t, []Subscription{}),
	})

	sy := NewSyncer(NewClient(srv.URL, "key"), s, zap.NewNop())
	if _, err := sy.Run(context.Background()); err == nil {
		t.Fatal("expected pull error")
	}
}
