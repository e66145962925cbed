package paysync

import "encoding/json"

// envelope is the wire shape of every sync-function response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Customer is a client organization as known to the payments provider.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Subscription is a recurring billing arrangement at the provider.
type Subscription struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	Status     string  `json:"status"`
	MonthlyUSD float64 `json:"monthly_usd"`
}

// InvoiceRequest is the payload for the create-invoice sync function.
type InvoiceRequest struct {
	IdempotencyKey string            `json:"idempotency_key"`
	CustomerID     string            `json:"customer_id"`
	Number         string            `json:"number"`
	PeriodStart    string            `json:"period_start"`
	PeriodEnd      string            `json:"period_end"`
	Lines          []InvoiceLineItem `json:"lines"`
	Total          float64           `json:"total"`
}

// InvoiceLineItem is one line of a pushed invoice.
type InvoiceLineItem struct {
	Description string  `json:"description"`
	Hours       float64 `json:"hours,omitempty"`
	Rate        float64 `json:"rate,omitempty"`
	Amount      float64 `json:"amount"`
}

// CreatedInvoice is the provider's record of a pushed invoice.
type CreatedInvoice struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Status string `json:"status"`
}
