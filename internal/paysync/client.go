// Package paysync talks to the payments provider's sync functions: named
// serverless endpoints invoked with a JSON payload that answer with a
// {success, data|error} envelope.
package paysync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnauthorized indicates the API key is invalid or revoked.
	ErrUnauthorized = errors.New("paysync: unauthorized (check api_key)")
	// ErrRateLimited indicates the provider rate limit was hit.
	ErrRateLimited = errors.New("paysync: rate limited")
)

// Client invokes payments-provider sync functions by name.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for the given provider endpoint.
// Returns nil if baseURL or apiKey is empty.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" || apiKey == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{},
	}
}

// ListCustomers returns the provider's customer list.
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	data, err := c.invoke(ctx, "listCustomers", struct{}{})
	if err != nil {
		return nil, err
	}

	var customers []Customer
	if err := json.Unmarshal(data, &customers); err != nil {
		return nil, fmt.Errorf("paysync: parsing customers: %w", err)
	}
	return customers, nil
}

// ListSubscriptions returns the provider's subscription list.
func (c *Client) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	data, err := c.invoke(ctx, "listSubscriptions", struct{}{})
	if err != nil {
		return nil, err
	}

	var subs []Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("paysync: parsing subscriptions: %w", err)
	}
	return subs, nil
}

// CreateInvoice pushes an invoice to the provider and returns its record.
func (c *Client) CreateInvoice(ctx context.Context, req InvoiceRequest) (*CreatedInvoice, error) {
	data, err := c.invoke(ctx, "createInvoice", req)
	if err != nil {
		return nil, err
	}

	var inv CreatedInvoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("paysync: parsing created invoice: %w", err)
	}
	return &inv, nil
}

// invoke POSTs a JSON payload to the named function and unwraps the envelope.
func (c *Client) invoke(ctx context.Context, name string, payload any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("paysync: encoding payload: %w", err)
	}

	url := c.baseURL + "/functions/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("paysync: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paysync: %s failed: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paysync: %s unexpected status %d", name, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("paysync: reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("paysync: parsing envelope: %w", err)
	}
	if !env.Success {
		if env.Error == "" {
			env.Error = "unknown error"
		}
		return nil, fmt.Errorf("paysync: %s: %s", name, env.Error)
	}
	return env.Data, nil
}
