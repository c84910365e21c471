// Package razorpay is a thin client for the Razorpay orders and invoices APIs.
package razorpay

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "https://api.razorpay.com/v1"

type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
	// HTTPClient overrides the instrumented default client.
	HTTPClient *http.Client
}

type Client struct {
	restyClient *resty.Client
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	restyClient := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{restyClient: restyClient}
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	var order Order
	if err := c.post(ctx, "/orders", req, &order); err != nil {
		return Order{}, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (c *Client) CreateInvoice(ctx context.Context, req InvoiceRequest) (Invoice, error) {
	if req.Type == "" {
		req.Type = "invoice"
	}
	var invoice Invoice
	if err := c.post(ctx, "/invoices", req, &invoice); err != nil {
		return Invoice{}, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	var envelope errorEnvelope

	slog.InfoContext(ctx, "Razorpay call started", slog.String("path", path))
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		SetError(&envelope).
		Post(path)
	if err != nil {
		return fmt.Errorf("failed to call razorpay: %w", err)
	}
	slog.InfoContext(ctx, "Razorpay call completed",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("latency", resp.Time()),
	)

	if !resp.IsSuccess() {
		return &APIError{
			StatusCode:  resp.StatusCode(),
			Code:        envelope.Error.Code,
			Description: envelope.Error.Description,
			Field:       envelope.Error.Field,
		}
	}
	return nil
}
