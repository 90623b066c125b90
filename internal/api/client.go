// Package api is the client for the invoice-flow web API: document
// upload, invoice/payment listing, and linking a payment to its matched
// invoice. Auth is the per-user API key in the X-API-Key header.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

// Client calls the invoice-flow API.
type Client struct {
	baseURL string
	apiKey  string
	http    *retryablehttp.Client
	logger  zerolog.Logger
}

// NewClient creates an API client for the given base URL and key.
func NewClient(baseURL, apiKey string, logger zerolog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	return &Client{baseURL: baseURL, apiKey: apiKey, http: rc, logger: logger}
}

// Invoice is the API's view of an uploaded invoice.
type Invoice struct {
	ID            string           `json:"id"`
	InvoiceNumber *string          `json:"invoiceNumber"`
	InvoiceDate   *string          `json:"invoiceDate"`
	RecipientName *string          `json:"recipientName"`
	TotalAmount   *decimal.Decimal `json:"totalAmount"`
	FileName      string           `json:"fileName"`
	Status        string           `json:"status"`
}

// Payment is the API's view of a payment.
type Payment struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	InvoiceID *string         `json:"invoiceId"`
}

// ListInvoices fetches all invoices visible to the API key.
func (c *Client) ListInvoices(ctx context.Context) ([]Invoice, error) {
	var invoices []Invoice
	if err := c.getJSON(ctx, "/api/invoices", &invoices); err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return invoices, nil
}

// ListPayments fetches all payments. Payments with a nil InvoiceID are
// the ones still awaiting reconciliation.
func (c *Client) ListPayments(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	if err := c.getJSON(ctx, "/api/payments/all", &payments); err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	return payments, nil
}

// UploadInvoice posts a document file along with any extracted fields,
// so the server stores the original and skips re-running its own OCR
// preview for fields we already have.
func (c *Client) UploadInvoice(ctx context.Context, path string, rec model.InvoiceRecord) (*Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}

	fields := map[string]string{}
	if rec.InvoiceNumber != nil {
		fields["invoiceNumber"] = *rec.InvoiceNumber
	}
	if rec.InvoiceDate != nil {
		fields["invoiceDate"] = rec.InvoiceDate.Format("2006-01-02")
	}
	if rec.RecipientName != nil {
		fields["recipientName"] = *rec.RecipientName
	}
	if rec.TotalAmount != nil {
		fields["totalAmount"] = rec.TotalAmount.StringFixed(2)
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("building upload form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/invoices", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("X-API-Key", c.apiKey)

	var uploaded Invoice
	if err := c.do(req, &uploaded); err != nil {
		return nil, fmt.Errorf("uploading %s: %w", filepath.Base(path), err)
	}
	c.logger.Info().Str("file", filepath.Base(path)).Str("invoice_id", uploaded.ID).Msg("invoice uploaded")
	return &uploaded, nil
}

// AttachInvoice links a payment to an invoice.
func (c *Client) AttachInvoice(ctx context.Context, paymentID, invoiceID string) error {
	body, err := json.Marshal(map[string]string{"invoiceId": invoiceID})
	if err != nil {
		return fmt.Errorf("encoding attach request: %w", err)
	}

	path := fmt.Sprintf("/api/payments/%s/attach-invoice", paymentID)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building attach request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("attaching invoice %s to payment %s: %w", invoiceID, paymentID, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	return c.do(req, out)
}

func (c *Client) do(req *retryablehttp.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
