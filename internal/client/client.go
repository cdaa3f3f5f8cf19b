package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shop-billing-backend/internal/billing"
	"shop-billing-backend/internal/models"
)

var ErrNotFound = errors.New("invoice not found")

// APIError is a non-2xx reply from the billing backend, carrying the
// server-provided message when one was sent.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Client talks to the billing backend the way the billing form does.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NextInvoiceID asks the backend what number the next saved bill will get.
func (c *Client) NextInvoiceID(ctx context.Context, variant billing.Variant) (int64, error) {
	var out struct {
		NextID int64 `json:"nextId"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/%s/next-invoice-id", variant), &out); err != nil {
		return 0, err
	}
	return out.NextID, nil
}

// LatestInvoiceNo returns the highest number already issued, 0 if none.
func (c *Client) LatestInvoiceNo(ctx context.Context, variant billing.Variant) (int64, error) {
	var out struct {
		LatestInvoiceNo int64 `json:"latestInvoiceNo"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/%s/latest-invoice-no", variant), &out); err != nil {
		return 0, err
	}
	return out.LatestInvoiceNo, nil
}

type submitPayload struct {
	InvoiceNo      int64          `json:"invoiceNo"`
	CustomerName   string         `json:"customerName"`
	Date           string         `json:"date"`
	CompanyName    string         `json:"companyName"`
	City           string         `json:"city"`
	Products       []billing.Line `json:"products"`
	PreviousAmount *float64       `json:"previousAmount,omitempty"`
	HardwareAmount *float64       `json:"hardwareAmount,omitempty"`
	AluminumTotal  *float64       `json:"aluminumTotal,omitempty"`
	ReceivedAmount *float64       `json:"receivedAmount,omitempty"`
}

// SubmitBill posts the whole draft and returns the invoice number the store
// assigned. That number is authoritative; callers must overwrite any local
// guess with it.
func (c *Client) SubmitBill(ctx context.Context, draft *billing.Draft) (int64, error) {
	payload := submitPayload{
		InvoiceNo:      draft.InvoiceNo,
		CustomerName:   draft.CustomerName,
		Date:           draft.Date,
		CompanyName:    draft.CompanyName,
		City:           draft.City,
		Products:       draft.Lines,
		PreviousAmount: draft.PreviousAmount,
		ReceivedAmount: draft.ReceivedAmount,
	}
	path := fmt.Sprintf("/%s/add-hardware", draft.Variant)
	if draft.Variant == billing.VariantAluminum {
		path = fmt.Sprintf("/%s/add-aluminum-bill", draft.Variant)
		payload.HardwareAmount = draft.CrossAmount
	} else {
		payload.AluminumTotal = draft.CrossAmount
	}

	var out struct {
		InvoiceNo int64 `json:"invoiceNo"`
	}
	if err := c.postJSON(ctx, path, payload, &out); err != nil {
		return 0, err
	}
	return out.InvoiceNo, nil
}

// AllInvoices lists every saved bill of one variant, oldest number first.
func (c *Client) AllInvoices(ctx context.Context, variant billing.Variant) ([]models.Invoice, error) {
	var out []models.Invoice
	if err := c.getJSON(ctx, fmt.Sprintf("/%s/allInvoices", variant), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindInvoice fetches one saved bill by number; ErrNotFound when the number
// was never issued.
func (c *Client) FindInvoice(ctx context.Context, variant billing.Variant, invoiceNo int64) (*models.Invoice, error) {
	var out models.Invoice
	err := c.getJSON(ctx, fmt.Sprintf("/%s/find-invoice/%d", variant, invoiceNo), &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: decodeErrorMessage(resp)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeErrorMessage digs the human-readable message out of an error reply.
// The backend uses an "error" key; older deployments used "message".
func decodeErrorMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
