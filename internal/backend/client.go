// Package backend is the HTTP client for the cotiza backend API. It is the
// only component that speaks the backend's wire format; everything it returns
// is mapped onto domain types with totals normalized to two decimals.
//
// The client carries no retry logic and no idempotency keys: transport
// reliability is the backend's concern, and duplicate-submit protection is
// entirely the editor's submitting guard.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cotiza-app/quote-gateway/internal/config"
	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned for backend 404 responses.
	ErrNotFound = errors.New("resource not found in backend")

	// ErrBackendStatus is returned for any other non-2xx backend response.
	ErrBackendStatus = errors.New("backend returned error status")
)

// Client provides access to the cotiza backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pdfClient  *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client from configuration.
func NewClient(cfg *config.BackendConfig, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}

	logger.Info("initializing backend client",
		zap.String("base_url", cfg.BaseURL),
		zap.Int("request_timeout_seconds", cfg.RequestTimeout),
	)

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.RequestTimeoutDuration()},
		pdfClient:  &http.Client{Timeout: cfg.PDFTimeoutDuration()},
		logger:     logger,
	}, nil
}

// wireID tolerates backends that serialize identifiers as numbers or strings.
type wireID string

func (w *wireID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*w = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", data)
	}
	*w = wireID(n.String())
	return nil
}

type wireClient struct {
	ID       wireID `json:"id"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
}

type wireItem struct {
	ID     wireID          `json:"id"`
	Name   string          `json:"name"`
	TypeID wireID          `json:"type_id"`
	Price  decimal.Decimal `json:"price"`
}

type wireItemType struct {
	ID     wireID `json:"id"`
	Nombre string `json:"nombre"`
}

type wireSummary struct {
	ID            wireID          `json:"id"`
	ClienteNombre string          `json:"cliente_nombre"`
	Fecha         string          `json:"fecha"`
	Total         decimal.Decimal `json:"total"`
}

type wireDetailItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type wireDetail struct {
	ID            wireID           `json:"id"`
	ClienteNombre string           `json:"cliente_nombre"`
	Fecha         string           `json:"fecha"`
	Items         []wireDetailItem `json:"items"`
	Total         decimal.Decimal  `json:"total"`
}

// wireSubmission matches the POST /cotizaciones request body.
type wireSubmission struct {
	ClienteID string               `json:"clienteId"`
	Items     []wireSubmissionItem `json:"items"`
}

type wireSubmissionItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// FetchReferenceData loads clients, items and item types in one pass. Any
// failure returns an error and the caller keeps its stale cache; a missing
// item-types endpoint is tolerated as an empty list since older backend
// deployments do not expose it.
func (c *Client) FetchReferenceData(ctx context.Context) (*domain.ReferenceData, error) {
	var clients []wireClient
	if err := c.getJSON(ctx, "/clientes", &clients); err != nil {
		return nil, fmt.Errorf("fetch clients: %w", err)
	}

	var items []wireItem
	if err := c.getJSON(ctx, "/items", &items); err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	var types []wireItemType
	if err := c.getJSON(ctx, "/item-types", &types); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("fetch item types: %w", err)
		}
		types = nil
	}

	data := &domain.ReferenceData{}
	for _, cl := range clients {
		data.Clients = append(data.Clients, domain.Client{
			ID:    string(cl.ID),
			Name:  cl.Nombre,
			Email: cl.Email,
			Phone: cl.Telefono,
		})
	}
	for _, it := range items {
		data.Items = append(data.Items, domain.Item{
			ID:        string(it.ID),
			Name:      it.Name,
			TypeID:    string(it.TypeID),
			UnitPrice: it.Price,
		})
	}
	for _, t := range types {
		data.ItemTypes = append(data.ItemTypes, domain.ItemType{
			ID:   string(t.ID),
			Name: t.Nombre,
		})
	}
	return data, nil
}

// SubmitQuotation posts a serialized draft and returns the server-assigned
// quotation id.
func (c *Client) SubmitQuotation(ctx context.Context, sub domain.Submission) (domain.CreatedQuotation, error) {
	body := wireSubmission{ClienteID: sub.ClientID}
	for _, item := range sub.Items {
		body.Items = append(body.Items, wireSubmissionItem{
			ID:       item.ItemID,
			Quantity: item.Quantity,
		})
	}

	var created struct {
		ID wireID `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/cotizaciones", body, &created); err != nil {
		return domain.CreatedQuotation{}, fmt.Errorf("submit quotation: %w", err)
	}
	return domain.CreatedQuotation{ID: string(created.ID)}, nil
}

// ListQuotations fetches the quotation history, unwrapping the backend's
// pagination envelope.
func (c *Client) ListQuotations(ctx context.Context) ([]domain.QuotationSummary, error) {
	var envelope struct {
		Cotizaciones []wireSummary `json:"cotizaciones"`
	}
	if err := c.getJSON(ctx, "/cotizaciones", &envelope); err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}

	summaries := make([]domain.QuotationSummary, 0, len(envelope.Cotizaciones))
	for _, s := range envelope.Cotizaciones {
		summaries = append(summaries, domain.QuotationSummary{
			ID:         string(s.ID),
			ClientName: s.ClienteNombre,
			Date:       s.Fecha,
			Total:      s.Total.StringFixed(2),
		})
	}
	return summaries, nil
}

// FetchQuotationDetail loads one stored quotation. Line totals are computed
// here so every rendering path shows consistent two-decimal values.
func (c *Client) FetchQuotationDetail(ctx context.Context, id string) (*domain.QuotationDetail, error) {
	var d wireDetail
	if err := c.getJSON(ctx, "/cotizaciones/"+id, &d); err != nil {
		return nil, fmt.Errorf("fetch quotation %s: %w", id, err)
	}

	detail := &domain.QuotationDetail{
		ID:         string(d.ID),
		ClientName: d.ClienteNombre,
		Date:       d.Fecha,
		Total:      d.Total.StringFixed(2),
	}
	for _, item := range d.Items {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		detail.Items = append(detail.Items, domain.QuotationDetailItem{
			Name:      item.Name,
			UnitPrice: item.Price.StringFixed(2),
			Quantity:  item.Quantity,
			LineTotal: line.StringFixed(2),
		})
	}
	return detail, nil
}

// DownloadPDF streams the rendered PDF for a stored quotation. The caller
// owns the returned body. Rendering happens on the backend; the gateway only
// relays the bytes.
func (c *Client) DownloadPDF(ctx context.Context, id string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cotizaciones/"+id+"/pdf", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.pdfClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download pdf for %s: %w", id, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("quotation %s: %w", id, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d on pdf download", ErrBackendStatus, resp.StatusCode)
	}
	return resp.Body, nil
}

// CreateClient creates a customer in the backend master data.
func (c *Client) CreateClient(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	body := map[string]string{
		"nombre":   req.Name,
		"email":    req.Email,
		"telefono": req.Phone,
	}
	var created wireClient
	if err := c.doJSON(ctx, http.MethodPost, "/clientes", body, &created); err != nil {
		return domain.Client{}, fmt.Errorf("create client: %w", err)
	}
	return domain.Client{
		ID:    string(created.ID),
		Name:  created.Nombre,
		Email: created.Email,
		Phone: created.Telefono,
	}, nil
}

// CreateItem creates a catalog item in the backend master data.
func (c *Client) CreateItem(ctx context.Context, req domain.CreateItemRequest) (domain.Item, error) {
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return domain.Item{}, fmt.Errorf("invalid unit price %q: %w", req.UnitPrice, err)
	}

	body := map[string]any{
		"name":  req.Name,
		"price": price,
	}
	if req.TypeID != "" {
		body["type_id"] = req.TypeID
	}

	var created wireItem
	if err := c.doJSON(ctx, http.MethodPost, "/items", body, &created); err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}
	return domain.Item{
		ID:        string(created.ID),
		Name:      created.Name,
		TypeID:    string(created.TypeID),
		UnitPrice: created.Price,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a little of the body for diagnostics, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d on %s %s: %s", ErrBackendStatus, resp.StatusCode, method, path, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
