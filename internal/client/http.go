package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTP implements CartStore and OrderPlacer over the storefront JSON API.
// It performs no retries and no sequencing of in-flight requests; timeouts
// and cancellation belong to the injected http.Client and the caller's
// context.
type HTTP struct {
	baseURL     string
	client      *http.Client
	credentials Credentials
	logger      zerolog.Logger
}

// NewHTTP creates a client for the storefront API at baseURL. A nil
// httpClient falls back to http.DefaultClient; nil credentials send requests
// unauthenticated.
func NewHTTP(baseURL string, httpClient *http.Client, credentials Credentials, logger zerolog.Logger) *HTTP {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTP{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      httpClient,
		credentials: credentials,
		logger:      logger.With().Str("component", "cart-client").Logger(),
	}
}

// Add puts one unit of a product into the cart.
func (h *HTTP) Add(ctx context.Context, productID string) (*model.CartSnapshot, error) {
	return h.snapshotRequest(ctx, http.MethodPost, "/api/cart/products/"+productID, nil)
}

// UpdateQuantity sets the unit count of a cart line.
func (h *HTTP) UpdateQuantity(ctx context.Context, productID string, quantity int) (*model.CartSnapshot, error) {
	return h.snapshotRequest(ctx, http.MethodPut, "/api/cart/products/"+productID,
		model.QuantityUpdate{Quantity: quantity})
}

// Get fetches the current cart snapshot.
func (h *HTTP) Get(ctx context.Context) (*model.CartSnapshot, error) {
	return h.snapshotRequest(ctx, http.MethodGet, "/api/cart", nil)
}

// Clear empties the cart.
func (h *HTTP) Clear(ctx context.Context) (*model.CartSnapshot, error) {
	return h.snapshotRequest(ctx, http.MethodDelete, "/api/cart", nil)
}

// Submit places an order for the selected product IDs.
func (h *HTTP) Submit(ctx context.Context, productIDs []string) (*model.OrderReceipt, error) {
	body, err := h.do(ctx, http.MethodPost, "/api/orders", model.CheckoutRequest{SelectedProductIDs: productIDs})
	if err != nil {
		return nil, err
	}

	var receipt model.OrderReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		h.logger.Error().Err(err).Msg("failed to decode order receipt")
		return nil, fmt.Errorf("failed to decode order receipt: %w", err)
	}

	return &receipt, nil
}

// snapshotPayload mirrors model.CartSnapshot with pointer fields so that a
// success response missing either half of the snapshot is detectable.
type snapshotPayload struct {
	Total *float64                  `json:"total"`
	Items map[string]model.LineItem `json:"items"`
}

// snapshotRequest performs a request whose success body must be a complete
// cart snapshot. A 2xx body missing total or items is rejected as malformed
// so the caller's prior state survives intact.
func (h *HTTP) snapshotRequest(ctx context.Context, method, path string, payload interface{}) (*model.CartSnapshot, error) {
	body, err := h.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	var decoded snapshotPayload
	if err := json.Unmarshal(body, &decoded); err != nil {
		h.logger.Error().Err(err).Str("path", path).Msg("failed to decode cart snapshot")
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedSnapshot, err)
	}

	if decoded.Total == nil || decoded.Items == nil {
		h.logger.Error().Str("path", path).Msg("cart snapshot missing total or items")
		return nil, model.ErrMalformedSnapshot
	}

	return &model.CartSnapshot{
		Total: *decoded.Total,
		Items: decoded.Items,
	}, nil
}

// do performs a request and returns the raw success body. Non-2xx responses
// become an *APIError carrying the server's message field when present.
func (h *HTTP) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Correlation-ID", uuid.NewString())

	if h.credentials != nil {
		for key, value := range h.credentials.Headers() {
			req.Header.Set(key, value)
		}
	}

	h.logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("sending request")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: serverMessage(body)}
		h.logger.Warn().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("path", path).
			Str("message", apiErr.Message).
			Msg("server rejected request")
		return nil, apiErr
	}

	return body, nil
}

// serverMessage extracts the human-readable text from an error body. The API
// reports errors as {"error": ...}; {"message": ...} is accepted for
// compatibility with older deployments.
func serverMessage(body []byte) string {
	var payload model.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
