package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	path   string
	header http.Header
	body   []byte
}

// newTestServer records every request and serves canned status/body pairs in
// order.
func newTestServer(t *testing.T, responses ...func(w http.ResponseWriter)) (*httptest.Server, *[]capturedRequest) {
	t.Helper()

	var captured []capturedRequest
	i := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			header: r.Header.Clone(),
			body:   body,
		})

		require.Less(t, i, len(responses), "unexpected extra request")
		responses[i](w)
		i++
	}))
	t.Cleanup(srv.Close)

	return srv, &captured
}

func respondJSON(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

const validSnapshot = `{
	"total": 25.00,
	"items": {
		"P1": {"product": {"productId": "P1", "name": "Product 1", "price": 10.00}, "quantity": 1, "lineTotal": 10.00},
		"P2": {"product": {"productId": "P2", "name": "Product 2", "price": 7.50}, "quantity": 2, "lineTotal": 15.00}
	}
}`

func newTestClient(srv *httptest.Server) *HTTP {
	creds := &StaticCredentials{APIKey: "test-key", UserID: "user-1"}
	return NewHTTP(srv.URL, srv.Client(), creds, zerolog.Nop())
}

func TestHTTP_Get(t *testing.T) {
	srv, captured := newTestServer(t, respondJSON(http.StatusOK, validSnapshot))

	snap, err := newTestClient(srv).Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 25.00, snap.Total)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 2, snap.Items["P2"].Quantity)

	req := (*captured)[0]
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/api/cart", req.path)
}

func TestHTTP_AttachesAuthAndCorrelationHeaders(t *testing.T) {
	srv, captured := newTestServer(t, respondJSON(http.StatusOK, validSnapshot))

	_, err := newTestClient(srv).Get(context.Background())
	require.NoError(t, err)

	req := (*captured)[0]
	assert.Equal(t, "test-key", req.header.Get("X-API-Key"))
	assert.Equal(t, "user-1", req.header.Get("X-User-ID"))

	correlationID := req.header.Get("X-Correlation-ID")
	_, parseErr := uuid.Parse(correlationID)
	assert.NoError(t, parseErr, "correlation id should be a uuid, got %q", correlationID)
}

func TestHTTP_NilCredentialsSendsNoAuthHeaders(t *testing.T) {
	srv, captured := newTestServer(t, respondJSON(http.StatusOK, validSnapshot))

	c := NewHTTP(srv.URL, srv.Client(), nil, zerolog.Nop())
	_, err := c.Get(context.Background())
	require.NoError(t, err)

	req := (*captured)[0]
	assert.Empty(t, req.header.Get("X-API-Key"))
	assert.Empty(t, req.header.Get("X-User-ID"))
}

func TestHTTP_Add(t *testing.T) {
	srv, captured := newTestServer(t, respondJSON(http.StatusOK, validSnapshot))

	snap, err := newTestClient(srv).Add(context.Background(), "P1")

	require.NoError(t, err)
	assert.Equal(t, 25.00, snap.Total)

	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/cart/products/P1", req.path)
}

func TestHTTP_UpdateQuantity(t *testing.T) {
	srv, captured := newTestServer(t, respondJSON(http.StatusOK, validSnapshot))

	_, err := newTestClient(srv).UpdateQuantity(context.Background(), "P2", 5)
	require.NoError(t, err)

	req := (*captured)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/api/cart/products/P2", req.path)
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))
	assert.JSONEq(t, `{"quantity": 5}`, string(req.body))
}

func TestHTTP_Clear(t *testing.T) {
	srv, captured := newTestServer(t, respondJSON(http.StatusOK, `{"total": 0, "items": {}}`))

	snap, err := newTestClient(srv).Clear(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0.00, snap.Total)
	assert.Empty(t, snap.Items)

	req := (*captured)[0]
	assert.Equal(t, http.MethodDelete, req.method)
	assert.Equal(t, "/api/cart", req.path)
}

func TestHTTP_RejectsMalformedSnapshot(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing total", body: `{"items": {}}`},
		{name: "missing items", body: `{"total": 5.00}`},
		{name: "empty object", body: `{}`},
		{name: "wrong shape", body: `{"total": "lots", "items": {}}`},
		{name: "not json", body: `<html>502 Bad Gateway</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, respondJSON(http.StatusOK, tt.body))

			snap, err := newTestClient(srv).Get(context.Background())

			assert.ErrorIs(t, err, model.ErrMalformedSnapshot)
			assert.Nil(t, snap)
		})
	}
}

func TestHTTP_ZeroTotalIsNotMalformed(t *testing.T) {
	srv, _ := newTestServer(t, respondJSON(http.StatusOK, `{"total": 0, "items": {}}`))

	snap, err := newTestClient(srv).Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0.00, snap.Total)
	assert.NotNil(t, snap.Items)
}

func TestHTTP_Submit(t *testing.T) {
	srv, captured := newTestServer(t, respondJSON(http.StatusCreated, `{"orderId": 42}`))

	receipt, err := newTestClient(srv).Submit(context.Background(), []string{"P1", "P2"})

	require.NoError(t, err)
	assert.Equal(t, int64(42), receipt.OrderID)

	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/orders", req.path)

	var payload model.CheckoutRequest
	require.NoError(t, json.Unmarshal(req.body, &payload))
	assert.Equal(t, []string{"P1", "P2"}, payload.SelectedProductIDs)
}

func TestHTTP_SubmitEmptySelectionSendsEmptyList(t *testing.T) {
	srv, captured := newTestServer(t, respondJSON(http.StatusCreated, `{"orderId": 7}`))

	_, err := newTestClient(srv).Submit(context.Background(), nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{"selectedProductIds": null}`, string((*captured)[0].body))
}

func TestHTTP_ServerErrorBecomesAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "error field",
			status:      http.StatusConflict,
			body:        `{"error": "Inventory unavailable"}`,
			wantMessage: "Inventory unavailable",
		},
		{
			name:        "message field fallback",
			status:      http.StatusBadRequest,
			body:        `{"message": "Shopping cart is empty"}`,
			wantMessage: "Shopping cart is empty",
		},
		{
			name:        "unparseable body",
			status:      http.StatusInternalServerError,
			body:        `boom`,
			wantMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, respondJSON(tt.status, tt.body))

			snap, err := newTestClient(srv).Get(context.Background())

			require.Error(t, err)
			assert.Nil(t, snap)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestHTTP_ContextCancellation(t *testing.T) {
	srv, _ := newTestServer(t, respondJSON(http.StatusOK, validSnapshot))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv).Get(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticCredentials_Headers(t *testing.T) {
	creds := &StaticCredentials{APIKey: "k", UserID: "u"}
	assert.Equal(t, map[string]string{"X-API-Key": "k", "X-User-ID": "u"}, creds.Headers())

	partial := &StaticCredentials{UserID: "u"}
	assert.Equal(t, map[string]string{"X-User-ID": "u"}, partial.Headers())
}

func TestAPIError_Error(t *testing.T) {
	withMessage := &APIError{Status: 409, Message: "Inventory unavailable"}
	assert.Equal(t, "server returned 409: Inventory unavailable", withMessage.Error())

	withoutMessage := &APIError{Status: 500}
	assert.Equal(t, "server returned 500", withoutMessage.Error())
}
