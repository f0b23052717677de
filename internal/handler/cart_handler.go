package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"shopfront/internal/model"
	"shopfront/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles shopping-cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Cart handles GET and DELETE /api/cart requests.
func (h *CartHandler) Cart(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "user identity is required", h.logger)
		return
	}

	var (
		snap *model.CartSnapshot
		err  error
	)

	switch r.Method {
	case http.MethodGet:
		snap, err = h.service.Get(r.Context(), user)
	case http.MethodDelete:
		snap, err = h.service.Clear(r.Context(), user)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// CartProduct handles POST and PUT /api/cart/products/{productId} requests.
func (h *CartHandler) CartProduct(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "user identity is required", h.logger)
		return
	}

	productID := strings.TrimPrefix(r.URL.Path, "/api/cart/products/")
	if productID == "" || strings.Contains(productID, "/") {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	var (
		snap *model.CartSnapshot
		err  error
	)

	switch r.Method {
	case http.MethodPost:
		snap, err = h.service.Add(r.Context(), user, productID)
	case http.MethodPut:
		var update model.QuantityUpdate
		if decodeErr := json.NewDecoder(r.Body).Decode(&update); decodeErr != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
			return
		}
		snap, err = h.service.UpdateQuantity(r.Context(), user, productID, update.Quantity)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
