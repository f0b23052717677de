package service

import (
	"context"
	"fmt"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Checkout converts the selected cart lines into an order and removes them
// from the cart. Prices and quantities come from the server-side cart, never
// from the request, so a tampered client cannot alter them. An empty
// selection means the whole cart.
func (s *orderService) Checkout(ctx context.Context, userID string, selectedProductIDs []string) (*model.OrderReceipt, error) {
	lines, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart for checkout")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if len(lines) == 0 {
		s.logger.Warn().Str("user_id", userID).Msg("checkout attempted with empty cart")
		return nil, model.ErrCartEmpty
	}

	selected := filterSelected(lines, selectedProductIDs)
	if len(selected) == 0 {
		s.logger.Warn().
			Str("user_id", userID).
			Int("selection_size", len(selectedProductIDs)).
			Msg("no selected products present in cart")
		return nil, model.ErrProductNotFound
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order := &model.Order{
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create order")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	lineItems := make([]model.OrderLineItem, len(selected))
	for i, line := range selected {
		lineItems[i] = model.OrderLineItem{
			OrderID:    order.ID,
			ProductID:  line.Product.ID,
			SalesPrice: line.Product.Price,
			Quantity:   line.Quantity,
		}
	}

	if err = s.orderRepo.CreateLineItems(ctx, tx, lineItems); err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to create order line items")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	// Ordered lines leave the cart; unselected ones stay.
	for _, line := range selected {
		if err = s.cartRepo.RemoveItem(ctx, tx, userID, line.Product.ID); err != nil {
			s.logger.Error().Err(err).
				Int64("order_id", order.ID).
				Str("product_id", line.Product.ID).
				Msg("failed to remove ordered item from cart")
			return nil, fmt.Errorf("failed to checkout: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("user_id", userID).
		Int("item_count", len(lineItems)).
		Msg("order placed")

	return &model.OrderReceipt{OrderID: order.ID}, nil
}

// GetByID retrieves an order by its ID with its line items.
func (s *orderService) GetByID(ctx context.Context, id int64) (*model.Order, []model.OrderLineItem, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, items, nil
}

// filterSelected returns the cart lines whose product IDs appear in the
// selection, in cart order. A nil or empty selection selects everything.
func filterSelected(lines []model.LineItem, selectedProductIDs []string) []model.LineItem {
	if len(selectedProductIDs) == 0 {
		return lines
	}

	wanted := make(map[string]struct{}, len(selectedProductIDs))
	for _, id := range selectedProductIDs {
		wanted[id] = struct{}{}
	}

	var selected []model.LineItem
	for _, line := range lines {
		if _, ok := wanted[line.Product.ID]; ok {
			selected = append(selected, line)
		}
	}
	return selected
}
