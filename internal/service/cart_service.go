package service

import (
	"context"
	"fmt"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Get assembles the current cart snapshot for a user. Line totals and the
// cart total are computed here, in one place, so the snapshot is internally
// consistent.
func (s *cartService) Get(ctx context.Context, userID string) (*model.CartSnapshot, error) {
	lines, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return buildSnapshot(lines), nil
}

// Add puts one unit of a product into the cart and returns the new snapshot.
func (s *cartService) Add(ctx context.Context, userID, productID string) (*model.CartSnapshot, error) {
	if productID == "" {
		return nil, model.ErrProductNotFound
	}

	if err := s.productRepo.ValidateProductsExist(ctx, []string{productID}); err != nil {
		s.logger.Warn().Str("product_id", productID).Err(err).Msg("product validation failed")
		return nil, err
	}

	if err := s.cartRepo.AddProduct(ctx, userID, productID, 1); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("product_id", productID).
		Msg("product added to cart")

	return s.Get(ctx, userID)
}

// UpdateQuantity sets the unit count of a cart line and returns the new snapshot.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*model.CartSnapshot, error) {
	if quantity <= 0 {
		s.logger.Warn().
			Str("user_id", userID).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}

	if err := s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

// Clear empties the cart and returns the (empty) snapshot.
func (s *cartService) Clear(ctx context.Context, userID string) (*model.CartSnapshot, error) {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("cart cleared")

	return s.Get(ctx, userID)
}

// buildSnapshot computes line totals and the cart total from raw cart lines.
func buildSnapshot(lines []model.LineItem) *model.CartSnapshot {
	snap := &model.CartSnapshot{
		Items: make(map[string]model.LineItem, len(lines)),
	}

	for _, line := range lines {
		line.LineTotal = float64(line.Quantity) * line.Product.Price
		snap.Items[line.Product.ID] = line
		snap.Total += line.LineTotal
	}

	return snap
}
