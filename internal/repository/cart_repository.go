package repository

import (
	"context"
	"fmt"

	"shopfront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetByUser retrieves all cart lines for a user, joined with product details.
// LineTotal is left zero here; the service layer computes it alongside the
// cart total so both come from the same arithmetic.
func (r *cartRepository) GetByUser(ctx context.Context, userID string) ([]model.LineItem, error) {
	query := `
		SELECT p.id, p.name, p.price, p.category, p.description, p.image_url, sc.quantity
		FROM shopping_cart sc
		JOIN products p ON sc.product_id = p.id
		WHERE sc.user_id = $1
		ORDER BY sc.added_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var items []model.LineItem
	for rows.Next() {
		var item model.LineItem
		err := rows.Scan(
			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Price,
			&item.Product.Category,
			&item.Product.Description,
			&item.Product.ImageURL,
			&item.Quantity,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart row")
			return nil, fmt.Errorf("failed to scan cart row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart rows")
		return nil, fmt.Errorf("error iterating cart rows: %w", err)
	}

	return items, nil
}

// AddProduct inserts a cart row or bumps the quantity of an existing one.
func (r *cartRepository) AddProduct(ctx context.Context, userID, productID string, quantity int) error {
	query := `
		INSERT INTO shopping_cart (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = shopping_cart.quantity + $3
	`

	_, err := r.pool.Exec(ctx, query, userID, productID, quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to add product to cart")
		return fmt.Errorf("failed to add product to cart: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID).
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("product added to cart")

	return nil
}

// UpdateQuantity sets the quantity of an existing cart row.
func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	query := `
		UPDATE shopping_cart
		SET quantity = $3
		WHERE user_id = $1 AND product_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, userID, productID, quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to update cart quantity")
		return fmt.Errorf("failed to update cart quantity: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("cart row not found for quantity update")
		return model.ErrProductNotFound
	}

	return nil
}

// RemoveItem deletes a single cart row within the provided transaction.
func (r *cartRepository) RemoveItem(ctx context.Context, tx pgx.Tx, userID, productID string) error {
	query := `
		DELETE FROM shopping_cart
		WHERE user_id = $1 AND product_id = $2
	`

	_, err := tx.Exec(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// Clear deletes all cart rows for a user.
func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	query := `
		DELETE FROM shopping_cart
		WHERE user_id = $1
	`

	_, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().Str("user_id", userID).Msg("cart cleared")

	return nil
}
