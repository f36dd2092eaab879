package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gadget-rental/internal/models"
)

// Catalog sort orders
const (
	SortPopularity   = "popularity"
	SortPriceLowHigh = "price_low_high"
	SortNewest       = "newest"
)

// GadgetFilter narrows the public catalog listing
type GadgetFilter struct {
	Category string
	Search   string
	MinPrice int64
	MaxPrice int64
	SortBy   string
}

// GetGadget retrieves a gadget by ID
func (s *Store) GetGadget(ctx context.Context, id int64) (*models.Gadget, error) {
	var gadget models.Gadget
	err := s.db.GetContext(ctx, &gadget, "SELECT * FROM gadgets WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("gadget %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &gadget, nil
}

// ListFeaturedGadgets returns active featured gadgets, newest first
func (s *Store) ListFeaturedGadgets(ctx context.Context, limit int) ([]models.Gadget, error) {
	var gadgets []models.Gadget
	err := s.db.SelectContext(ctx, &gadgets,
		"SELECT * FROM gadgets WHERE is_active AND is_featured ORDER BY created_at DESC LIMIT $1", limit)
	return gadgets, err
}

// ListPopularGadgets returns active gadgets by rental count
func (s *Store) ListPopularGadgets(ctx context.Context, limit int) ([]models.Gadget, error) {
	var gadgets []models.Gadget
	err := s.db.SelectContext(ctx, &gadgets,
		"SELECT * FROM gadgets WHERE is_active ORDER BY rental_count DESC, id LIMIT $1", limit)
	return gadgets, err
}

// ListCategories returns every distinct category
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.SelectContext(ctx, &categories,
		"SELECT DISTINCT category FROM gadgets ORDER BY category")
	return categories, err
}

// SearchGadgets lists active gadgets matching the filter
func (s *Store) SearchGadgets(ctx context.Context, f GadgetFilter) ([]models.Gadget, error) {
	where := []string{"is_active"}
	args := []interface{}{}

	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.MinPrice > 0 {
		args = append(args, f.MinPrice)
		where = append(where, fmt.Sprintf("price_per_day >= $%d", len(args)))
	}
	if f.MaxPrice > 0 {
		args = append(args, f.MaxPrice)
		where = append(where, fmt.Sprintf("price_per_day <= $%d", len(args)))
	}

	query := "SELECT * FROM gadgets WHERE " + strings.Join(where, " AND ") + " ORDER BY " + gadgetOrder(f.SortBy)

	var gadgets []models.Gadget
	err := s.db.SelectContext(ctx, &gadgets, query, args...)
	return gadgets, err
}

func gadgetOrder(sortBy string) string {
	switch sortBy {
	case SortPriceLowHigh:
		return "price_per_day ASC, id"
	case SortNewest:
		return "created_at DESC, id DESC"
	default:
		return "rental_count DESC, id"
	}
}

// ListAllGadgets returns the whole catalog including inactive items, newest first
func (s *Store) ListAllGadgets(ctx context.Context) ([]models.Gadget, error) {
	var gadgets []models.Gadget
	err := s.db.SelectContext(ctx, &gadgets, "SELECT * FROM gadgets ORDER BY created_at DESC")
	return gadgets, err
}

// ListLowStockGadgets returns gadgets whose stock is below threshold
func (s *Store) ListLowStockGadgets(ctx context.Context, threshold int) ([]models.Gadget, error) {
	var gadgets []models.Gadget
	err := s.db.SelectContext(ctx, &gadgets,
		"SELECT * FROM gadgets WHERE stock < $1 ORDER BY stock, id", threshold)
	return gadgets, err
}

// IncrementGadgetViews bumps the view counter of a gadget
func (s *Store) IncrementGadgetViews(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE gadgets SET view_count = view_count + 1 WHERE id = $1", id)
	return err
}

// CreateGadget adds a gadget to the catalog
func (s *Store) CreateGadget(ctx context.Context, g *models.Gadget) error {
	query := `
		INSERT INTO gadgets (name, category, description, price_per_day, stock, image, is_active, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		g.Name, g.Category, g.Description, g.PricePerDay, g.Stock, g.Image, g.IsActive, g.IsFeatured,
	).Scan(&g.ID, &g.CreatedAt)
}

// UpdateGadget saves the admin-editable fields of a gadget
func (s *Store) UpdateGadget(ctx context.Context, g *models.Gadget) error {
	n, err := affected(s.db.ExecContext(ctx, `
		UPDATE gadgets
		SET name = $1, category = $2, description = $3, price_per_day = $4,
		    stock = $5, image = $6, is_active = $7
		WHERE id = $8`,
		g.Name, g.Category, g.Description, g.PricePerDay, g.Stock, g.Image, g.IsActive, g.ID))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("gadget %d: %w", g.ID, ErrNotFound)
	}
	return nil
}

// ToggleGadgetFeatured flips the featured flag and returns the new value
func (s *Store) ToggleGadgetFeatured(ctx context.Context, id int64) (bool, error) {
	var featured bool
	err := s.db.GetContext(ctx, &featured,
		"UPDATE gadgets SET is_featured = NOT is_featured WHERE id = $1 RETURNING is_featured", id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("gadget %d: %w", id, ErrNotFound)
	}
	return featured, err
}

// DeleteGadget removes a gadget that has never been rented
func (s *Store) DeleteGadget(ctx context.Context, id int64) error {
	n, err := affected(s.db.ExecContext(ctx, "DELETE FROM gadgets WHERE id = $1", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("gadget %d: %w", id, ErrNotFound)
	}
	return nil
}
