package service

import (
	"context"
	"fmt"
	"strings"

	"gadget-rental/internal/models"
	"gadget-rental/internal/store"
	"gadget-rental/internal/util"

	"go.uber.org/zap"
)

// CatalogService serves the storefront and the admin gadget screens
type CatalogService struct {
	store    Store
	settings Settings
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store Store, settings Settings) *CatalogService {
	return &CatalogService{store: store, settings: settings, logger: util.GetLogger()}
}

// HomePage is the landing page content
type HomePage struct {
	Featured   []models.Gadget `json:"featured"`
	Categories []string        `json:"categories"`
}

// GadgetDetail is a gadget with its reviews
type GadgetDetail struct {
	Gadget  *models.Gadget  `json:"gadget"`
	Reviews []models.Review `json:"reviews"`
}

// GadgetInput is the admin form for adding or editing a gadget
type GadgetInput struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	PricePerDay int64  `json:"price_per_day" binding:"required"`
	Stock       *int   `json:"stock" binding:"required"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"is_active"`
}

func (in *GadgetInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
		return invalid("name and category are required")
	}
	if in.PricePerDay <= 0 {
		return invalid("price per day must be positive")
	}
	if in.Stock == nil || *in.Stock < 0 {
		return invalid("stock cannot be negative")
	}
	return nil
}

func (in *GadgetInput) apply(g *models.Gadget) {
	g.Name = strings.TrimSpace(in.Name)
	g.Category = strings.TrimSpace(in.Category)
	g.Description = in.Description
	g.PricePerDay = in.PricePerDay
	g.Stock = *in.Stock
	if in.Image != "" {
		g.Image = in.Image
	}
	if g.Image == "" {
		g.Image = models.DefaultGadgetImage
	}
	if in.IsActive != nil {
		g.IsActive = *in.IsActive
	}
}

// Home returns featured gadgets, falling back to the most rented ones
func (s *CatalogService) Home(ctx context.Context) (*HomePage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Home")
	defer span.End()

	featured, err := s.store.ListFeaturedGadgets(ctx, s.settings.FeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured gadgets: %w", err)
	}
	if len(featured) == 0 {
		if featured, err = s.store.ListPopularGadgets(ctx, s.settings.FeaturedLimit); err != nil {
			return nil, fmt.Errorf("failed to list popular gadgets: %w", err)
		}
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return &HomePage{Featured: featured, Categories: categories}, nil
}

// Browse lists active gadgets matching the filter
func (s *CatalogService) Browse(ctx context.Context, f store.GadgetFilter) ([]models.Gadget, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Browse")
	defer span.End()

	if f.MinPrice < 0 || f.MaxPrice < 0 || (f.MaxPrice > 0 && f.MinPrice > f.MaxPrice) {
		return nil, invalid("bad price range")
	}
	f.Search = strings.TrimSpace(f.Search)
	return s.store.SearchGadgets(ctx, f)
}

// Detail returns an active gadget with its reviews and counts the view
func (s *CatalogService) Detail(ctx context.Context, id int64) (*GadgetDetail, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Detail")
	defer span.End()

	gadget, err := s.store.GetGadget(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	if !gadget.IsActive {
		return nil, fmt.Errorf("%w: gadget %d", ErrNotFound, id)
	}

	if err := s.store.IncrementGadgetViews(ctx, id); err != nil {
		s.logger.Warn("Failed to count gadget view", zap.Int64("gadget_id", id), zap.Error(err))
	} else {
		gadget.ViewCount++
	}

	reviews, err := s.store.ListReviewsByGadget(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return &GadgetDetail{Gadget: gadget, Reviews: reviews}, nil
}

// ListAll returns the whole catalog for administrators
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Gadget, error) {
	return s.store.ListAllGadgets(ctx)
}

// Create adds a gadget and tells every user about it
func (s *CatalogService) Create(ctx context.Context, in *GadgetInput) (*models.Gadget, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Create")
	defer span.End()

	if err := in.validate(); err != nil {
		return nil, err
	}

	gadget := &models.Gadget{IsActive: true}
	in.apply(gadget)
	if err := s.store.CreateGadget(ctx, gadget); err != nil {
		return nil, fmt.Errorf("failed to create gadget: %w", classify(err))
	}

	s.logger.Info("Gadget added", zap.Int64("gadget_id", gadget.ID), zap.String("name", gadget.Name))

	msg := fmt.Sprintf("New gadget alert! Check out the %s!", gadget.Name)
	if err := broadcast(ctx, s.store, msg); err != nil {
		s.logger.Error("Failed to broadcast new gadget", zap.Error(err))
	}
	return gadget, nil
}

// Update edits a gadget
func (s *CatalogService) Update(ctx context.Context, id int64, in *GadgetInput) (*models.Gadget, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	gadget, err := s.store.GetGadget(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	in.apply(gadget)
	if err := s.store.UpdateGadget(ctx, gadget); err != nil {
		return nil, classify(err)
	}
	return gadget, nil
}

// ToggleFeatured flips whether a gadget is featured on the home page
func (s *CatalogService) ToggleFeatured(ctx context.Context, id int64) (bool, error) {
	featured, err := s.store.ToggleGadgetFeatured(ctx, id)
	return featured, classify(err)
}

// Delete removes a gadget. Gadgets with rental history cannot be deleted;
// deactivate them instead.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteGadget(ctx, id); err != nil {
		return classify(err)
	}
	s.logger.Info("Gadget deleted", zap.Int64("gadget_id", id))
	return nil
}
