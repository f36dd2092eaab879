package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gadget-rental/internal/models"
	"gadget-rental/internal/service"
	"gadget-rental/internal/store"
	"gadget-rental/internal/util"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the demo data loaded by the seed command
type Catalog struct {
	Admin            Account    `yaml:"admin"`
	CustomerPassword string     `yaml:"customer_password"`
	Customers        []string   `yaml:"customers"`
	Coupons          []Coupon   `yaml:"coupons"`
	Categories       []Category `yaml:"categories"`
}

type Account struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Phone    string `yaml:"phone"`
	Address  string `yaml:"address"`
}

type Coupon struct {
	Code            string  `yaml:"code"`
	Description     string  `yaml:"description"`
	DiscountPercent float64 `yaml:"discount_percent"`
	MaxUses         *int    `yaml:"max_uses"`
}

type Category struct {
	Name    string   `yaml:"name"`
	Gadgets []Gadget `yaml:"gadgets"`
}

// Gadget prices are whole rupees per day
type Gadget struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
	Stock       int    `yaml:"stock"`
	Image       string `yaml:"image"`
	Featured    bool   `yaml:"featured"`
}

// Store is the part of the store the seeder writes through
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ListAllGadgets(ctx context.Context) ([]models.Gadget, error)
	CreateGadget(ctx context.Context, g *models.Gadget) error
	UpsertCoupon(ctx context.Context, c *models.Coupon) error
}

// Default returns the embedded demo catalog
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes and checks a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if c.Admin.Email == "" || c.Admin.Password == "" {
		return nil, errors.New("catalog needs an admin email and password")
	}
	for _, cat := range c.Categories {
		for _, g := range cat.Gadgets {
			if g.Price <= 0 || g.Stock < 0 {
				return nil, fmt.Errorf("gadget %q: price must be positive and stock not negative", g.Name)
			}
		}
	}
	return &c, nil
}

// Result counts what Apply created
type Result struct {
	Users   int
	Gadgets int
	Coupons int
}

// Apply writes the catalog. Users and gadgets that already exist are left
// alone, so running it twice is harmless; coupons are upserted.
func Apply(ctx context.Context, st Store, c *Catalog) (*Result, error) {
	logger := util.GetLogger()
	res := &Result{}

	admin := &models.User{
		Name: c.Admin.Name, Email: c.Admin.Email, Phone: c.Admin.Phone, Address: c.Admin.Address,
		IsAdmin: true, IsVerified: true, IsActive: true,
	}
	created, err := ensureUser(ctx, st, admin, c.Admin.Password)
	if err != nil {
		return nil, err
	}
	if created {
		res.Users++
	}

	for i, name := range c.Customers {
		u := &models.User{
			Name:       name,
			Email:      strings.ToLower(name) + "@gmail.com",
			Phone:      fmt.Sprintf("98765432%d1", i),
			Address:    name + " Home Street",
			IsVerified: true,
			IsActive:   true,
		}
		created, err := ensureUser(ctx, st, u, c.CustomerPassword)
		if err != nil {
			return nil, err
		}
		if created {
			res.Users++
		}
	}

	existing, err := st.ListAllGadgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list gadgets: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, g := range existing {
		have[g.Name] = true
	}
	for _, cat := range c.Categories {
		for _, g := range cat.Gadgets {
			if have[g.Name] {
				continue
			}
			gadget := &models.Gadget{
				Name:        g.Name,
				Category:    cat.Name,
				Description: g.Description,
				PricePerDay: g.Price * 100,
				Stock:       g.Stock,
				Image:       "uploads/" + g.Image,
				IsActive:    true,
				IsFeatured:  g.Featured,
			}
			if g.Image == "" {
				gadget.Image = models.DefaultGadgetImage
			}
			if err := st.CreateGadget(ctx, gadget); err != nil {
				return nil, fmt.Errorf("failed to create gadget %q: %w", g.Name, err)
			}
			have[g.Name] = true
			res.Gadgets++
		}
	}

	for _, cp := range c.Coupons {
		coupon := &models.Coupon{
			Code:            strings.ToUpper(cp.Code),
			Description:     cp.Description,
			DiscountPercent: cp.DiscountPercent,
			IsActive:        true,
			MaxUses:         cp.MaxUses,
		}
		if err := st.UpsertCoupon(ctx, coupon); err != nil {
			return nil, fmt.Errorf("failed to upsert coupon %s: %w", coupon.Code, err)
		}
		res.Coupons++
	}

	logger.Info("Seed applied",
		zap.Int("users", res.Users),
		zap.Int("gadgets", res.Gadgets),
		zap.Int("coupons", res.Coupons))
	return res, nil
}

func ensureUser(ctx context.Context, st Store, u *models.User, password string) (bool, error) {
	_, err := st.GetUserByEmail(ctx, u.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("failed to look up %s: %w", u.Email, err)
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return false, err
	}
	u.PasswordHash = hash
	if err := st.CreateUser(ctx, u); err != nil {
		return false, fmt.Errorf("failed to create user %s: %w", u.Email, err)
	}
	return true, nil
}
