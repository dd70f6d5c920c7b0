package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yeremiapane/restaurant-pos/cart"
	"github.com/yeremiapane/restaurant-pos/models"
	"gorm.io/gorm"
)

// CatalogService is the read-only view of products, modifier groups and the
// store switches.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ProductConfig is a product with the modifier groups a customer can pick from.
type ProductConfig struct {
	Product cart.Product         `json:"product"`
	Groups  []cart.ModifierGroup `json:"modifier_groups"`
}

// StoreFlags returns the single settings row. A missing row means the store
// is open for everything.
func (s *CatalogService) StoreFlags(ctx context.Context) (models.StoreSetting, error) {
	var setting models.StoreSetting
	err := s.db.WithContext(ctx).Order("id ASC").First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StoreSetting{OrderEnabled: true, DeliveryEnabled: true}, nil
	}
	if err != nil {
		return models.StoreSetting{}, fmt.Errorf("load store settings: %w", err)
	}
	return setting, nil
}

// UpdateStoreFlags flips the ordering and delivery switches.
func (s *CatalogService) UpdateStoreFlags(ctx context.Context, orderEnabled, deliveryEnabled bool) (models.StoreSetting, error) {
	setting, err := s.StoreFlags(ctx)
	if err != nil {
		return setting, err
	}
	setting.OrderEnabled = orderEnabled
	setting.DeliveryEnabled = deliveryEnabled
	if err := s.db.WithContext(ctx).Save(&setting).Error; err != nil {
		return setting, fmt.Errorf("save store settings: %w", err)
	}
	return setting, nil
}

// ListProducts returns active products, optionally filtered by category.
func (s *CatalogService) ListProducts(ctx context.Context, categoryID *uint) ([]models.Product, error) {
	var products []models.Product
	q := s.db.WithContext(ctx).Preload("Category").Where("is_active = ?", true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ProductConfig loads one product with its groups ordered by the
// product-group position and each group's active modifiers by position.
// Inactive products load too; callers decide what that means.
func (s *CatalogService) ProductConfig(ctx context.Context, productID uint) (ProductConfig, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Preload("ModifierGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("ModifierGroups.Group").
		Preload("ModifierGroups.Group.Modifiers", "is_active = ?", true).
		First(&p, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductConfig{}, fmt.Errorf("%w: %d", ErrProductUnavailable, productID)
	}
	if err != nil {
		return ProductConfig{}, err
	}

	cfg := ProductConfig{Product: toCartProduct(p), Groups: []cart.ModifierGroup{}}
	for _, link := range p.ModifierGroups {
		cfg.Groups = append(cfg.Groups, toCartGroup(link.Group))
	}
	return cfg, nil
}

func toCartProduct(p models.Product) cart.Product {
	return cart.Product{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		HotDeal:       p.IsHotDeal,
		Active:        p.IsActive,
		CategoryID:    p.CategoryID,
	}
}

func toCartGroup(g models.ModifierGroup) cart.ModifierGroup {
	mods := append([]models.Modifier(nil), g.Modifiers...)
	sort.SliceStable(mods, func(i, j int) bool {
		if mods[i].Position != mods[j].Position {
			return mods[i].Position < mods[j].Position
		}
		return mods[i].ID < mods[j].ID
	})

	out := cart.ModifierGroup{
		ID:            g.ID,
		Name:          g.Name,
		SelectionType: g.SelectionType,
		IsRequired:    g.IsRequired,
		MinSelect:     g.MinSelect,
		MaxSelect:     g.MaxSelect,
		Modifiers:     make([]cart.Modifier, 0, len(mods)),
	}
	for _, m := range mods {
		out.Modifiers = append(out.Modifiers, cart.Modifier{
			ID:         m.ID,
			GroupID:    m.GroupID,
			Name:       m.Name,
			PriceDelta: m.PriceDelta,
			Active:     m.IsActive,
			Position:   m.Position,
		})
	}
	return out
}
