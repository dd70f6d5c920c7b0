package services

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-pos/cart"
	"github.com/yeremiapane/restaurant-pos/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartStore keeps serialized carts in the cart_records table.
type GormCartStore struct {
	db *gorm.DB
}

func NewGormCartStore(db *gorm.DB) *GormCartStore {
	return &GormCartStore{db: db}
}

func (s *GormCartStore) Load(ctx context.Context, key string) ([]byte, error) {
	var rec models.CartRecord
	res := s.db.WithContext(ctx).Where("session_key = ?", key).Limit(1).Find(&rec)
	if res.Error != nil {
		return nil, res.Error
	}
	// new sessions are routine, so no First and no not-found log line
	if res.RowsAffected == 0 {
		return nil, cart.ErrNotFound
	}
	return []byte(rec.Payload), nil
}

func (s *GormCartStore) Save(ctx context.Context, key string, data []byte) error {
	rec := models.CartRecord{SessionKey: key, Payload: string(data), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

func (s *GormCartStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("session_key = ?", key).Delete(&models.CartRecord{}).Error
}
