package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/models"
	"gorm.io/gorm"
)

// LoyaltyService credits registered customers when their orders complete.
type LoyaltyService struct {
	pointValue decimal.Decimal
}

func NewLoyaltyService(pointValue decimal.Decimal) *LoyaltyService {
	return &LoyaltyService{pointValue: pointValue}
}

// PointsFor is one point per full pointValue of grand total.
func (s *LoyaltyService) PointsFor(total decimal.Decimal) int64 {
	if !s.pointValue.IsPositive() || !total.IsPositive() {
		return 0
	}
	return total.Div(s.pointValue).Floor().IntPart()
}

// Award runs inside the completing transaction. An order earns points at
// most once; guests earn nothing.
func (s *LoyaltyService) Award(tx *gorm.DB, order *models.Order) (int64, error) {
	if order.CustomerID == nil || order.PointsAwarded > 0 {
		return 0, nil
	}
	points := s.PointsFor(order.GrandTotal)
	if points <= 0 {
		return 0, nil
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND points_awarded = 0", order.ID).
		Update("points_awarded", points)
	if res.Error != nil {
		return 0, fmt.Errorf("mark points awarded: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	if err := tx.Model(&models.Customer{}).
		Where("id = ?", *order.CustomerID).
		Update("loyalty_points", gorm.Expr("loyalty_points + ?", points)).Error; err != nil {
		return 0, fmt.Errorf("credit customer %d: %w", *order.CustomerID, err)
	}
	order.PointsAwarded = points
	return points, nil
}
