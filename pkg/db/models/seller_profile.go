package models

import (
	"time"

	"github.com/google/uuid"
)

// SellerProfile is the operator-facing record for a marketplace merchant.
type SellerProfile struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MerchantID    string    `gorm:"column:merchant_id;uniqueIndex;not null"`
	ShopName      string    `gorm:"column:shop_name;not null"`
	ShopRating    float64   `gorm:"column:shop_rating;not null;default:0"`
	TotalSales    int       `gorm:"column:total_sales;not null;default:0"`
	TotalProducts int       `gorm:"column:total_products;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName fixes the table name used by GORM.
func (SellerProfile) TableName() string {
	return "seller_profiles"
}
