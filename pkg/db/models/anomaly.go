package models

import (
	"time"

	"github.com/google/uuid"
)

// Anomaly flags an operational irregularity raised for a seller.
type Anomaly struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SellerID    uuid.UUID `gorm:"column:seller_id;type:uuid;index;not null"`
	Type        string    `gorm:"column:type;not null"`
	Description string    `gorm:"column:description;not null"`
	Severity    string    `gorm:"column:severity;not null"`
	IsResolved  bool      `gorm:"column:is_resolved;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName fixes the table name used by GORM.
func (Anomaly) TableName() string {
	return "anomalies"
}
