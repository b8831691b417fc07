package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderTracking is one append-only timeline entry for an order. The label
// and occurred_at columns are optional; older deployments run without them
// and the repository falls back to a reduced insert.
type OrderTracking struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	Status     string     `gorm:"column:status;not null"`
	Message    *string    `gorm:"column:message"`
	Label      *string    `gorm:"column:label"`
	OccurredAt *time.Time `gorm:"column:occurred_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the legacy table name.
func (OrderTracking) TableName() string {
	return "order_tracking"
}
