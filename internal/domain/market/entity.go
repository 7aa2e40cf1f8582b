// internal/domain/market/entity.go
package market

import (
	"time"

	"gorm.io/gorm"
)

// Market represents a seller market on the platform
type Market struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"size:500" json:"description"`
	Phone       string         `gorm:"size:20" json:"phone"`
	Address     string         `gorm:"size:255" json:"address"`
	City        string         `gorm:"size:100" json:"city"`
	State       string         `gorm:"size:100" json:"state"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Market) TableName() string {
	return "markets"
}
