package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Billboard is an advertising-space asset. Availability is implicit: a
// billboard is free over a window when no APPROVED document item holds an
// overlapping rental range for it.
type Billboard struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Reference    string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	City         string          `gorm:"type:varchar(100)" json:"city"`
	Location     string          `gorm:"type:text" json:"location"`
	Dimension    string          `gorm:"type:varchar(50)" json:"dimension"` // e.g. 4x3m
	MonthlyPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"monthly_price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}
