package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Company owns documents, billboards, catalog entries and counterparties.
type Company struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Currency  string          `gorm:"type:varchar(10);not null;default:'XAF'" json:"currency"`
	VATRate   decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0.1925" json:"vat_rate"` // e.g. 0.1925 = 19.25%
	Address   string          `gorm:"type:text" json:"address"`
	Phone     string          `gorm:"type:varchar(50)" json:"phone"`
	Email     string          `gorm:"type:varchar(255)" json:"email"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
