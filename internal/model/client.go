package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client is a counterparty billed by sales documents. Due and PaidAmount are
// running aggregates maintained by the document and transaction services
// through relative updates; every mutation also writes a LedgerEntry.
type Client struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	CompanyName   string          `gorm:"type:varchar(255)" json:"company_name"`
	TaxCode       string          `gorm:"type:varchar(50)" json:"tax_code"`
	Email         string          `gorm:"type:varchar(255)" json:"email"`
	Phone         string          `gorm:"type:varchar(50)" json:"phone"`
	Address       string          `gorm:"type:text" json:"address"`
	Due           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"due"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"paid_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}
