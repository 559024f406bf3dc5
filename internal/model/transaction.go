package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind enum constants
const (
	TxKindReceipt      = "RECEIPT"      // money in, settles an invoice
	TxKindDisbursement = "DISBURSEMENT" // money out, settles a purchase order
)

// Transaction is a settlement entry: a receipt collected against an invoice
// or a disbursement paid against a purchase order. Each transaction owns one
// Payment row on its target document.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind        string          `gorm:"type:varchar(20);not null;index" json:"kind"` // RECEIPT, DISBURSEMENT
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"document_id"`
	Document    *Document       `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	ClientID    *uuid.UUID      `gorm:"type:uuid;index" json:"client_id"`
	SupplierID  *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	PaymentMode string          `gorm:"type:varchar(30);not null;default:'CASH'" json:"payment_mode"`
	Category    string          `gorm:"type:varchar(50)" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	Date        time.Time       `gorm:"not null" json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
