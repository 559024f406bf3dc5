package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records one settlement event against exactly one document. When the
// settlement came in through a receipt/disbursement transaction, the row
// links back to it; deleting a document is blocked while payments exist.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DocumentID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"document_id"`
	TransactionID *uuid.UUID      `gorm:"type:uuid;index" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Mode          string          `gorm:"type:varchar(30);not null;default:'CASH'" json:"mode"` // CASH, BANK_TRANSFER, CHEQUE, MOBILE_MONEY
	PaidAt        time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt     time.Time       `json:"created_at"`
}
