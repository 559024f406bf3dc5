package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerAccount enum constants: which aggregate an entry moved.
const (
	LedgerClientDue      = "CLIENT_DUE"
	LedgerClientPaid     = "CLIENT_PAID"
	LedgerSupplierDue    = "SUPPLIER_DUE"
	LedgerSupplierPaid   = "SUPPLIER_PAID"
	LedgerProjectAmount  = "PROJECT_AMOUNT"
	LedgerProjectBalance = "PROJECT_BALANCE"
	LedgerStock          = "STOCK"
)

// LedgerEntry is the append-only journal of aggregate mutations. Every
// relative update to a due/paid/balance/stock aggregate writes one entry in
// the same transaction, so aggregates can always be re-derived by summation.
type LedgerEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Account       string          `gorm:"type:varchar(20);not null;index" json:"account"`
	SubjectID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"subject_id"` // client/supplier/project/product id
	DocumentID    *uuid.UUID      `gorm:"type:uuid;index" json:"document_id"`
	TransactionID *uuid.UUID      `gorm:"type:uuid;index" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"` // signed
	Reason        string          `gorm:"type:varchar(50);not null" json:"reason"`   // e.g. DOCUMENT_CREATE, SETTLEMENT
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

// LedgerReason enum constants
const (
	LedgerReasonDocumentCreate  = "DOCUMENT_CREATE"
	LedgerReasonDocumentReverse = "DOCUMENT_REVERSE"
	LedgerReasonSettlement      = "SETTLEMENT"
	LedgerReasonSettlementEdit  = "SETTLEMENT_EDIT"
	LedgerReasonSettlementVoid  = "SETTLEMENT_VOID"
)
