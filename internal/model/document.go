package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind enum constants
const (
	DocKindInvoice       = "INVOICE"
	DocKindQuote         = "QUOTE"
	DocKindDeliveryNote  = "DELIVERY_NOTE"
	DocKindPurchaseOrder = "PURCHASE_ORDER"
)

// AmountType enum constants: whether the headline total is tax-exclusive (HT)
// or tax-inclusive (TTC)
const (
	AmountTypeHT  = "HT"
	AmountTypeTTC = "TTC"
)

// DiscountType enum constants
const (
	DiscountTypePercent = "PERCENT"
	DiscountTypeMoney   = "MONEY"
)

// ItemType enum constants
const (
	ItemTypeBillboard = "BILLBOARD"
	ItemTypeProduct   = "PRODUCT"
	ItemTypeService   = "SERVICE"
)

// ItemState enum constants. APPROVED items commit their referenced resource
// (billboard rental window or catalog stock); IGNORE items carry data only,
// which is how duplicated/converted lines start out; PURCHASE marks purchase
// order lines that restock the catalog.
const (
	ItemStateApproved = "APPROVED"
	ItemStateIgnore   = "IGNORE"
	ItemStatePurchase = "PURCHASE"
)

// Document is a financial document: invoice, quote, delivery note or purchase
// order. Sales kinds bill a Client; purchase orders bill a Supplier. Number is
// sequential per company+kind.
type Document struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind       string     `gorm:"type:varchar(20);not null;index:idx_documents_company_kind;uniqueIndex:uq_documents_number" json:"kind"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_documents_company_kind;uniqueIndex:uq_documents_number" json:"company_id"`
	Company    *Company   `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	ClientID   *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	Client     *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	ProjectID  *uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	Project    *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`

	// Number is guarded by a unique index so two concurrent creators can
	// never be handed the same sequence slot.
	Number    int    `gorm:"type:int;not null;uniqueIndex:uq_documents_number" json:"number"`
	Reference string `gorm:"type:varchar(50);not null;index" json:"reference"` // e.g. FAC-2025-00012

	TotalHT      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_ht"`
	TotalTTC     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_ttc"`
	AmountType   string          `gorm:"type:varchar(5);not null;default:'TTC'" json:"amount_type"` // HT, TTC
	Discount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	DiscountType string          `gorm:"type:varchar(10);not null;default:'PERCENT'" json:"discount_type"`

	// Payee accumulates settled amounts; IsPaid flips once the remaining
	// balance falls within the settlement epsilon.
	Payee       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"payee"`
	IsPaid      bool            `gorm:"not null;default:false" json:"is_paid"`
	IsCompleted bool            `gorm:"not null;default:false" json:"is_completed"`

	// Back-link set on duplicated/converted documents
	FromRecordID        *uuid.UUID `gorm:"type:uuid;index" json:"from_record_id"`
	FromRecordReference string     `gorm:"type:varchar(50)" json:"from_record_reference"`

	Note  string         `gorm:"type:text" json:"note"`
	Items []DocumentItem `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"items"`
	Files []DocumentFile `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"files"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total returns the headline amount of the document according to its
// amount type.
func (d *Document) Total() decimal.Decimal {
	if d.AmountType == AmountTypeHT {
		return d.TotalHT
	}
	return d.TotalTTC
}

// IsPurchase reports whether the document is billed from a supplier.
func (d *Document) IsPurchase() bool {
	return d.Kind == DocKindPurchaseOrder
}

// DocumentItem is one line of a document. It references either a billboard
// (with a rental date range) or a catalog product/service, never both.
type DocumentItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DocumentID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"document_id"`
	ItemType         string          `gorm:"type:varchar(20);not null" json:"item_type"` // BILLBOARD, PRODUCT, SERVICE
	BillboardID      *uuid.UUID      `gorm:"type:uuid;index" json:"billboard_id"`
	Billboard        *Billboard      `gorm:"foreignKey:BillboardID" json:"billboard,omitempty"`
	ProductServiceID *uuid.UUID      `gorm:"type:uuid;index" json:"product_service_id"`
	ProductService   *ProductService `gorm:"foreignKey:ProductServiceID" json:"product_service,omitempty"`

	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity        int             `gorm:"type:int;not null;default:1" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	DiscountedPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discounted_price"`
	Discount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	DiscountType    string          `gorm:"type:varchar(10);not null;default:'PERCENT'" json:"discount_type"`
	Currency        string          `gorm:"type:varchar(10);not null;default:'XAF'" json:"currency"`

	// Rental window for billboard items: both dates present together or
	// absent together.
	LocationStart *time.Time `gorm:"type:date" json:"location_start"`
	LocationEnd   *time.Time `gorm:"type:date" json:"location_end"`

	State string `gorm:"type:varchar(10);not null;default:'APPROVED';index" json:"state"` // APPROVED, IGNORE, PURCHASE
}

// DocumentFile stores the path of one uploaded attachment.
type DocumentFile struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	Path       string    `gorm:"type:text;not null" json:"path"`
	CreatedAt  time.Time `json:"created_at"`
}
