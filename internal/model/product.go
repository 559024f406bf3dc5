package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductServiceType enum constants
const (
	CatalogTypeProduct = "PRODUCT"
	CatalogTypeService = "SERVICE"
)

// ProductService is a catalog entry. Quantity only applies to products:
// invoices consume it, purchase orders restock it. Services are unbounded.
type ProductService struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Reference   string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	Designation string          `gorm:"type:varchar(255);not null" json:"designation"`
	Type        string          `gorm:"type:varchar(20);not null;default:'PRODUCT'" json:"type"` // PRODUCT, SERVICE
	Quantity    int             `gorm:"type:int;not null;default:0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
