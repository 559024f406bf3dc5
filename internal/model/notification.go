package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enum constants
const (
	NotifTypeReceipt      = "RECEIPT"
	NotifTypeDisbursement = "DISBURSEMENT"
	NotifTypeDocument     = "DOCUMENT"
	NotifTypeLowStock     = "LOW_STOCK"
)

// Notification is an in-app message emitted by settlement and document
// mutations, also broadcast live over the websocket hub.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil = company-wide
	Type      string     `gorm:"type:varchar(30);not null;index" json:"type"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	IsRead    bool       `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}
