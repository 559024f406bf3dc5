package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectStatus enum constants
const (
	ProjectStatusTodo       = "TODO"
	ProjectStatusInProgress = "IN_PROGRESS"
	ProjectStatusBlocked    = "BLOCKED"
	ProjectStatusDone       = "DONE"
)

// Project tracks a client engagement. Amount accumulates the totals of the
// invoices attached to it; Balance is the part still outstanding and
// decreases as receipts come in.
type Project struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	ClientID  *uuid.UUID      `gorm:"type:uuid;index" json:"client_id"`
	Client    *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Status    string          `gorm:"type:varchar(20);not null;default:'TODO';index" json:"status"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"balance"`
	Deadline  *time.Time      `gorm:"type:date" json:"deadline"`
	Tasks     []Task          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"tasks"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Task is one unit of work inside a project.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(20);not null;default:'TODO';index" json:"status"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id"`
	Assignee    *User      `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	DueDate     *time.Time `gorm:"type:date" json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
