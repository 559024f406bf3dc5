package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Company{},
		&model.User{},
		&model.RefreshToken{},
		&model.Client{},
		&model.Supplier{},
		&model.Billboard{},
		&model.ProductService{},
		&model.Project{},
		&model.Task{},
		&model.Document{},
		&model.DocumentItem{},
		&model.DocumentFile{},
		&model.Transaction{},
		&model.Payment{},
		&model.Notification{},
		&model.LedgerEntry{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
