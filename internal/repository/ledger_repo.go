package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

// LedgerRepository persists the append-only journal of aggregate movements.
// Entries are only written inside the same transaction as the aggregate
// update they describe.
type LedgerRepository interface {
	CreateBatch(ctx context.Context, entries []model.LedgerEntry) error
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.LedgerEntry, error)
	// SumByAccount re-derives one aggregate from its journal, used by
	// consistency checks and the statistics service.
	SumByAccount(ctx context.Context, account string, subjectID uuid.UUID) (float64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateBatch(ctx context.Context, entries []model.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&entries).Error
}

func (r *ledgerRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	if err := GetDB(ctx, r.db).Where("document_id = ?", documentID).
		Order("created_at asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ledgerRepository) SumByAccount(ctx context.Context, account string, subjectID uuid.UUID) (float64, error) {
	var sum float64
	err := GetDB(ctx, r.db).Model(&model.LedgerEntry{}).
		Where("account = ? AND subject_id = ?", account, subjectID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
