package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

type BillboardRepository interface {
	Create(ctx context.Context, billboard *model.Billboard) error
	Update(ctx context.Context, billboard *model.Billboard) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Billboard, error)
	List(ctx context.Context, companyID uuid.UUID, search string, page, limit int) ([]model.Billboard, int64, error)
	// FindReservations returns the committed (APPROVED, date-ranged) document
	// items holding any of the given billboards, optionally excluding one
	// document from the scan (the one being edited).
	FindReservations(ctx context.Context, billboardIDs []uuid.UUID, excludeDocumentID *uuid.UUID) ([]model.DocumentItem, error)
}

type billboardRepository struct {
	db *gorm.DB
}

func NewBillboardRepository(db *gorm.DB) BillboardRepository {
	return &billboardRepository{db: db}
}

func (r *billboardRepository) Create(ctx context.Context, billboard *model.Billboard) error {
	return GetDB(ctx, r.db).Create(billboard).Error
}

func (r *billboardRepository) Update(ctx context.Context, billboard *model.Billboard) error {
	return GetDB(ctx, r.db).Save(billboard).Error
}

func (r *billboardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Billboard{}).Error
}

func (r *billboardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Billboard, error) {
	var billboard model.Billboard
	if err := GetDB(ctx, r.db).First(&billboard, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &billboard, nil
}

func (r *billboardRepository) List(ctx context.Context, companyID uuid.UUID, search string, page, limit int) ([]model.Billboard, int64, error) {
	var billboards []model.Billboard
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Billboard{}).Where("company_id = ?", companyID)
	if search != "" {
		db = db.Where("name ILIKE ? OR reference ILIKE ? OR city ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("reference asc").Offset(offset).Limit(limit).Find(&billboards).Error; err != nil {
		return nil, 0, err
	}

	return billboards, total, nil
}

func (r *billboardRepository) FindReservations(ctx context.Context, billboardIDs []uuid.UUID, excludeDocumentID *uuid.UUID) ([]model.DocumentItem, error) {
	if len(billboardIDs) == 0 {
		return nil, nil
	}

	db := GetDB(ctx, r.db).
		Where("billboard_id IN ?", billboardIDs).
		Where("state = ?", model.ItemStateApproved).
		Where("location_start IS NOT NULL AND location_end IS NOT NULL")
	if excludeDocumentID != nil {
		db = db.Where("document_id <> ?", *excludeDocumentID)
	}

	var items []model.DocumentItem
	if err := db.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
