package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, item *model.ProductService) error
	Update(ctx context.Context, item *model.ProductService) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductService, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ProductService, error)
	FindByReference(ctx context.Context, reference string) (*model.ProductService, error)
	List(ctx context.Context, companyID uuid.UUID, search string, page, limit int) ([]model.ProductService, int64, error)
	// AdjustQuantity applies a relative stock delta in a single statement.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, item *model.ProductService) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *productRepository) Update(ctx context.Context, item *model.ProductService) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ProductService{}).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductService, error) {
	var item model.ProductService
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ProductService, error) {
	var item model.ProductService
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *productRepository) FindByReference(ctx context.Context, reference string) (*model.ProductService, error) {
	var item model.ProductService
	if err := GetDB(ctx, r.db).Where("reference = ?", reference).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *productRepository) List(ctx context.Context, companyID uuid.UUID, search string, page, limit int) ([]model.ProductService, int64, error) {
	var items []model.ProductService
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ProductService{}).Where("company_id = ?", companyID)
	if search != "" {
		db = db.Where("designation ILIKE ? OR reference ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *productRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	return GetDB(ctx, r.db).Model(&model.ProductService{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}
