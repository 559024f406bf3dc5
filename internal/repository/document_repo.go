package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

// DocumentListFilter narrows document listings.
type DocumentListFilter struct {
	CompanyID uuid.UUID
	Kind      string
	// Paid filters on settlement state: nil = all, true = settled, false = open
	Paid  *bool
	Page  int
	Limit int
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Document, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Document, error)
	List(ctx context.Context, filter DocumentListFilter) ([]model.Document, int64, error)
	// NextNumber returns max(number)+1 for the company+kind pair, starting at 1.
	NextNumber(ctx context.Context, companyID uuid.UUID, kind string) (int, error)
	ReplaceItems(ctx context.Context, documentID uuid.UUID, items []model.DocumentItem) error
	ReplaceFiles(ctx context.Context, documentID uuid.UUID, files []model.DocumentFile) error
	DeleteItems(ctx context.Context, documentID uuid.UUID) error
	DeleteFiles(ctx context.Context, documentID uuid.UUID) error
	UpdateSettlement(ctx context.Context, id uuid.UUID, payeeDelta decimal.Decimal, isPaid bool) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *documentRepository) Update(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Save(doc).Error
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Document{}).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Files").First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Items.Billboard").
		Preload("Items.ProductService").
		Preload("Files").
		Preload("Client").
		Preload("Supplier").
		Preload("Project").
		First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context, filter DocumentListFilter) ([]model.Document, int64, error) {
	var docs []model.Document
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Document{}).
		Where("company_id = ? AND kind = ?", filter.CompanyID, filter.Kind)
	if filter.Paid != nil {
		query = query.Where("is_paid = ?", *filter.Paid)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetchQuery := db.Preload("Items").Preload("Client").Preload("Supplier").
		Where("company_id = ? AND kind = ?", filter.CompanyID, filter.Kind)
	if filter.Paid != nil {
		fetchQuery = fetchQuery.Where("is_paid = ?", *filter.Paid)
	}
	if err := fetchQuery.Order("number desc").Offset(offset).Limit(filter.Limit).Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

func (r *documentRepository) NextNumber(ctx context.Context, companyID uuid.UUID, kind string) (int, error) {
	var max int64
	err := GetDB(ctx, r.db).Model(&model.Document{}).
		Where("company_id = ? AND kind = ?", companyID, kind).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return int(max) + 1, nil
}

func (r *documentRepository) ReplaceItems(ctx context.Context, documentID uuid.UUID, items []model.DocumentItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("document_id = ?", documentID).Delete(&model.DocumentItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].DocumentID = documentID
	}
	return db.Create(&items).Error
}

func (r *documentRepository) ReplaceFiles(ctx context.Context, documentID uuid.UUID, files []model.DocumentFile) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("document_id = ?", documentID).Delete(&model.DocumentFile{}).Error; err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}
	for i := range files {
		files[i].DocumentID = documentID
	}
	return db.Create(&files).Error
}

func (r *documentRepository) DeleteItems(ctx context.Context, documentID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("document_id = ?", documentID).Delete(&model.DocumentItem{}).Error
}

func (r *documentRepository) DeleteFiles(ctx context.Context, documentID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("document_id = ?", documentID).Delete(&model.DocumentFile{}).Error
}

func (r *documentRepository) UpdateSettlement(ctx context.Context, id uuid.UUID, payeeDelta decimal.Decimal, isPaid bool) error {
	return GetDB(ctx, r.db).Model(&model.Document{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"payee":   gorm.Expr("payee + ?", payeeDelta),
			"is_paid": isPaid,
		}).Error
}
