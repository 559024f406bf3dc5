package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	Update(ctx context.Context, client *model.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	List(ctx context.Context, companyID uuid.UUID, search string, page, limit int) ([]model.Client, int64, error)
	// AdjustBalances applies relative deltas to due/paid_amount in a single
	// statement, safe under row-level locking.
	AdjustBalances(ctx context.Context, id uuid.UUID, dueDelta, paidDelta decimal.Decimal) error
	CountDocuments(ctx context.Context, id uuid.UUID) (int64, error)
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	return GetDB(ctx, r.db).Create(client).Error
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	return GetDB(ctx, r.db).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Client{}).Error
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := GetDB(ctx, r.db).First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, companyID uuid.UUID, search string, page, limit int) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Client{}).Where("company_id = ?", companyID)
	if search != "" {
		db = db.Where("name ILIKE ? OR company_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

func (r *clientRepository) AdjustBalances(ctx context.Context, id uuid.UUID, dueDelta, paidDelta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Client{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"due":         gorm.Expr("due + ?", dueDelta),
			"paid_amount": gorm.Expr("paid_amount + ?", paidDelta),
		}).Error
}

func (r *clientRepository) CountDocuments(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Document{}).Where("client_id = ?", id).Count(&count).Error
	return count, err
}
