package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	Update(ctx context.Context, payment *model.Payment) error
	FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*model.Payment, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.Payment, error)
	CountByDocument(ctx context.Context, documentID uuid.UUID) (int64, error)
	DeleteByTransaction(ctx context.Context, transactionID uuid.UUID) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Save(payment).Error
}

func (r *paymentRepository) FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).First(&payment, "transaction_id = ?", transactionID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	if err := GetDB(ctx, r.db).Where("document_id = ?", documentID).
		Order("paid_at asc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) CountByDocument(ctx context.Context, documentID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Payment{}).Where("document_id = ?", documentID).Count(&count).Error
	return count, err
}

func (r *paymentRepository) DeleteByTransaction(ctx context.Context, transactionID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("transaction_id = ?", transactionID).Delete(&model.Payment{}).Error
}
