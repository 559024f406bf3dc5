package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
	"github.com/christkomika7/atlas-crm-sub004/internal/repository"
)

type SupplierRequest struct {
	CompanyID   string `json:"company_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	CompanyName string `json:"company_name"`
	TaxCode     string `json:"tax_code"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type SupplierService interface {
	Create(ctx context.Context, req SupplierRequest) (*model.Supplier, error)
	Update(ctx context.Context, id string, req SupplierRequest) (*model.Supplier, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Supplier, error)
	List(ctx context.Context, companyID, search string, page, limit int) ([]model.Supplier, int64, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) Create(ctx context.Context, req SupplierRequest) (*model.Supplier, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}

	supplier := &model.Supplier{
		CompanyID:   companyID,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		TaxCode:     req.TaxCode,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, id string, req SupplierRequest) (*model.Supplier, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier id: %w", err)
	}

	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("supplier: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}

	supplier.Name = req.Name
	supplier.CompanyName = req.CompanyName
	supplier.TaxCode = req.TaxCode
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) Delete(ctx context.Context, id string) error {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid supplier id: %w", err)
	}
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("supplier: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load supplier: %w", err)
	}

	count, err := s.supplierRepo.CountDocuments(ctx, supplierID)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	if count > 0 {
		return ErrCounterpartyInUse
	}

	return s.supplierRepo.Delete(ctx, supplierID)
}

func (s *supplierService) Get(ctx context.Context, id string) (*model.Supplier, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier id: %w", err)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("supplier: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) List(ctx context.Context, companyID, search string, page, limit int) ([]model.Supplier, int64, error) {
	parsed, err := uuid.Parse(companyID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid company_id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.supplierRepo.List(ctx, parsed, search, page, limit)
}
