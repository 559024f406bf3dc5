package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
	"github.com/christkomika7/atlas-crm-sub004/internal/repository"
)

type CompanyRequest struct {
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency"`
	VATRate  string `json:"vat_rate"` // e.g. "0.1925"
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type CompanyService interface {
	Create(ctx context.Context, req CompanyRequest) (*model.Company, error)
	Update(ctx context.Context, id string, req CompanyRequest) (*model.Company, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Company, error)
	List(ctx context.Context, page, limit int) ([]model.Company, int64, error)
}

type companyService struct {
	companyRepo repository.CompanyRepository
}

func NewCompanyService(companyRepo repository.CompanyRepository) CompanyService {
	return &companyService{companyRepo: companyRepo}
}

func (s *companyService) Create(ctx context.Context, req CompanyRequest) (*model.Company, error) {
	company := &model.Company{
		Name:     req.Name,
		Currency: orDefault(req.Currency, "XAF"),
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
	}

	if req.VATRate != "" {
		rate, err := decimal.NewFromString(req.VATRate)
		if err != nil {
			return nil, fmt.Errorf("invalid vat_rate: %w", err)
		}
		company.VATRate = rate
	} else {
		company.VATRate = decimal.NewFromFloat(0.1925)
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

func (s *companyService) Update(ctx context.Context, id string, req CompanyRequest) (*model.Company, error) {
	companyID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid company id: %w", err)
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	company.Name = req.Name
	if req.Currency != "" {
		company.Currency = req.Currency
	}
	if req.VATRate != "" {
		rate, err := decimal.NewFromString(req.VATRate)
		if err != nil {
			return nil, fmt.Errorf("invalid vat_rate: %w", err)
		}
		company.VATRate = rate
	}
	company.Address = req.Address
	company.Phone = req.Phone
	company.Email = req.Email

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

func (s *companyService) Delete(ctx context.Context, id string) error {
	companyID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid company id: %w", err)
	}
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("company: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load company: %w", err)
	}
	return s.companyRepo.Delete(ctx, companyID)
}

func (s *companyService) Get(ctx context.Context, id string) (*model.Company, error) {
	companyID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid company id: %w", err)
	}
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	return company, nil
}

func (s *companyService) List(ctx context.Context, page, limit int) ([]model.Company, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.companyRepo.List(ctx, page, limit)
}
