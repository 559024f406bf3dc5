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

// --- DTOs ---

type ClientRequest struct {
	CompanyID   string `json:"company_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	CompanyName string `json:"company_name"`
	TaxCode     string `json:"tax_code"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// --- Interface ---

type ClientService interface {
	Create(ctx context.Context, req ClientRequest) (*model.Client, error)
	Update(ctx context.Context, id string, req ClientRequest) (*model.Client, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Client, error)
	List(ctx context.Context, companyID, search string, page, limit int) ([]model.Client, int64, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
}

func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

// --- Implementation ---

func (s *clientService) Create(ctx context.Context, req ClientRequest) (*model.Client, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}

	client := &model.Client{
		CompanyID:   companyID,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		TaxCode:     req.TaxCode,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *clientService) Update(ctx context.Context, id string, req ClientRequest) (*model.Client, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client id: %w", err)
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}

	// Due and PaidAmount are never set from a request: only documents and
	// settlements move them.
	client.Name = req.Name
	client.CompanyName = req.CompanyName
	client.TaxCode = req.TaxCode
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("client: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load client: %w", err)
	}

	count, err := s.clientRepo.CountDocuments(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	if count > 0 {
		return ErrCounterpartyInUse
	}

	return s.clientRepo.Delete(ctx, clientID)
}

func (s *clientService) Get(ctx context.Context, id string) (*model.Client, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client id: %w", err)
	}
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, companyID, search string, page, limit int) ([]model.Client, int64, error) {
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
	return s.clientRepo.List(ctx, parsed, search, page, limit)
}
