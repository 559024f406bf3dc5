package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
	"github.com/christkomika7/atlas-crm-sub004/internal/repository"
)

// --- DTOs ---

type CatalogItemRequest struct {
	CompanyID   string `json:"company_id" binding:"required"`
	Reference   string `json:"reference" binding:"required"`
	Designation string `json:"designation" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=PRODUCT SERVICE"`
	Quantity    int    `json:"quantity" binding:"omitempty,gte=0"`
	UnitPrice   string `json:"unit_price" binding:"required"`
}

type UpdateCatalogItemRequest struct {
	Reference   string `json:"reference"`
	Designation string `json:"designation"`
	UnitPrice   string `json:"unit_price"`
	// Quantity is deliberately absent: stock only moves through documents.
}

// --- Interface ---

type CatalogService interface {
	Create(ctx context.Context, userID string, req CatalogItemRequest) (*model.ProductService, error)
	Update(ctx context.Context, userID string, id string, req UpdateCatalogItemRequest) (*model.ProductService, error)
	Delete(ctx context.Context, userID string, id string) error
	Get(ctx context.Context, id string) (*model.ProductService, error)
	List(ctx context.Context, companyID, search string, page, limit int) ([]model.ProductService, int64, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *catalogService) Create(ctx context.Context, userID string, req CatalogItemRequest) (*model.ProductService, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid unit_price: %w", err)
	}

	if _, err := s.productRepo.FindByReference(ctx, req.Reference); err == nil {
		return nil, fmt.Errorf("reference %s already exists", req.Reference)
	}

	quantity := req.Quantity
	if req.Type == model.CatalogTypeService {
		quantity = 0
	}

	item := &model.ProductService{
		CompanyID:   companyID,
		Reference:   req.Reference,
		Designation: req.Designation,
		Type:        req.Type,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, item); err != nil {
			return fmt.Errorf("failed to create catalog item: %w", err)
		}
		return s.logAction(txCtx, userID, model.ActionCreateCatalogItem, item, req)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *catalogService) Update(ctx context.Context, userID string, id string, req UpdateCatalogItemRequest) (*model.ProductService, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog item id: %w", err)
	}

	item, err := s.productRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("catalog item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load catalog item: %w", err)
	}

	if req.Reference != "" && req.Reference != item.Reference {
		if _, err := s.productRepo.FindByReference(ctx, req.Reference); err == nil {
			return nil, fmt.Errorf("reference %s already exists", req.Reference)
		}
		item.Reference = req.Reference
	}
	if req.Designation != "" {
		item.Designation = req.Designation
	}
	if req.UnitPrice != "" {
		unitPrice, err := decimal.NewFromString(req.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid unit_price: %w", err)
		}
		item.UnitPrice = unitPrice
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Update(txCtx, item); err != nil {
			return fmt.Errorf("failed to update catalog item: %w", err)
		}
		return s.logAction(txCtx, userID, model.ActionUpdateCatalogItem, item, req)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *catalogService) Delete(ctx context.Context, userID string, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid catalog item id: %w", err)
	}

	item, err := s.productRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("catalog item: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load catalog item: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Delete(txCtx, itemID); err != nil {
			return fmt.Errorf("failed to delete catalog item: %w", err)
		}
		return s.logAction(txCtx, userID, model.ActionDeleteCatalogItem, item, map[string]bool{"deleted": true})
	})
}

func (s *catalogService) Get(ctx context.Context, id string) (*model.ProductService, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog item id: %w", err)
	}
	item, err := s.productRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("catalog item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load catalog item: %w", err)
	}
	return item, nil
}

func (s *catalogService) List(ctx context.Context, companyID, search string, page, limit int) ([]model.ProductService, int64, error) {
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
	return s.productRepo.List(ctx, parsed, search, page, limit)
}

func (s *catalogService) logAction(txCtx context.Context, userID, action string, item *model.ProductService, details interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   item.ID.String(),
		EntityName: item.Designation,
		Details:    string(payload),
	}
	if err := s.auditRepo.Log(txCtx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
