package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/ledger"
	"github.com/christkomika7/atlas-crm-sub004/internal/model"
	"github.com/christkomika7/atlas-crm-sub004/internal/repository"
)

// --- DTOs ---

type BillboardRequest struct {
	CompanyID    string `json:"company_id" binding:"required"`
	Reference    string `json:"reference" binding:"required"`
	Name         string `json:"name" binding:"required"`
	City         string `json:"city"`
	Location     string `json:"location"`
	Dimension    string `json:"dimension"`
	MonthlyPrice string `json:"monthly_price"`
}

// AvailabilityResponse reports whether a billboard is free over a window and
// lists the reservations that block it.
type AvailabilityResponse struct {
	Available bool                 `json:"available"`
	Conflicts []model.DocumentItem `json:"conflicts,omitempty"`
}

// --- Interface ---

type BillboardService interface {
	Create(ctx context.Context, req BillboardRequest) (*model.Billboard, error)
	Update(ctx context.Context, id string, req BillboardRequest) (*model.Billboard, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Billboard, error)
	List(ctx context.Context, companyID, search string, page, limit int) ([]model.Billboard, int64, error)
	// CheckAvailability scans committed rentals over [start, end). Touching
	// boundaries do not conflict.
	CheckAvailability(ctx context.Context, id string, start, end time.Time, excludeDocumentID string) (AvailabilityResponse, error)
}

type billboardService struct {
	billboardRepo repository.BillboardRepository
}

func NewBillboardService(billboardRepo repository.BillboardRepository) BillboardService {
	return &billboardService{billboardRepo: billboardRepo}
}

// --- Implementation ---

func (s *billboardService) Create(ctx context.Context, req BillboardRequest) (*model.Billboard, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}

	price := decimal.Zero
	if req.MonthlyPrice != "" {
		price, err = decimal.NewFromString(req.MonthlyPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid monthly_price: %w", err)
		}
	}

	billboard := &model.Billboard{
		CompanyID:    companyID,
		Reference:    req.Reference,
		Name:         req.Name,
		City:         req.City,
		Location:     req.Location,
		Dimension:    req.Dimension,
		MonthlyPrice: price,
	}
	if err := s.billboardRepo.Create(ctx, billboard); err != nil {
		return nil, fmt.Errorf("failed to create billboard: %w", err)
	}
	return billboard, nil
}

func (s *billboardService) Update(ctx context.Context, id string, req BillboardRequest) (*model.Billboard, error) {
	billboardID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid billboard id: %w", err)
	}

	billboard, err := s.billboardRepo.FindByID(ctx, billboardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("billboard: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load billboard: %w", err)
	}

	billboard.Reference = req.Reference
	billboard.Name = req.Name
	billboard.City = req.City
	billboard.Location = req.Location
	billboard.Dimension = req.Dimension
	if req.MonthlyPrice != "" {
		price, err := decimal.NewFromString(req.MonthlyPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid monthly_price: %w", err)
		}
		billboard.MonthlyPrice = price
	}

	if err := s.billboardRepo.Update(ctx, billboard); err != nil {
		return nil, fmt.Errorf("failed to update billboard: %w", err)
	}
	return billboard, nil
}

func (s *billboardService) Delete(ctx context.Context, id string) error {
	billboardID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid billboard id: %w", err)
	}
	if _, err := s.billboardRepo.FindByID(ctx, billboardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("billboard: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load billboard: %w", err)
	}
	return s.billboardRepo.Delete(ctx, billboardID)
}

func (s *billboardService) Get(ctx context.Context, id string) (*model.Billboard, error) {
	billboardID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid billboard id: %w", err)
	}
	billboard, err := s.billboardRepo.FindByID(ctx, billboardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("billboard: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load billboard: %w", err)
	}
	return billboard, nil
}

func (s *billboardService) List(ctx context.Context, companyID, search string, page, limit int) ([]model.Billboard, int64, error) {
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
	return s.billboardRepo.List(ctx, parsed, search, page, limit)
}

func (s *billboardService) CheckAvailability(ctx context.Context, id string, start, end time.Time, excludeDocumentID string) (AvailabilityResponse, error) {
	billboardID, err := uuid.Parse(id)
	if err != nil {
		return AvailabilityResponse{}, fmt.Errorf("invalid billboard id: %w", err)
	}
	if !start.Before(end) {
		return AvailabilityResponse{}, errors.New("start must precede end")
	}

	var exclude *uuid.UUID
	if excludeDocumentID != "" {
		parsed, err := uuid.Parse(excludeDocumentID)
		if err != nil {
			return AvailabilityResponse{}, fmt.Errorf("invalid exclude_document_id: %w", err)
		}
		exclude = &parsed
	}

	reserved, err := s.billboardRepo.FindReservations(ctx, []uuid.UUID{billboardID}, exclude)
	if err != nil {
		return AvailabilityResponse{}, fmt.Errorf("failed to scan reservations: %w", err)
	}

	var conflicts []model.DocumentItem
	for _, r := range reserved {
		if ledger.RangesOverlap(start, end, *r.LocationStart, *r.LocationEnd) {
			conflicts = append(conflicts, r)
		}
	}

	return AvailabilityResponse{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}
