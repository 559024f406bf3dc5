package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

type StatisticsService interface {
	GetStatistics(ctx context.Context, companyID string, startDate, endDate time.Time) (model.StatisticsResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetStatistics aggregates settlement totals, document counts and rankings
// over a time bracket for one company.
func (s *statisticsService) GetStatistics(ctx context.Context, companyID string, startDate, endDate time.Time) (model.StatisticsResponse, error) {
	parsed, err := uuid.Parse(companyID)
	if err != nil {
		return model.StatisticsResponse{}, fmt.Errorf("invalid company_id: %w", err)
	}

	var response model.StatisticsResponse
	response.TimeRangeStartDate = startDate
	response.TimeRangeEndDate = endDate

	// Total collected through receipts
	var collected struct {
		Value float64
	}
	if err := s.db.WithContext(ctx).Table("transactions").
		Select("COALESCE(SUM(amount), 0) as value").
		Where("company_id = ? AND kind = ? AND date >= ? AND date <= ?", parsed, model.TxKindReceipt, startDate, endDate).
		Scan(&collected).Error; err != nil {
		return model.StatisticsResponse{}, fmt.Errorf("failed to sum receipts: %w", err)
	}
	response.TotalCollected = collected.Value

	// Total paid out through disbursements
	var disbursed struct {
		Value float64
	}
	if err := s.db.WithContext(ctx).Table("transactions").
		Select("COALESCE(SUM(amount), 0) as value").
		Where("company_id = ? AND kind = ? AND date >= ? AND date <= ?", parsed, model.TxKindDisbursement, startDate, endDate).
		Scan(&disbursed).Error; err != nil {
		return model.StatisticsResponse{}, fmt.Errorf("failed to sum disbursements: %w", err)
	}
	response.TotalDisbursed = disbursed.Value

	// Open client balances (not time-bracketed: it is the live aggregate)
	var outstanding struct {
		Value float64
	}
	if err := s.db.WithContext(ctx).Table("clients").
		Select("COALESCE(SUM(due), 0) as value").
		Where("company_id = ? AND deleted_at IS NULL", parsed).
		Scan(&outstanding).Error; err != nil {
		return model.StatisticsResponse{}, fmt.Errorf("failed to sum outstanding balances: %w", err)
	}
	response.TotalOutstanding = outstanding.Value

	var invoiceCount int64
	if err := s.db.WithContext(ctx).Model(&model.Document{}).
		Where("company_id = ? AND kind = ? AND created_at >= ? AND created_at <= ?", parsed, model.DocKindInvoice, startDate, endDate).
		Count(&invoiceCount).Error; err != nil {
		return model.StatisticsResponse{}, fmt.Errorf("failed to count invoices: %w", err)
	}
	response.InvoiceCount = int(invoiceCount)

	var quoteCount int64
	if err := s.db.WithContext(ctx).Model(&model.Document{}).
		Where("company_id = ? AND kind = ? AND created_at >= ? AND created_at <= ?", parsed, model.DocKindQuote, startDate, endDate).
		Count(&quoteCount).Error; err != nil {
		return model.StatisticsResponse{}, fmt.Errorf("failed to count quotes: %w", err)
	}
	response.QuoteCount = int(quoteCount)

	// Top clients by settled revenue over the bracket
	var topClients []model.ClientRanking
	if err := s.db.WithContext(ctx).Table("transactions").
		Select("clients.id as client_id, clients.name as client_name, COALESCE(SUM(transactions.amount), 0) as total_paid, MAX(clients.due) as total_due").
		Joins("JOIN clients ON clients.id = transactions.client_id").
		Where("transactions.company_id = ? AND transactions.kind = ? AND transactions.date >= ? AND transactions.date <= ?", parsed, model.TxKindReceipt, startDate, endDate).
		Group("clients.id, clients.name").
		Order("total_paid DESC").
		Limit(5).
		Scan(&topClients).Error; err != nil {
		return model.StatisticsResponse{}, fmt.Errorf("failed to rank clients: %w", err)
	}
	response.TopClients = topClients

	// Top billboards by committed rental lines on invoices
	var topBillboards []model.BillboardRanking
	if err := s.db.WithContext(ctx).Table("document_items").
		Select("billboards.id as billboard_id, billboards.reference as reference, billboards.name as name, COUNT(document_items.id) as rental_count, COALESCE(SUM(document_items.discounted_price), 0) as total_revenue").
		Joins("JOIN billboards ON billboards.id = document_items.billboard_id").
		Joins("JOIN documents ON documents.id = document_items.document_id").
		Where("documents.company_id = ? AND documents.kind = ? AND document_items.state = ? AND documents.created_at >= ? AND documents.created_at <= ?",
			parsed, model.DocKindInvoice, model.ItemStateApproved, startDate, endDate).
		Group("billboards.id, billboards.reference, billboards.name").
		Order("rental_count DESC").
		Limit(5).
		Scan(&topBillboards).Error; err != nil {
		return model.StatisticsResponse{}, fmt.Errorf("failed to rank billboards: %w", err)
	}
	response.TopBillboards = topBillboards

	return response, nil
}
