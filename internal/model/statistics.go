package model

import (
	"time"
)

// StatisticsResponse aggregates settlement totals and ranking data over a
// time range.
type StatisticsResponse struct {
	TotalCollected     float64            `json:"total_collected"`   // receipts against invoices
	TotalDisbursed     float64            `json:"total_disbursed"`   // disbursements against purchase orders
	TotalOutstanding   float64            `json:"total_outstanding"` // sum of client due
	InvoiceCount       int                `json:"invoice_count"`
	QuoteCount         int                `json:"quote_count"`
	TopClients         []ClientRanking    `json:"top_clients"`
	TopBillboards      []BillboardRanking `json:"top_billboards"`
	TimeRangeStartDate time.Time          `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time          `json:"time_range_end_date"`
}

// ClientRanking represents a client ranked by settled revenue
type ClientRanking struct {
	ClientID   string  `json:"client_id"`
	ClientName string  `json:"client_name"`
	TotalPaid  float64 `json:"total_paid"`
	TotalDue   float64 `json:"total_due"`
}

// BillboardRanking represents a billboard ranked by rented line items
type BillboardRanking struct {
	BillboardID  string  `json:"billboard_id"`
	Reference    string  `json:"reference"`
	Name         string  `json:"name"`
	RentalCount  int     `json:"rental_count"`
	TotalRevenue float64 `json:"total_revenue"`
}
