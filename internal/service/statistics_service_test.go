package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

// statisticsDB opens an in-memory database carrying only the tables the
// aggregate queries read, without the uuid column defaults sqlite cannot
// evaluate.
func statisticsDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE transactions (id TEXT PRIMARY KEY, company_id TEXT, client_id TEXT, kind TEXT, amount NUMERIC, date DATETIME)`,
		`CREATE TABLE clients (id TEXT PRIMARY KEY, company_id TEXT, name TEXT, due NUMERIC, deleted_at DATETIME)`,
		`CREATE TABLE documents (id TEXT PRIMARY KEY, company_id TEXT, kind TEXT, created_at DATETIME)`,
		`CREATE TABLE document_items (id TEXT PRIMARY KEY, document_id TEXT, billboard_id TEXT, state TEXT, discounted_price NUMERIC)`,
		`CREATE TABLE billboards (id TEXT PRIMARY KEY, reference TEXT, name TEXT)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func TestGetStatisticsAggregates(t *testing.T) {
	db := statisticsDB(t)
	companyID := uuid.NewString()
	clientID := uuid.NewString()
	mid := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Exec(
		`INSERT INTO clients (id, company_id, name, due) VALUES (?, ?, ?, ?)`,
		clientID, companyID, "Mbote SARL", 3000,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO transactions (id, company_id, client_id, kind, amount, date) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), companyID, clientID, model.TxKindReceipt, 2000, mid,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO transactions (id, company_id, client_id, kind, amount, date) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), companyID, clientID, model.TxKindDisbursement, 500, mid,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO documents (id, company_id, kind, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), companyID, model.DocKindInvoice, mid,
	).Error)

	svc := NewStatisticsService(db)
	stats, err := svc.GetStatistics(context.Background(), companyID,
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.InDelta(t, 2000, stats.TotalCollected, 0.001)
	assert.InDelta(t, 500, stats.TotalDisbursed, 0.001)
	assert.InDelta(t, 3000, stats.TotalOutstanding, 0.001)
	assert.Equal(t, 1, stats.InvoiceCount)
	assert.Equal(t, 0, stats.QuoteCount)

	require.Len(t, stats.TopClients, 1)
	assert.Equal(t, "Mbote SARL", stats.TopClients[0].ClientName)
	assert.InDelta(t, 2000, stats.TopClients[0].TotalPaid, 0.001)
}

func TestGetStatisticsSurfacesQueryErrors(t *testing.T) {
	// No tables at all: every aggregate query fails and the failure must
	// reach the caller instead of an all-zero payload.
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	svc := NewStatisticsService(db)
	_, err = svc.GetStatistics(context.Background(), uuid.NewString(), time.Now().AddDate(0, -1, 0), time.Now())
	assert.Error(t, err)
}
