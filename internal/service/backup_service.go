package service

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
	"github.com/christkomika7/atlas-crm-sub004/internal/repository"
)

// backupTables lists every exported table in dependency order. Import runs
// with foreign key triggers disabled, so the order only matters for
// readability of the archive.
var backupTables = []string{
	"companies",
	"users",
	"refresh_tokens",
	"clients",
	"suppliers",
	"billboards",
	"product_services",
	"projects",
	"tasks",
	"documents",
	"document_items",
	"document_files",
	"transactions",
	"payments",
	"notifications",
	"ledger_entries",
	"audit_logs",
}

// BackupService dumps the whole database to a zip of CSV files and restores
// it from the same archive. Import replaces all existing data.
type BackupService interface {
	Export(ctx context.Context, userID string, w io.Writer) error
	Import(ctx context.Context, userID string, r io.ReaderAt, size int64) error
}

type backupService struct {
	db        *gorm.DB
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewBackupService(db *gorm.DB, auditRepo repository.AuditRepository, txManager repository.TransactionManager) BackupService {
	return &backupService{db: db, auditRepo: auditRepo, txManager: txManager}
}

func (s *backupService) Export(ctx context.Context, userID string, w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, table := range backupTables {
		var rows []map[string]interface{}
		if err := s.db.WithContext(ctx).Table(table).Find(&rows).Error; err != nil {
			return fmt.Errorf("failed to read table %s: %w", table, err)
		}

		f, err := zw.Create(table + ".csv")
		if err != nil {
			return fmt.Errorf("failed to create archive entry: %w", err)
		}
		if err := writeCSV(f, rows); err != nil {
			return fmt.Errorf("failed to dump table %s: %w", table, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	return s.logBackup(ctx, userID, model.ActionExportBackup)
}

func (s *backupService) Import(ctx context.Context, userID string, r io.ReaderAt, size int64) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("invalid backup archive: %w", err)
	}

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		db := repository.GetDB(txCtx, s.db)

		// Constraint checks are pointless while the whole dataset is being
		// swapped; rows arrive in archive order, not dependency order.
		if err := db.Exec("SET session_replication_role = replica").Error; err != nil {
			return fmt.Errorf("failed to relax constraints: %w", err)
		}
		defer db.Exec("SET session_replication_role = DEFAULT")

		for i := len(backupTables) - 1; i >= 0; i-- {
			if err := db.Exec("DELETE FROM " + backupTables[i]).Error; err != nil {
				return fmt.Errorf("failed to clear table %s: %w", backupTables[i], err)
			}
		}

		for _, table := range backupTables {
			entry, ok := entries[table+".csv"]
			if !ok {
				continue
			}
			rows, err := readCSV(entry)
			if err != nil {
				return fmt.Errorf("failed to parse %s.csv: %w", table, err)
			}
			if len(rows) == 0 {
				continue
			}
			if err := db.Table(table).Create(rows).Error; err != nil {
				return fmt.Errorf("failed to restore table %s: %w", table, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	return s.logBackup(ctx, userID, model.ActionImportBackup)
}

func (s *backupService) logBackup(ctx context.Context, userID, action string) error {
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   "database",
		EntityName: "backup",
		Details:    fmt.Sprintf(`{"at": %q}`, time.Now().Format(time.RFC3339)),
	}
	if parsed, err := uuid.Parse(userID); err == nil {
		entry.UserID = &parsed
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, rows []map[string]interface{}) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if len(rows) == 0 {
		return nil
	}

	headers := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		headers = append(headers, col)
	}
	sort.Strings(headers)
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, row := range rows {
		record := make([]string, 0, len(headers))
		for _, col := range headers {
			record = append(record, formatCSVValue(row[col]))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCSVValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

func readCSV(entry *zip.File) ([]map[string]interface{}, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	cr := csv.NewReader(rc)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	headers := records[0]
	rows := make([]map[string]interface{}, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]interface{}, len(headers))
		for i, col := range headers {
			if i >= len(record) {
				continue
			}
			// Empty cells restore as NULL so uuid/date columns cast cleanly.
			if record[i] == "" {
				row[col] = nil
			} else {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
