package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/ledger"
	"github.com/christkomika7/atlas-crm-sub004/internal/model"
	"github.com/christkomika7/atlas-crm-sub004/internal/repository"
	ws "github.com/christkomika7/atlas-crm-sub004/internal/websocket"
)

// --- DTOs ---

type CreateTransactionRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=RECEIPT DISBURSEMENT"`
	DocumentID  string `json:"document_id" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	PaymentMode string `json:"payment_mode" binding:"omitempty,oneof=CASH BANK_TRANSFER CHEQUE MOBILE_MONEY"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"` // YYYY-MM-DD, defaults to today
}

// UpdateTransactionRequest edits an existing settlement. An amount change is
// applied to the document and the counterparty as a delta, never as a replay
// of the full amount. A document_id change releases the old document by the
// old amount and engages the new one by the new amount.
type UpdateTransactionRequest struct {
	DocumentID  string  `json:"document_id"`
	Amount      string  `json:"amount"`
	PaymentMode string  `json:"payment_mode" binding:"omitempty,oneof=CASH BANK_TRANSFER CHEQUE MOBILE_MONEY"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
}

type TransactionFilter struct {
	CompanyID string
	Kind      string
	Page      int
	Limit     int
}

// --- Interface ---

type TransactionService interface {
	Create(ctx context.Context, userID string, req CreateTransactionRequest) (*model.Transaction, error)
	Update(ctx context.Context, userID string, id string, req UpdateTransactionRequest) (*model.Transaction, error)
	Delete(ctx context.Context, userID string, id string) error
	Get(ctx context.Context, id string) (*model.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, int64, error)
}

type transactionService struct {
	txRepo       repository.TransactionRepository
	paymentRepo  repository.PaymentRepository
	docRepo      repository.DocumentRepository
	clientRepo   repository.ClientRepository
	supplierRepo repository.SupplierRepository
	projectRepo  repository.ProjectRepository
	ledgerRepo   repository.LedgerRepository
	notifRepo    repository.NotificationRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewTransactionService(
	txRepo repository.TransactionRepository,
	paymentRepo repository.PaymentRepository,
	docRepo repository.DocumentRepository,
	clientRepo repository.ClientRepository,
	supplierRepo repository.SupplierRepository,
	projectRepo repository.ProjectRepository,
	ledgerRepo repository.LedgerRepository,
	notifRepo repository.NotificationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) TransactionService {
	return &transactionService{
		txRepo:       txRepo,
		paymentRepo:  paymentRepo,
		docRepo:      docRepo,
		clientRepo:   clientRepo,
		supplierRepo: supplierRepo,
		projectRepo:  projectRepo,
		ledgerRepo:   ledgerRepo,
		notifRepo:    notifRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// --- Implementation ---

func (s *transactionService) Create(ctx context.Context, userID string, req CreateTransactionRequest) (*model.Transaction, error) {
	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("invalid document_id: %w", err)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
	}

	var tx model.Transaction
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		doc, err := s.docRepo.FindByIDForUpdate(txCtx, docID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("document: %w", ErrNotFound)
			}
			return fmt.Errorf("failed to lock document: %w", err)
		}

		if err := checkSettlementTarget(req.Kind, doc); err != nil {
			return err
		}
		if err := ledger.ValidateSettlement(doc.Total(), doc.Payee, amount); err != nil {
			return err
		}

		newPayee := doc.Payee.Add(amount)
		isPaid := ledger.Settled(doc.Total(), newPayee)
		if err := s.docRepo.UpdateSettlement(txCtx, doc.ID, amount, isPaid); err != nil {
			return fmt.Errorf("failed to update document settlement: %w", err)
		}

		tx = model.Transaction{
			Kind:        req.Kind,
			CompanyID:   doc.CompanyID,
			DocumentID:  doc.ID,
			ClientID:    doc.ClientID,
			SupplierID:  doc.SupplierID,
			Amount:      amount,
			PaymentMode: orDefault(req.PaymentMode, "CASH"),
			Category:    req.Category,
			Description: req.Description,
			Date:        date,
		}
		if err := s.txRepo.Create(txCtx, &tx); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		payment := &model.Payment{
			DocumentID:    doc.ID,
			TransactionID: &tx.ID,
			Amount:        amount,
			Mode:          tx.PaymentMode,
			PaidAt:        date,
		}
		if err := s.paymentRepo.Create(txCtx, payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		if err := s.applySettlementDelta(txCtx, doc, amount, &tx.ID, model.LedgerReasonSettlement); err != nil {
			return err
		}

		message := fmt.Sprintf("Encaissement de %s %s sur %s", amount.String(), "XAF", doc.Reference)
		notifType := model.NotifTypeReceipt
		if req.Kind == model.TxKindDisbursement {
			message = fmt.Sprintf("Décaissement de %s %s sur %s", amount.String(), "XAF", doc.Reference)
			notifType = model.NotifTypeDisbursement
		}
		if err := s.notify(txCtx, doc.CompanyID, notifType, message); err != nil {
			return err
		}

		return s.audit(txCtx, userID, model.ActionCreateTransaction, tx.ID.String(), doc.Reference, map[string]interface{}{
			"kind":      req.Kind,
			"reference": doc.Reference,
			"amount":    amount.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ws.EventTransactionCreated, tx.ID.String(), req.Kind)

	return s.txRepo.FindByID(ctx, tx.ID)
}

func (s *transactionService) Update(ctx context.Context, userID string, id string, req UpdateTransactionRequest) (*model.Transaction, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		tx, err := s.txRepo.FindByID(txCtx, txID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("transaction: %w", ErrNotFound)
			}
			return fmt.Errorf("failed to load transaction: %w", err)
		}

		doc, err := s.docRepo.FindByIDForUpdate(txCtx, tx.DocumentID)
		if err != nil {
			return fmt.Errorf("failed to lock document: %w", err)
		}

		newAmount := tx.Amount
		if req.Amount != "" {
			newAmount, err = decimal.NewFromString(req.Amount)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}
			if !newAmount.IsPositive() {
				return ledger.ErrNonPositiveAmount
			}
		}

		retarget := req.DocumentID != "" && req.DocumentID != tx.DocumentID.String()
		switch {
		case retarget:
			targetID, err := uuid.Parse(req.DocumentID)
			if err != nil {
				return fmt.Errorf("invalid document_id: %w", err)
			}
			target, err := s.docRepo.FindByIDForUpdate(txCtx, targetID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("document: %w", ErrNotFound)
				}
				return fmt.Errorf("failed to lock document: %w", err)
			}
			if err := checkSettlementTarget(tx.Kind, target); err != nil {
				return err
			}
			if err := ledger.ValidateSettlement(target.Total(), target.Payee, newAmount); err != nil {
				return err
			}

			// Release the old document by the old amount.
			reversal := tx.Amount.Neg()
			if err := s.docRepo.UpdateSettlement(txCtx, doc.ID, reversal, ledger.Settled(doc.Total(), doc.Payee.Add(reversal))); err != nil {
				return fmt.Errorf("failed to update document settlement: %w", err)
			}
			if err := s.applySettlementDelta(txCtx, doc, reversal, &tx.ID, model.LedgerReasonSettlementEdit); err != nil {
				return err
			}

			// Engage the new document by the new amount.
			if err := s.docRepo.UpdateSettlement(txCtx, target.ID, newAmount, ledger.Settled(target.Total(), target.Payee.Add(newAmount))); err != nil {
				return fmt.Errorf("failed to update document settlement: %w", err)
			}
			if err := s.applySettlementDelta(txCtx, target, newAmount, &tx.ID, model.LedgerReasonSettlementEdit); err != nil {
				return err
			}

			tx.DocumentID = target.ID
			tx.CompanyID = target.CompanyID
			tx.ClientID = target.ClientID
			tx.SupplierID = target.SupplierID
			tx.Amount = newAmount

			payment, err := s.paymentRepo.FindByTransaction(txCtx, tx.ID)
			if err == nil {
				payment.DocumentID = target.ID
				payment.Amount = newAmount
				if err := s.paymentRepo.Update(txCtx, payment); err != nil {
					return fmt.Errorf("failed to update payment: %w", err)
				}
			}

		case req.Amount != "":
			// Remaining headroom as if this settlement had never happened.
			payeeWithout := doc.Payee.Sub(tx.Amount)
			if newAmount.GreaterThan(ledger.Remaining(doc.Total(), payeeWithout)) {
				return ledger.ErrExceedsBalance
			}

			delta := newAmount.Sub(tx.Amount)
			if !delta.IsZero() {
				isPaid := ledger.Settled(doc.Total(), doc.Payee.Add(delta))
				if err := s.docRepo.UpdateSettlement(txCtx, doc.ID, delta, isPaid); err != nil {
					return fmt.Errorf("failed to update document settlement: %w", err)
				}
				if err := s.applySettlementDelta(txCtx, doc, delta, &tx.ID, model.LedgerReasonSettlementEdit); err != nil {
					return err
				}
			}
			tx.Amount = newAmount

			payment, err := s.paymentRepo.FindByTransaction(txCtx, tx.ID)
			if err == nil {
				payment.Amount = newAmount
				if err := s.paymentRepo.Update(txCtx, payment); err != nil {
					return fmt.Errorf("failed to update payment: %w", err)
				}
			}
		}

		if req.PaymentMode != "" {
			tx.PaymentMode = req.PaymentMode
		}
		if req.Category != nil {
			tx.Category = *req.Category
		}
		if req.Description != nil {
			tx.Description = *req.Description
		}
		if req.Date != "" {
			date, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}
			tx.Date = date
		}

		tx.Document = nil
		if err := s.txRepo.Update(txCtx, tx); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		return s.audit(txCtx, userID, model.ActionUpdateTransaction, tx.ID.String(), doc.Reference, map[string]interface{}{
			"amount": tx.Amount.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ws.EventTransactionUpdated, id, "")

	return s.txRepo.FindByID(ctx, txID)
}

func (s *transactionService) Delete(ctx context.Context, userID string, id string) error {
	txID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid transaction id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		tx, err := s.txRepo.FindByID(txCtx, txID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("transaction: %w", ErrNotFound)
			}
			return fmt.Errorf("failed to load transaction: %w", err)
		}

		doc, err := s.docRepo.FindByIDForUpdate(txCtx, tx.DocumentID)
		if err != nil {
			return fmt.Errorf("failed to lock document: %w", err)
		}

		reversal := tx.Amount.Neg()
		isPaid := ledger.Settled(doc.Total(), doc.Payee.Add(reversal))
		if err := s.docRepo.UpdateSettlement(txCtx, doc.ID, reversal, isPaid); err != nil {
			return fmt.Errorf("failed to update document settlement: %w", err)
		}
		if err := s.applySettlementDelta(txCtx, doc, reversal, &tx.ID, model.LedgerReasonSettlementVoid); err != nil {
			return err
		}

		if err := s.paymentRepo.DeleteByTransaction(txCtx, tx.ID); err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}
		if err := s.txRepo.Delete(txCtx, tx.ID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}

		return s.audit(txCtx, userID, model.ActionDeleteTransaction, tx.ID.String(), doc.Reference, map[string]interface{}{
			"amount": tx.Amount.String(),
			"kind":   tx.Kind,
		})
	})
	if err != nil {
		return err
	}

	s.broadcast(ws.EventTransactionDeleted, id, "")
	return nil
}

func (s *transactionService) Get(ctx context.Context, id string) (*model.Transaction, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}
	tx, err := s.txRepo.FindByID(ctx, txID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	return tx, nil
}

func (s *transactionService) List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, int64, error) {
	companyID, err := uuid.Parse(filter.CompanyID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid company_id: %w", err)
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	txs, total, err := s.txRepo.List(ctx, repository.TransactionListFilter{
		CompanyID: companyID,
		Kind:      filter.Kind,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return txs, total, nil
}

// applySettlementDelta moves a signed settlement amount across the document's
// counterparty (due shrinks, paid grows) and, for project-bound invoices, the
// project balance. Negative amounts undo a previous settlement.
func (s *transactionService) applySettlementDelta(txCtx context.Context, doc *model.Document, amount decimal.Decimal, txID *uuid.UUID, reason string) error {
	var entries []model.LedgerEntry

	switch {
	case doc.ClientID != nil:
		if err := s.clientRepo.AdjustBalances(txCtx, *doc.ClientID, amount.Neg(), amount); err != nil {
			return fmt.Errorf("failed to adjust client balances: %w", err)
		}
		entries = append(entries,
			model.LedgerEntry{
				Account: model.LedgerClientDue, SubjectID: *doc.ClientID,
				DocumentID: &doc.ID, TransactionID: txID, Amount: amount.Neg(), Reason: reason,
			},
			model.LedgerEntry{
				Account: model.LedgerClientPaid, SubjectID: *doc.ClientID,
				DocumentID: &doc.ID, TransactionID: txID, Amount: amount, Reason: reason,
			},
		)
	case doc.SupplierID != nil:
		if err := s.supplierRepo.AdjustBalances(txCtx, *doc.SupplierID, amount.Neg(), amount); err != nil {
			return fmt.Errorf("failed to adjust supplier balances: %w", err)
		}
		entries = append(entries,
			model.LedgerEntry{
				Account: model.LedgerSupplierDue, SubjectID: *doc.SupplierID,
				DocumentID: &doc.ID, TransactionID: txID, Amount: amount.Neg(), Reason: reason,
			},
			model.LedgerEntry{
				Account: model.LedgerSupplierPaid, SubjectID: *doc.SupplierID,
				DocumentID: &doc.ID, TransactionID: txID, Amount: amount, Reason: reason,
			},
		)
	}

	if doc.ProjectID != nil && doc.Kind == model.DocKindInvoice {
		if err := s.projectRepo.AdjustAggregates(txCtx, *doc.ProjectID, decimal.Zero, amount.Neg()); err != nil {
			return fmt.Errorf("failed to adjust project balance: %w", err)
		}
		entries = append(entries, model.LedgerEntry{
			Account: model.LedgerProjectBalance, SubjectID: *doc.ProjectID,
			DocumentID: &doc.ID, TransactionID: txID, Amount: amount.Neg(), Reason: reason,
		})
	}

	if err := s.ledgerRepo.CreateBatch(txCtx, entries); err != nil {
		return fmt.Errorf("failed to journal ledger entries: %w", err)
	}
	return nil
}

// checkSettlementTarget ensures the transaction kind matches the document
// kind: receipts settle invoices, disbursements settle purchase orders.
func checkSettlementTarget(kind string, doc *model.Document) error {
	switch kind {
	case model.TxKindReceipt:
		if doc.Kind != model.DocKindInvoice {
			return fmt.Errorf("receipts can only settle invoices, got %s", doc.Kind)
		}
	case model.TxKindDisbursement:
		if doc.Kind != model.DocKindPurchaseOrder {
			return fmt.Errorf("disbursements can only settle purchase orders, got %s", doc.Kind)
		}
	}
	return nil
}

func (s *transactionService) notify(txCtx context.Context, companyID uuid.UUID, notifType, message string) error {
	notif := &model.Notification{
		CompanyID: companyID,
		Type:      notifType,
		Message:   message,
	}
	if err := s.notifRepo.Create(txCtx, notif); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *transactionService) audit(txCtx context.Context, userID, action, entityID, entityName string, details map[string]interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := s.auditRepo.Log(txCtx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *transactionService) broadcast(name, id, kind string) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(ws.Event{Name: name, ID: id, Label: kind})
}
