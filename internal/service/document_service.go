package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
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

type DocumentItemRequest struct {
	ItemType         string `json:"item_type" binding:"required,oneof=BILLBOARD PRODUCT SERVICE"`
	BillboardID      string `json:"billboard_id"`
	ProductServiceID string `json:"product_service_id"`
	Name             string `json:"name" binding:"required"`
	Quantity         int    `json:"quantity" binding:"required,gt=0"`
	UnitPrice        string `json:"unit_price" binding:"required"`
	Discount         string `json:"discount"`
	DiscountType     string `json:"discount_type" binding:"omitempty,oneof=PERCENT MONEY"`
	Currency         string `json:"currency"`
	LocationStart    string `json:"location_start"` // YYYY-MM-DD, billboard items only
	LocationEnd      string `json:"location_end"`
	State            string `json:"state" binding:"omitempty,oneof=APPROVED IGNORE PURCHASE"`
}

type CreateDocumentRequest struct {
	Kind         string                `json:"kind" binding:"required,oneof=INVOICE QUOTE DELIVERY_NOTE PURCHASE_ORDER"`
	CompanyID    string                `json:"company_id" binding:"required"`
	ClientID     string                `json:"client_id"`
	SupplierID   string                `json:"supplier_id"`
	ProjectID    string                `json:"project_id"`
	AmountType   string                `json:"amount_type" binding:"omitempty,oneof=HT TTC"`
	Discount     string                `json:"discount"`
	DiscountType string                `json:"discount_type" binding:"omitempty,oneof=PERCENT MONEY"`
	Payee        string                `json:"payee"`        // optional initial settlement
	PaymentMode  string                `json:"payment_mode"` // mode of the initial settlement
	Note         string                `json:"note"`
	Items        []DocumentItemRequest `json:"items" binding:"required,min=1,dive"`
	FilePaths    []string              `json:"file_paths"`
}

// UpdateDocumentRequest replaces the document's content. Financial fields and
// items are only accepted while no settlement has been recorded.
type UpdateDocumentRequest struct {
	ClientID     string                `json:"client_id"`
	SupplierID   string                `json:"supplier_id"`
	ProjectID    string                `json:"project_id"`
	AmountType   string                `json:"amount_type" binding:"omitempty,oneof=HT TTC"`
	Discount     string                `json:"discount"`
	DiscountType string                `json:"discount_type" binding:"omitempty,oneof=PERCENT MONEY"`
	Note         *string               `json:"note"`
	IsCompleted  *bool                 `json:"is_completed"`
	Items        []DocumentItemRequest `json:"items" binding:"omitempty,dive"`
	FilePaths    []string              `json:"file_paths"`
}

// DuplicateDocumentRequest clones a document, optionally as another kind
// (quote to invoice, quote to delivery note...). Cloned lines start in the
// IGNORE state so the copy commits no stock and no billboard reservation.
type DuplicateDocumentRequest struct {
	Kind string `json:"kind" binding:"omitempty,oneof=INVOICE QUOTE DELIVERY_NOTE PURCHASE_ORDER"`
}

type DocumentFilter struct {
	CompanyID string
	Kind      string
	Paid      *bool
	Page      int
	Limit     int
}

type NextReferenceResponse struct {
	Number    int    `json:"number"`
	Reference string `json:"reference"`
}

// --- Interface ---

// FileStore is the attachment backend documents save, copy and clean their
// files through.
type FileStore interface {
	Save(name string, r io.Reader) (string, error)
	Copy(path string) (string, error)
	Remove(path string) error
}

type DocumentService interface {
	Create(ctx context.Context, userID string, req CreateDocumentRequest) (*model.Document, error)
	Update(ctx context.Context, userID string, id string, req UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, userID string, id string) error
	BulkDelete(ctx context.Context, userID string, ids []string) error
	Duplicate(ctx context.Context, userID string, id string, req DuplicateDocumentRequest) (*model.Document, error)
	Get(ctx context.Context, id string) (*model.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]model.Document, int64, error)
	NextReference(ctx context.Context, companyID, kind string) (NextReferenceResponse, error)
}

type documentService struct {
	docRepo       repository.DocumentRepository
	clientRepo    repository.ClientRepository
	supplierRepo  repository.SupplierRepository
	projectRepo   repository.ProjectRepository
	productRepo   repository.ProductRepository
	billboardRepo repository.BillboardRepository
	paymentRepo   repository.PaymentRepository
	txRepo        repository.TransactionRepository
	ledgerRepo    repository.LedgerRepository
	notifRepo     repository.NotificationRepository
	companyRepo   repository.CompanyRepository
	auditRepo     repository.AuditRepository
	fileStore     FileStore
	txManager     repository.TransactionManager
	hub           *ws.Hub
}

func NewDocumentService(
	docRepo repository.DocumentRepository,
	clientRepo repository.ClientRepository,
	supplierRepo repository.SupplierRepository,
	projectRepo repository.ProjectRepository,
	productRepo repository.ProductRepository,
	billboardRepo repository.BillboardRepository,
	paymentRepo repository.PaymentRepository,
	txRepo repository.TransactionRepository,
	ledgerRepo repository.LedgerRepository,
	notifRepo repository.NotificationRepository,
	companyRepo repository.CompanyRepository,
	auditRepo repository.AuditRepository,
	fileStore FileStore,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) DocumentService {
	return &documentService{
		docRepo:       docRepo,
		clientRepo:    clientRepo,
		supplierRepo:  supplierRepo,
		projectRepo:   projectRepo,
		productRepo:   productRepo,
		billboardRepo: billboardRepo,
		paymentRepo:   paymentRepo,
		txRepo:        txRepo,
		ledgerRepo:    ledgerRepo,
		notifRepo:     notifRepo,
		companyRepo:   companyRepo,
		auditRepo:     auditRepo,
		fileStore:     fileStore,
		txManager:     txManager,
		hub:           hub,
	}
}

// --- Implementation ---

func (s *documentService) Create(ctx context.Context, userID string, req CreateDocumentRequest) (*model.Document, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	doc := model.Document{
		Kind:         req.Kind,
		CompanyID:    companyID,
		AmountType:   orDefault(req.AmountType, model.AmountTypeTTC),
		DiscountType: orDefault(req.DiscountType, model.DiscountTypePercent),
		Note:         req.Note,
	}

	if err := s.bindCounterparty(ctx, &doc, req.ClientID, req.SupplierID, req.ProjectID); err != nil {
		return nil, err
	}

	items, err := buildItems(req.Items, company.Currency)
	if err != nil {
		return nil, err
	}
	doc.Items = items

	doc.Discount, err = parseDecimal(req.Discount)
	if err != nil {
		return nil, fmt.Errorf("invalid discount: %w", err)
	}
	doc.TotalHT, doc.TotalTTC = computeTotals(items, doc.Discount, doc.DiscountType, company.VATRate)

	payee, err := parseDecimal(req.Payee)
	if err != nil {
		return nil, fmt.Errorf("invalid payee: %w", err)
	}
	if payee.IsPositive() {
		if payee.GreaterThan(doc.Total()) {
			return nil, ledger.ErrExceedsBalance
		}
		doc.Payee = payee
		doc.IsPaid = ledger.Settled(doc.Total(), payee)
	}

	for _, p := range req.FilePaths {
		doc.Files = append(doc.Files, model.DocumentFile{Path: p})
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkBillboardConflicts(txCtx, doc.Items, nil); err != nil {
			return err
		}

		number, err := s.docRepo.NextNumber(txCtx, companyID, doc.Kind)
		if err != nil {
			return fmt.Errorf("failed to allocate document number: %w", err)
		}
		doc.Number = number
		doc.Reference = referenceFor(doc.Kind, number)

		if err := s.docRepo.Create(txCtx, &doc); err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}

		eff := ledger.EffectOf(&doc)
		if err := s.applyEffect(txCtx, eff, doc.ID, nil, model.LedgerReasonDocumentCreate); err != nil {
			return err
		}

		if doc.Payee.IsPositive() {
			payment := &model.Payment{
				DocumentID: doc.ID,
				Amount:     doc.Payee,
				Mode:       orDefault(req.PaymentMode, "CASH"),
				PaidAt:     time.Now(),
			}
			if err := s.paymentRepo.Create(txCtx, payment); err != nil {
				return fmt.Errorf("failed to record initial payment: %w", err)
			}
		}

		if err := s.notify(txCtx, companyID, model.NotifTypeDocument,
			fmt.Sprintf("Création du document %s", doc.Reference)); err != nil {
			return err
		}

		return s.audit(txCtx, userID, model.ActionCreateDocument, doc.ID.String(), doc.Reference, map[string]interface{}{
			"kind":      doc.Kind,
			"reference": doc.Reference,
			"total":     doc.Total().String(),
			"payee":     doc.Payee.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ws.EventDocumentCreated, doc.ID.String(), doc.Reference)

	return s.docRepo.FindByIDWithRelations(ctx, doc.ID)
}

func (s *documentService) Update(ctx context.Context, userID string, id string, req UpdateDocumentRequest) (*model.Document, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid document id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.docRepo.FindByIDForUpdate(txCtx, docID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("document: %w", ErrNotFound)
			}
			return fmt.Errorf("failed to lock document: %w", err)
		}

		doc, err := s.docRepo.FindByID(txCtx, docID)
		if err != nil {
			return fmt.Errorf("failed to load document: %w", err)
		}

		if doc.IsPaid {
			return ErrDocumentPaid
		}

		financial := len(req.Items) > 0 || req.Discount != "" || req.AmountType != "" ||
			req.ClientID != "" || req.SupplierID != "" || req.ProjectID != ""

		if !doc.Payee.IsZero() && financial {
			// Once money moved, the historical aggregates stay untouched.
			return ErrHasSettlements
		}

		if financial {
			company, err := s.companyRepo.FindByID(txCtx, doc.CompanyID)
			if err != nil {
				return fmt.Errorf("failed to load company: %w", err)
			}

			// Roll back the original effect before recomputing.
			if err := s.applyEffect(txCtx, ledger.EffectOf(doc).Reverse(), doc.ID, nil, model.LedgerReasonDocumentReverse); err != nil {
				return err
			}

			if err := s.bindCounterparty(txCtx, doc, req.ClientID, req.SupplierID, req.ProjectID); err != nil {
				return err
			}

			// Absent items mean "keep the existing lines": only a payload
			// that actually carries lines replaces them.
			items := doc.Items
			if len(req.Items) > 0 {
				items, err = buildItems(req.Items, company.Currency)
				if err != nil {
					return err
				}
				if err := s.checkBillboardConflicts(txCtx, items, &doc.ID); err != nil {
					return err
				}
				if err := s.docRepo.ReplaceItems(txCtx, doc.ID, items); err != nil {
					return fmt.Errorf("failed to replace items: %w", err)
				}
			}
			doc.Items = items

			if req.AmountType != "" {
				doc.AmountType = req.AmountType
			}
			if req.DiscountType != "" {
				doc.DiscountType = req.DiscountType
			}
			if req.Discount != "" {
				doc.Discount, err = parseDecimal(req.Discount)
				if err != nil {
					return fmt.Errorf("invalid discount: %w", err)
				}
			}
			doc.TotalHT, doc.TotalTTC = computeTotals(items, doc.Discount, doc.DiscountType, company.VATRate)

			if err := s.applyEffect(txCtx, ledger.EffectOf(doc), doc.ID, nil, model.LedgerReasonDocumentCreate); err != nil {
				return err
			}
		}

		if req.Note != nil {
			doc.Note = *req.Note
		}
		if req.IsCompleted != nil {
			doc.IsCompleted = *req.IsCompleted
		}
		if req.FilePaths != nil {
			kept := make(map[string]bool, len(req.FilePaths))
			files := make([]model.DocumentFile, 0, len(req.FilePaths))
			for _, p := range req.FilePaths {
				kept[p] = true
				files = append(files, model.DocumentFile{Path: p})
			}
			for _, f := range doc.Files {
				if !kept[f.Path] {
					_ = s.fileStore.Remove(f.Path)
				}
			}
			if err := s.docRepo.ReplaceFiles(txCtx, doc.ID, files); err != nil {
				return fmt.Errorf("failed to replace files: %w", err)
			}
		}

		doc.Items = nil // already persisted via ReplaceItems
		doc.Files = nil
		if err := s.docRepo.Update(txCtx, doc); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}

		return s.audit(txCtx, userID, model.ActionUpdateDocument, doc.ID.String(), doc.Reference, map[string]interface{}{
			"reference": doc.Reference,
			"financial": financial,
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ws.EventDocumentUpdated, id, "")

	return s.docRepo.FindByIDWithRelations(ctx, docID)
}

func (s *documentService) Delete(ctx context.Context, userID string, id string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid document id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.deleteOne(txCtx, userID, docID)
	})
	if err != nil {
		return err
	}

	s.broadcast(ws.EventDocumentDeleted, id, "")
	return nil
}

// BulkDelete removes several documents atomically: if any of them is blocked
// by a settlement, none is deleted.
func (s *documentService) BulkDelete(ctx context.Context, userID string, ids []string) error {
	docIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return fmt.Errorf("invalid document id %q: %w", id, err)
		}
		docIDs = append(docIDs, parsed)
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, docID := range docIDs {
			if err := s.deleteOne(txCtx, userID, docID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range ids {
		s.broadcast(ws.EventDocumentDeleted, id, "")
	}
	return nil
}

func (s *documentService) deleteOne(txCtx context.Context, userID string, docID uuid.UUID) error {
	if _, err := s.docRepo.FindByIDForUpdate(txCtx, docID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("document: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to lock document: %w", err)
	}

	doc, err := s.docRepo.FindByID(txCtx, docID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	payments, err := s.paymentRepo.CountByDocument(txCtx, docID)
	if err != nil {
		return fmt.Errorf("failed to count payments: %w", err)
	}
	settlements, err := s.txRepo.CountByDocument(txCtx, docID)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}
	if payments > 0 || settlements > 0 || !doc.Payee.IsZero() {
		return ErrHasSettlements
	}

	if err := s.applyEffect(txCtx, ledger.EffectOf(doc).Reverse(), doc.ID, nil, model.LedgerReasonDocumentReverse); err != nil {
		return err
	}

	if err := s.docRepo.DeleteItems(txCtx, docID); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if err := s.docRepo.DeleteFiles(txCtx, docID); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	if err := s.docRepo.Delete(txCtx, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	for _, f := range doc.Files {
		// Best effort: a file already gone must not block the delete.
		_ = s.fileStore.Remove(f.Path)
	}

	if err := s.notify(txCtx, doc.CompanyID, model.NotifTypeDocument,
		fmt.Sprintf("Suppression du document %s", doc.Reference)); err != nil {
		return err
	}

	return s.audit(txCtx, userID, model.ActionDeleteDocument, docID.String(), doc.Reference, map[string]interface{}{
		"reference": doc.Reference,
		"kind":      doc.Kind,
	})
}

// Duplicate clones a document under a fresh number, optionally converting it
// to another kind (typically quote to invoice). Lines are cloned in the
// IGNORE state: the clone carries the figures but re-commits no stock and no
// billboard window. Monetary posting still happens for the clone's own kind.
func (s *documentService) Duplicate(ctx context.Context, userID string, id string, req DuplicateDocumentRequest) (*model.Document, error) {
	srcID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid document id: %w", err)
	}

	src, err := s.docRepo.FindByID(ctx, srcID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	kind := src.Kind
	if req.Kind != "" {
		kind = req.Kind
	}

	clone := model.Document{
		Kind:                kind,
		CompanyID:           src.CompanyID,
		ClientID:            src.ClientID,
		SupplierID:          src.SupplierID,
		ProjectID:           src.ProjectID,
		AmountType:          src.AmountType,
		Discount:            src.Discount,
		DiscountType:        src.DiscountType,
		TotalHT:             src.TotalHT,
		TotalTTC:            src.TotalTTC,
		Note:                src.Note,
		FromRecordID:        &src.ID,
		FromRecordReference: src.Reference,
	}

	for _, item := range src.Items {
		clone.Items = append(clone.Items, model.DocumentItem{
			ItemType:         item.ItemType,
			BillboardID:      item.BillboardID,
			ProductServiceID: item.ProductServiceID,
			Name:             item.Name,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			DiscountedPrice:  item.DiscountedPrice,
			Discount:         item.Discount,
			DiscountType:     item.DiscountType,
			Currency:         item.Currency,
			LocationStart:    item.LocationStart,
			LocationEnd:      item.LocationEnd,
			State:            model.ItemStateIgnore,
		})
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Attachments are copied to their own storage paths: deleting either
		// document later must not strand the other one's files.
		for _, f := range src.Files {
			copied, err := s.fileStore.Copy(f.Path)
			if err != nil {
				return fmt.Errorf("failed to copy attachment: %w", err)
			}
			clone.Files = append(clone.Files, model.DocumentFile{Path: copied})
		}

		number, err := s.docRepo.NextNumber(txCtx, clone.CompanyID, clone.Kind)
		if err != nil {
			return fmt.Errorf("failed to allocate document number: %w", err)
		}
		clone.Number = number
		clone.Reference = referenceFor(clone.Kind, number)

		if err := s.docRepo.Create(txCtx, &clone); err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}

		if err := s.applyEffect(txCtx, ledger.EffectOf(&clone), clone.ID, nil, model.LedgerReasonDocumentCreate); err != nil {
			return err
		}

		if err := s.notify(txCtx, clone.CompanyID, model.NotifTypeDocument,
			fmt.Sprintf("Création du document %s depuis %s", clone.Reference, src.Reference)); err != nil {
			return err
		}

		return s.audit(txCtx, userID, model.ActionDuplicateDocument, clone.ID.String(), clone.Reference, map[string]interface{}{
			"from_reference": src.Reference,
			"reference":      clone.Reference,
			"kind":           clone.Kind,
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ws.EventDocumentCreated, clone.ID.String(), clone.Reference)

	return s.docRepo.FindByIDWithRelations(ctx, clone.ID)
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid document id: %w", err)
	}
	doc, err := s.docRepo.FindByIDWithRelations(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, filter DocumentFilter) ([]model.Document, int64, error) {
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

	docs, total, err := s.docRepo.List(ctx, repository.DocumentListFilter{
		CompanyID: companyID,
		Kind:      filter.Kind,
		Paid:      filter.Paid,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, total, nil
}

func (s *documentService) NextReference(ctx context.Context, companyID, kind string) (NextReferenceResponse, error) {
	parsed, err := uuid.Parse(companyID)
	if err != nil {
		return NextReferenceResponse{}, fmt.Errorf("invalid company_id: %w", err)
	}
	number, err := s.docRepo.NextNumber(ctx, parsed, kind)
	if err != nil {
		return NextReferenceResponse{}, fmt.Errorf("failed to compute next number: %w", err)
	}
	return NextReferenceResponse{Number: number, Reference: referenceFor(kind, number)}, nil
}

// --- Effect application ---

// applyEffect pushes the signed deltas of eff onto the stored aggregates and
// journals every movement. Must run inside a transaction context.
func (s *documentService) applyEffect(txCtx context.Context, eff ledger.DocumentEffect, docID uuid.UUID, txID *uuid.UUID, reason string) error {
	var entries []model.LedgerEntry

	if eff.ClientID != nil && (!eff.DueDelta.IsZero() || !eff.PaidDelta.IsZero()) {
		if err := s.clientRepo.AdjustBalances(txCtx, *eff.ClientID, eff.DueDelta, eff.PaidDelta); err != nil {
			return fmt.Errorf("failed to adjust client balances: %w", err)
		}
		if !eff.DueDelta.IsZero() {
			entries = append(entries, model.LedgerEntry{
				Account: model.LedgerClientDue, SubjectID: *eff.ClientID,
				DocumentID: &docID, TransactionID: txID, Amount: eff.DueDelta, Reason: reason,
			})
		}
		if !eff.PaidDelta.IsZero() {
			entries = append(entries, model.LedgerEntry{
				Account: model.LedgerClientPaid, SubjectID: *eff.ClientID,
				DocumentID: &docID, TransactionID: txID, Amount: eff.PaidDelta, Reason: reason,
			})
		}
	}

	if eff.SupplierID != nil && (!eff.DueDelta.IsZero() || !eff.PaidDelta.IsZero()) {
		if err := s.supplierRepo.AdjustBalances(txCtx, *eff.SupplierID, eff.DueDelta, eff.PaidDelta); err != nil {
			return fmt.Errorf("failed to adjust supplier balances: %w", err)
		}
		if !eff.DueDelta.IsZero() {
			entries = append(entries, model.LedgerEntry{
				Account: model.LedgerSupplierDue, SubjectID: *eff.SupplierID,
				DocumentID: &docID, TransactionID: txID, Amount: eff.DueDelta, Reason: reason,
			})
		}
		if !eff.PaidDelta.IsZero() {
			entries = append(entries, model.LedgerEntry{
				Account: model.LedgerSupplierPaid, SubjectID: *eff.SupplierID,
				DocumentID: &docID, TransactionID: txID, Amount: eff.PaidDelta, Reason: reason,
			})
		}
	}

	if eff.ProjectID != nil && (!eff.ProjectAmountDelta.IsZero() || !eff.ProjectBalanceDelta.IsZero()) {
		if err := s.projectRepo.AdjustAggregates(txCtx, *eff.ProjectID, eff.ProjectAmountDelta, eff.ProjectBalanceDelta); err != nil {
			return fmt.Errorf("failed to adjust project aggregates: %w", err)
		}
		if !eff.ProjectAmountDelta.IsZero() {
			entries = append(entries, model.LedgerEntry{
				Account: model.LedgerProjectAmount, SubjectID: *eff.ProjectID,
				DocumentID: &docID, TransactionID: txID, Amount: eff.ProjectAmountDelta, Reason: reason,
			})
		}
		if !eff.ProjectBalanceDelta.IsZero() {
			entries = append(entries, model.LedgerEntry{
				Account: model.LedgerProjectBalance, SubjectID: *eff.ProjectID,
				DocumentID: &docID, TransactionID: txID, Amount: eff.ProjectBalanceDelta, Reason: reason,
			})
		}
	}

	for productID, delta := range eff.StockDeltas {
		if delta == 0 {
			continue
		}
		product, err := s.productRepo.FindByIDForUpdate(txCtx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %s: %w", productID, ErrNotFound)
			}
			return fmt.Errorf("failed to lock product: %w", err)
		}
		if product.Type == model.CatalogTypeProduct && product.Quantity+delta < 0 {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Designation)
		}
		if err := s.productRepo.AdjustQuantity(txCtx, productID, delta); err != nil {
			return fmt.Errorf("failed to adjust stock: %w", err)
		}
		entries = append(entries, model.LedgerEntry{
			Account: model.LedgerStock, SubjectID: productID,
			DocumentID: &docID, TransactionID: txID,
			Amount: decimal.NewFromInt(int64(delta)), Reason: reason,
		})

		if product.Type == model.CatalogTypeProduct && product.Quantity+delta <= lowStockThreshold {
			if err := s.notify(txCtx, product.CompanyID, model.NotifTypeLowStock,
				fmt.Sprintf("Stock faible pour %s (%d restants)", product.Designation, product.Quantity+delta)); err != nil {
				return err
			}
		}
	}

	if err := s.ledgerRepo.CreateBatch(txCtx, entries); err != nil {
		return fmt.Errorf("failed to journal ledger entries: %w", err)
	}
	return nil
}

const lowStockThreshold = 5

// checkBillboardConflicts scans committed reservations for every APPROVED
// billboard line and rejects the first overlapping window. Touching
// boundaries (one rental ends the day the next starts) are allowed.
func (s *documentService) checkBillboardConflicts(txCtx context.Context, items []model.DocumentItem, excludeDocID *uuid.UUID) error {
	var billboardIDs []uuid.UUID
	for _, item := range items {
		if item.State == model.ItemStateApproved && item.BillboardID != nil &&
			item.LocationStart != nil && item.LocationEnd != nil {
			billboardIDs = append(billboardIDs, *item.BillboardID)
		}
	}
	if len(billboardIDs) == 0 {
		return nil
	}

	reserved, err := s.billboardRepo.FindReservations(txCtx, billboardIDs, excludeDocID)
	if err != nil {
		return fmt.Errorf("failed to scan reservations: %w", err)
	}

	for _, item := range items {
		if item.State != model.ItemStateApproved || item.BillboardID == nil ||
			item.LocationStart == nil || item.LocationEnd == nil {
			continue
		}
		for _, r := range reserved {
			if r.BillboardID == nil || *r.BillboardID != *item.BillboardID {
				continue
			}
			if ledger.RangesOverlap(*item.LocationStart, *item.LocationEnd, *r.LocationStart, *r.LocationEnd) {
				return fmt.Errorf("%w: %s", ErrBillboardUnavailable, item.Name)
			}
		}
	}
	return nil
}

// --- Helpers ---

func (s *documentService) bindCounterparty(ctx context.Context, doc *model.Document, clientID, supplierID, projectID string) error {
	if doc.IsPurchase() {
		if supplierID == "" {
			return errors.New("purchase orders require a supplier_id")
		}
		parsed, err := uuid.Parse(supplierID)
		if err != nil {
			return fmt.Errorf("invalid supplier_id: %w", err)
		}
		if _, err := s.supplierRepo.FindByID(ctx, parsed); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("supplier: %w", ErrNotFound)
			}
			return fmt.Errorf("failed to load supplier: %w", err)
		}
		doc.SupplierID = &parsed
		doc.ClientID = nil
	} else {
		if clientID == "" {
			return errors.New("sales documents require a client_id")
		}
		parsed, err := uuid.Parse(clientID)
		if err != nil {
			return fmt.Errorf("invalid client_id: %w", err)
		}
		if _, err := s.clientRepo.FindByID(ctx, parsed); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("client: %w", ErrNotFound)
			}
			return fmt.Errorf("failed to load client: %w", err)
		}
		doc.ClientID = &parsed
		doc.SupplierID = nil
	}

	if projectID != "" {
		parsed, err := uuid.Parse(projectID)
		if err != nil {
			return fmt.Errorf("invalid project_id: %w", err)
		}
		if _, err := s.projectRepo.FindByID(ctx, parsed); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("project: %w", ErrNotFound)
			}
			return fmt.Errorf("failed to load project: %w", err)
		}
		doc.ProjectID = &parsed
	}
	return nil
}

func (s *documentService) notify(txCtx context.Context, companyID uuid.UUID, notifType, message string) error {
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

func (s *documentService) audit(txCtx context.Context, userID, action, entityID, entityName string, details map[string]interface{}) error {
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

func (s *documentService) broadcast(name, id, reference string) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(ws.Event{Name: name, ID: id, Label: reference})
}

func buildItems(reqs []DocumentItemRequest, currency string) ([]model.DocumentItem, error) {
	items := make([]model.DocumentItem, 0, len(reqs))
	for i, r := range reqs {
		item := model.DocumentItem{
			ItemType:     r.ItemType,
			Name:         r.Name,
			Quantity:     r.Quantity,
			DiscountType: orDefault(r.DiscountType, model.DiscountTypePercent),
			Currency:     orDefault(r.Currency, currency),
			State:        orDefault(r.State, model.ItemStateApproved),
		}

		unitPrice, err := decimal.NewFromString(r.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("item %d: invalid unit_price: %w", i, err)
		}
		item.UnitPrice = unitPrice

		item.Discount, err = parseDecimal(r.Discount)
		if err != nil {
			return nil, fmt.Errorf("item %d: invalid discount: %w", i, err)
		}
		item.DiscountedPrice = lineTotal(unitPrice, r.Quantity, item.Discount, item.DiscountType)

		switch r.ItemType {
		case model.ItemTypeBillboard:
			if r.BillboardID == "" {
				return nil, fmt.Errorf("item %d: billboard items require billboard_id", i)
			}
			parsed, err := uuid.Parse(r.BillboardID)
			if err != nil {
				return nil, fmt.Errorf("item %d: invalid billboard_id: %w", i, err)
			}
			item.BillboardID = &parsed

			if (r.LocationStart == "") != (r.LocationEnd == "") {
				return nil, fmt.Errorf("item %d: rental dates must be provided together", i)
			}
			if r.LocationStart != "" {
				start, err := time.Parse("2006-01-02", r.LocationStart)
				if err != nil {
					return nil, fmt.Errorf("item %d: invalid location_start: %w", i, err)
				}
				end, err := time.Parse("2006-01-02", r.LocationEnd)
				if err != nil {
					return nil, fmt.Errorf("item %d: invalid location_end: %w", i, err)
				}
				if !start.Before(end) {
					return nil, fmt.Errorf("item %d: location_start must precede location_end", i)
				}
				item.LocationStart = &start
				item.LocationEnd = &end
			}
		case model.ItemTypeProduct, model.ItemTypeService:
			if r.ProductServiceID != "" {
				parsed, err := uuid.Parse(r.ProductServiceID)
				if err != nil {
					return nil, fmt.Errorf("item %d: invalid product_service_id: %w", i, err)
				}
				item.ProductServiceID = &parsed
			}
		}

		items = append(items, item)
	}
	return items, nil
}

func lineTotal(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal, discountType string) decimal.Decimal {
	base := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if discount.IsZero() {
		return base
	}
	if discountType == model.DiscountTypePercent {
		return base.Mul(decimal.NewFromInt(100).Sub(discount)).Div(decimal.NewFromInt(100))
	}
	return base.Sub(discount)
}

func computeTotals(items []model.DocumentItem, discount decimal.Decimal, discountType string, vatRate decimal.Decimal) (ht, ttc decimal.Decimal) {
	for _, item := range items {
		ht = ht.Add(item.DiscountedPrice)
	}
	if !discount.IsZero() {
		if discountType == model.DiscountTypePercent {
			ht = ht.Mul(decimal.NewFromInt(100).Sub(discount)).Div(decimal.NewFromInt(100))
		} else {
			ht = ht.Sub(discount)
		}
	}
	ttc = ht.Mul(decimal.NewFromInt(1).Add(vatRate)).Round(4)
	return ht, ttc
}

// referenceFor formats the human reference for a document number, e.g.
// FAC-2025-00012 for the twelfth invoice of the company.
func referenceFor(kind string, number int) string {
	prefix := "DOC"
	switch kind {
	case model.DocKindInvoice:
		prefix = "FAC"
	case model.DocKindQuote:
		prefix = "DEV"
	case model.DocKindDeliveryNote:
		prefix = "BL"
	case model.DocKindPurchaseOrder:
		prefix = "BC"
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, time.Now().Year(), number)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
