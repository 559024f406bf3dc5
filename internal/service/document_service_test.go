package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

type documentTestEnv struct {
	docRepo       *fakeDocumentRepo
	clientRepo    *fakeClientRepo
	supplierRepo  *fakeSupplierRepo
	projectRepo   *fakeProjectRepo
	productRepo   *fakeProductRepo
	billboardRepo *fakeBillboardRepo
	paymentRepo   *fakePaymentRepo
	txRepo        *fakeTransactionRepo
	ledgerRepo    *fakeLedgerRepo
	notifRepo     *fakeNotificationRepo
	companyRepo   *fakeCompanyRepo
	auditRepo     *fakeAuditRepo
	fileStore     *fakeFileStore

	company  *model.Company
	client   *model.Client
	supplier *model.Supplier

	documents    DocumentService
	transactions TransactionService
}

func newDocumentTestEnv() *documentTestEnv {
	env := &documentTestEnv{
		docRepo:       newFakeDocumentRepo(),
		clientRepo:    newFakeClientRepo(),
		supplierRepo:  newFakeSupplierRepo(),
		projectRepo:   newFakeProjectRepo(),
		productRepo:   newFakeProductRepo(),
		billboardRepo: newFakeBillboardRepo(),
		paymentRepo:   newFakePaymentRepo(),
		txRepo:        newFakeTransactionRepo(),
		ledgerRepo:    &fakeLedgerRepo{},
		notifRepo:     &fakeNotificationRepo{},
		companyRepo:   newFakeCompanyRepo(),
		auditRepo:     &fakeAuditRepo{},
		fileStore:     &fakeFileStore{},
	}

	env.company = env.companyRepo.add(&model.Company{
		Name:     "Atlas Media",
		Currency: "XAF",
		VATRate:  decimal.NewFromFloat(0.1925),
	})
	env.client = env.clientRepo.add(&model.Client{
		CompanyID: env.company.ID,
		Name:      "Mbote SARL",
	})
	env.supplier = env.supplierRepo.add(&model.Supplier{
		CompanyID: env.company.ID,
		Name:      "Imprimerie Centrale",
	})

	env.documents = NewDocumentService(
		env.docRepo, env.clientRepo, env.supplierRepo, env.projectRepo,
		env.productRepo, env.billboardRepo, env.paymentRepo, env.txRepo,
		env.ledgerRepo, env.notifRepo, env.companyRepo, env.auditRepo,
		env.fileStore, fakeTxManager{}, nil,
	)
	env.transactions = NewTransactionService(
		env.txRepo, env.paymentRepo, env.docRepo, env.clientRepo,
		env.supplierRepo, env.projectRepo, env.ledgerRepo, env.notifRepo,
		env.auditRepo, fakeTxManager{}, nil,
	)
	return env
}

func (env *documentTestEnv) addProduct(designation string, quantity int) *model.ProductService {
	return env.productRepo.add(&model.ProductService{
		CompanyID:   env.company.ID,
		Reference:   "REF-" + designation,
		Designation: designation,
		Type:        model.CatalogTypeProduct,
		Quantity:    quantity,
		UnitPrice:   decimal.NewFromInt(1000),
	})
}

func productItem(productID string, quantity int) DocumentItemRequest {
	return DocumentItemRequest{
		ItemType:         model.ItemTypeProduct,
		ProductServiceID: productID,
		Name:             "Affiche A0",
		Quantity:         quantity,
		UnitPrice:        "1000",
	}
}

func TestCreateInvoicePostsClientDueAndConsumesStock(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	doc, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Number)
	assert.True(t, strings.HasPrefix(doc.Reference, "FAC-"))
	assert.True(t, doc.TotalHT.Equal(decimal.NewFromInt(5000)))
	assert.False(t, doc.IsPaid)

	assert.True(t, env.client.Due.Equal(decimal.NewFromInt(5000)), "due = %s", env.client.Due)
	assert.True(t, env.client.PaidAmount.IsZero())
	assert.Equal(t, 15, product.Quantity)

	// Every aggregate movement is journaled.
	assert.NotEmpty(t, env.ledgerRepo.entries)
	due, err := env.ledgerRepo.SumByAccount(context.Background(), model.LedgerClientDue, env.client.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5000, due, 0.001)
}

func TestCreateInvoiceNumbersAreSequentialPerKind(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 50)

	req := CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 1)},
	}

	first, err := env.documents.Create(context.Background(), "", req)
	require.NoError(t, err)
	second, err := env.documents.Create(context.Background(), "", req)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, second.Number)

	// A different kind starts its own sequence.
	req.Kind = model.DocKindQuote
	quote, err := env.documents.Create(context.Background(), "", req)
	require.NoError(t, err)
	assert.Equal(t, 1, quote.Number)
	assert.True(t, strings.HasPrefix(quote.Reference, "DEV-"))
}

func TestCreateInvoiceWithInitialPayeeIsSettled(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	doc, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Payee:      "5000",
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)

	assert.True(t, doc.IsPaid)
	assert.True(t, env.client.Due.IsZero(), "due = %s", env.client.Due)
	assert.True(t, env.client.PaidAmount.Equal(decimal.NewFromInt(5000)))

	count, err := env.paymentRepo.CountByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestQuotePostsNothing(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	_, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindQuote,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)

	assert.True(t, env.client.Due.IsZero())
	assert.Equal(t, 20, product.Quantity)
	assert.Empty(t, env.ledgerRepo.entries)
}

func TestCreateInvoiceInsufficientStock(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 3)

	_, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, product.Quantity)
}

func TestCreateInvoiceLowStockNotification(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 8)

	_, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 4)},
	})
	require.NoError(t, err)

	var found bool
	for _, n := range env.notifRepo.notifs {
		if n.Type == model.NotifTypeLowStock {
			found = true
			assert.Contains(t, n.Message, "Affiche A0")
		}
	}
	assert.True(t, found, "expected a low stock notification")
}

func TestCreateInvoiceBillboardConflict(t *testing.T) {
	env := newDocumentTestEnv()
	billboard := env.billboardRepo.add(&model.Billboard{
		CompanyID: env.company.ID,
		Reference: "PNL-001",
		Name:      "Rond-point central",
	})

	// Another document already holds July.
	start := mustDate(t, "2026-07-01")
	end := mustDate(t, "2026-08-01")
	env.billboardRepo.reservations = []model.DocumentItem{{
		BillboardID:   &billboard.ID,
		LocationStart: &start,
		LocationEnd:   &end,
		State:         model.ItemStateApproved,
	}}

	req := CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items: []DocumentItemRequest{{
			ItemType:      model.ItemTypeBillboard,
			BillboardID:   billboard.ID.String(),
			Name:          "Location panneau",
			Quantity:      1,
			UnitPrice:     "250000",
			LocationStart: "2026-07-15",
			LocationEnd:   "2026-09-15",
		}},
	}
	_, err := env.documents.Create(context.Background(), "", req)
	assert.ErrorIs(t, err, ErrBillboardUnavailable)

	// Touching windows do not conflict: the next rental may start the day
	// the previous one ends.
	req.Items[0].LocationStart = "2026-08-01"
	req.Items[0].LocationEnd = "2026-09-01"
	_, err = env.documents.Create(context.Background(), "", req)
	assert.NoError(t, err)
}

func TestPurchaseOrderRestocksAndDeleteRollsBack(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	item := productItem(product.ID.String(), 5)
	item.State = model.ItemStatePurchase

	doc, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindPurchaseOrder,
		CompanyID:  env.company.ID.String(),
		SupplierID: env.supplier.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{item},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc.Reference, "BC-"))
	assert.Equal(t, 25, product.Quantity)
	assert.True(t, env.supplier.Due.Equal(decimal.NewFromInt(5000)))

	require.NoError(t, env.documents.Delete(context.Background(), "", doc.ID.String()))
	assert.Equal(t, 20, product.Quantity)
	assert.True(t, env.supplier.Due.IsZero())
}

func TestUpdatePaidDocumentRejected(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	doc, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Payee:      "5000",
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)
	require.True(t, doc.IsPaid)

	note := "relance"
	_, err = env.documents.Update(context.Background(), "", doc.ID.String(), UpdateDocumentRequest{Note: &note})
	assert.ErrorIs(t, err, ErrDocumentPaid)
}

func TestUpdateSettledDocumentRejectsFinancialEdits(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	doc, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Payee:      "1000",
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)
	require.False(t, doc.IsPaid)

	_, err = env.documents.Update(context.Background(), "", doc.ID.String(), UpdateDocumentRequest{
		Items: []DocumentItemRequest{productItem(product.ID.String(), 2)},
	})
	assert.ErrorIs(t, err, ErrHasSettlements)

	// Non-financial fields stay editable.
	note := "livraison confirmée"
	updated, err := env.documents.Update(context.Background(), "", doc.ID.String(), UpdateDocumentRequest{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, note, updated.Note)
}

func TestUpdateUnsettledDocumentReversesAndReapplies(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	doc, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)
	require.Equal(t, 15, product.Quantity)

	updated, err := env.documents.Update(context.Background(), "", doc.ID.String(), UpdateDocumentRequest{
		ClientID: env.client.ID.String(),
		Items:    []DocumentItemRequest{productItem(product.ID.String(), 2)},
	})
	require.NoError(t, err)

	assert.True(t, updated.TotalHT.Equal(decimal.NewFromInt(2000)))
	assert.True(t, env.client.Due.Equal(decimal.NewFromInt(2000)), "due = %s", env.client.Due)
	assert.Equal(t, 18, product.Quantity)
}

func TestDeleteBlockedBySettlement(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	doc, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Payee:      "1000",
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)

	err = env.documents.Delete(context.Background(), "", doc.ID.String())
	assert.ErrorIs(t, err, ErrHasSettlements)
}

func TestBulkDeleteBlockedBySettlement(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	clean, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 2)},
	})
	require.NoError(t, err)

	settled, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Payee:      "500",
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 3)},
	})
	require.NoError(t, err)

	err = env.documents.BulkDelete(context.Background(), "", []string{clean.ID.String(), settled.ID.String()})
	assert.ErrorIs(t, err, ErrHasSettlements)
}

func TestDuplicateQuoteToInvoice(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	quote, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindQuote,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)
	require.True(t, env.client.Due.IsZero())

	invoice, err := env.documents.Duplicate(context.Background(), "", quote.ID.String(), DuplicateDocumentRequest{
		Kind: model.DocKindInvoice,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(invoice.Reference, "FAC-"))
	assert.Equal(t, quote.Reference, invoice.FromRecordReference)
	assert.True(t, invoice.TotalHT.Equal(quote.TotalHT))

	// The converted invoice posts client due, but its IGNORE lines commit
	// no stock a second time.
	assert.True(t, env.client.Due.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 20, product.Quantity)
	for _, item := range invoice.Items {
		assert.Equal(t, model.ItemStateIgnore, item.State)
	}
}

func TestUpdateDiscountOnlyKeepsItems(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	doc, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)
	require.Equal(t, 15, product.Quantity)

	// A financial edit that carries no items must keep the existing lines.
	updated, err := env.documents.Update(context.Background(), "", doc.ID.String(), UpdateDocumentRequest{
		ClientID: env.client.ID.String(),
		Discount: "10",
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, 5, updated.Items[0].Quantity)
	assert.True(t, updated.TotalHT.Equal(decimal.NewFromInt(4500)), "totalHT = %s", updated.TotalHT)
	assert.True(t, env.client.Due.Equal(decimal.NewFromInt(4500)), "due = %s", env.client.Due)
	assert.Equal(t, 15, product.Quantity, "kept lines reverse and reapply to the same stock")
}

func TestDuplicateCopiesAttachments(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	quote, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindQuote,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 2)},
		FilePaths:  []string{"contrat.pdf"},
	})
	require.NoError(t, err)

	clone, err := env.documents.Duplicate(context.Background(), "", quote.ID.String(), DuplicateDocumentRequest{})
	require.NoError(t, err)

	require.Len(t, clone.Files, 1)
	assert.NotEqual(t, "contrat.pdf", clone.Files[0].Path, "a clone's attachment must live at its own path")
	assert.Equal(t, 1, env.fileStore.copies)
}

func TestDeleteRemovesAttachments(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	quote, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindQuote,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 2)},
		FilePaths:  []string{"contrat.pdf"},
	})
	require.NoError(t, err)

	require.NoError(t, env.documents.Delete(context.Background(), "", quote.ID.String()))
	assert.Contains(t, env.fileStore.removed, "contrat.pdf")
}

func TestUpdateReplacingAttachmentsCleansDropped(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	quote, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindQuote,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 2)},
		FilePaths:  []string{"ancien.pdf"},
	})
	require.NoError(t, err)

	updated, err := env.documents.Update(context.Background(), "", quote.ID.String(), UpdateDocumentRequest{
		FilePaths: []string{"nouveau.pdf"},
	})
	require.NoError(t, err)

	require.Len(t, updated.Files, 1)
	assert.Equal(t, "nouveau.pdf", updated.Files[0].Path)
	assert.Contains(t, env.fileStore.removed, "ancien.pdf")
}

func TestNextReferencePreview(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A0", 20)

	next, err := env.documents.NextReference(context.Background(), env.company.ID.String(), model.DocKindInvoice)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Number)

	_, err = env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 1)},
	})
	require.NoError(t, err)

	next, err = env.documents.NextReference(context.Background(), env.company.ID.String(), model.DocKindInvoice)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Number)
	assert.True(t, strings.HasSuffix(next.Reference, "-00002"))
}
