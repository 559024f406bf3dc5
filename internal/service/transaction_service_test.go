package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christkomika7/atlas-crm-sub004/internal/ledger"
	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

// newInvoice creates an unsettled 5000 XAF invoice through the document
// service so the client due aggregate is primed the same way production
// data would be.
func newInvoice(t *testing.T, env *documentTestEnv) *model.Document {
	t.Helper()
	product := env.addProduct("Affiche A1", 50)
	doc, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)
	return doc
}

func TestReceiptSettlesInvoice(t *testing.T) {
	env := newDocumentTestEnv()
	doc := newInvoice(t, env)

	tx, err := env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: doc.ID.String(),
		Amount:     "2000",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TxKindReceipt, tx.Kind)

	reloaded, err := env.docRepo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Payee.Equal(decimal.NewFromInt(2000)))
	assert.False(t, reloaded.IsPaid)

	assert.True(t, env.client.Due.Equal(decimal.NewFromInt(3000)), "due = %s", env.client.Due)
	assert.True(t, env.client.PaidAmount.Equal(decimal.NewFromInt(2000)))

	payment, err := env.paymentRepo.FindByTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(2000)))

	var found bool
	for _, n := range env.notifRepo.notifs {
		if n.Type == model.NotifTypeReceipt {
			found = true
			assert.Contains(t, n.Message, doc.Reference)
		}
	}
	assert.True(t, found, "expected a receipt notification")
}

func TestReceiptFullSettlementFlipsIsPaid(t *testing.T) {
	env := newDocumentTestEnv()
	doc := newInvoice(t, env)

	_, err := env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: doc.ID.String(),
		Amount:     "2000",
	})
	require.NoError(t, err)
	_, err = env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: doc.ID.String(),
		Amount:     "3000",
	})
	require.NoError(t, err)

	reloaded, err := env.docRepo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsPaid)
	assert.True(t, env.client.Due.IsZero())
}

func TestReceiptWithinEpsilonCountsAsSettled(t *testing.T) {
	env := newDocumentTestEnv()
	doc := newInvoice(t, env)

	_, err := env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: doc.ID.String(),
		Amount:     "4999.995",
	})
	require.NoError(t, err)

	reloaded, err := env.docRepo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsPaid, "residual below epsilon must count as settled")
}

func TestReceiptExceedingRemainingRejected(t *testing.T) {
	env := newDocumentTestEnv()
	doc := newInvoice(t, env)

	_, err := env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: doc.ID.String(),
		Amount:     "6000",
	})
	assert.ErrorIs(t, err, ledger.ErrExceedsBalance)
	assert.True(t, env.client.Due.Equal(decimal.NewFromInt(5000)), "a rejected receipt must move nothing")
}

func TestReceiptOnQuoteRejected(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A1", 50)
	quote, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindQuote,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)

	_, err = env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: quote.ID.String(),
		Amount:     "1000",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invoices")
}

func TestDisbursementSettlesPurchaseOrder(t *testing.T) {
	env := newDocumentTestEnv()
	product := env.addProduct("Affiche A1", 10)

	item := productItem(product.ID.String(), 5)
	item.State = model.ItemStatePurchase
	po, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindPurchaseOrder,
		CompanyID:  env.company.ID.String(),
		SupplierID: env.supplier.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{item},
	})
	require.NoError(t, err)
	require.True(t, env.supplier.Due.Equal(decimal.NewFromInt(5000)))

	_, err = env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindDisbursement,
		DocumentID: po.ID.String(),
		Amount:     "5000",
	})
	require.NoError(t, err)

	assert.True(t, env.supplier.Due.IsZero())
	assert.True(t, env.supplier.PaidAmount.Equal(decimal.NewFromInt(5000)))

	var found bool
	for _, n := range env.notifRepo.notifs {
		if n.Type == model.NotifTypeDisbursement {
			found = true
		}
	}
	assert.True(t, found, "expected a disbursement notification")
}

func TestUpdateTransactionAppliesDeltaOnly(t *testing.T) {
	env := newDocumentTestEnv()
	doc := newInvoice(t, env)

	tx, err := env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: doc.ID.String(),
		Amount:     "400",
	})
	require.NoError(t, err)

	updated, err := env.transactions.Update(context.Background(), "", tx.ID.String(), UpdateTransactionRequest{
		Amount: "1000",
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(1000)))

	// 400 then edited to 1000: the document and the client moved by the
	// 600 difference, not by a second full amount.
	reloaded, err := env.docRepo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Payee.Equal(decimal.NewFromInt(1000)), "payee = %s", reloaded.Payee)
	assert.True(t, env.client.Due.Equal(decimal.NewFromInt(4000)), "due = %s", env.client.Due)
	assert.True(t, env.client.PaidAmount.Equal(decimal.NewFromInt(1000)))

	payment, err := env.paymentRepo.FindByTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(1000)))
}

func TestUpdateTransactionCannotOvershoot(t *testing.T) {
	env := newDocumentTestEnv()
	doc := newInvoice(t, env)

	tx, err := env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: doc.ID.String(),
		Amount:     "4000",
	})
	require.NoError(t, err)

	// Headroom is computed as if this settlement never happened: the full
	// total is available to the edit, one franc more is not.
	_, err = env.transactions.Update(context.Background(), "", tx.ID.String(), UpdateTransactionRequest{
		Amount: "5001",
	})
	assert.ErrorIs(t, err, ledger.ErrExceedsBalance)

	_, err = env.transactions.Update(context.Background(), "", tx.ID.String(), UpdateTransactionRequest{
		Amount: "5000",
	})
	assert.NoError(t, err)
}

func TestUpdateTransactionRetargetsDocument(t *testing.T) {
	env := newDocumentTestEnv()
	first := newInvoice(t, env)
	second := newInvoice(t, env)

	tx, err := env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: first.ID.String(),
		Amount:     "2000",
	})
	require.NoError(t, err)

	moved, err := env.transactions.Update(context.Background(), "", tx.ID.String(), UpdateTransactionRequest{
		DocumentID: second.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, second.ID, moved.DocumentID)

	// The old document is released by the old amount, the new one engaged.
	released, err := env.docRepo.FindByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, released.Payee.IsZero(), "old payee = %s", released.Payee)

	engaged, err := env.docRepo.FindByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.True(t, engaged.Payee.Equal(decimal.NewFromInt(2000)), "new payee = %s", engaged.Payee)

	// Same client on both sides: the aggregate movement nets out.
	assert.True(t, env.client.Due.Equal(decimal.NewFromInt(8000)), "due = %s", env.client.Due)
	assert.True(t, env.client.PaidAmount.Equal(decimal.NewFromInt(2000)))

	payment, err := env.paymentRepo.FindByTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, payment.DocumentID, "the payment row follows the settlement")
}

func TestUpdateTransactionRetargetWithNewAmount(t *testing.T) {
	env := newDocumentTestEnv()
	first := newInvoice(t, env)
	second := newInvoice(t, env)

	tx, err := env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: first.ID.String(),
		Amount:     "2000",
	})
	require.NoError(t, err)

	moved, err := env.transactions.Update(context.Background(), "", tx.ID.String(), UpdateTransactionRequest{
		DocumentID: second.ID.String(),
		Amount:     "3000",
	})
	require.NoError(t, err)
	assert.True(t, moved.Amount.Equal(decimal.NewFromInt(3000)))

	released, err := env.docRepo.FindByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, released.Payee.IsZero())

	engaged, err := env.docRepo.FindByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.True(t, engaged.Payee.Equal(decimal.NewFromInt(3000)))

	// Released 2000, engaged 3000: the client nets a further 1000 paid.
	assert.True(t, env.client.Due.Equal(decimal.NewFromInt(7000)), "due = %s", env.client.Due)
	assert.True(t, env.client.PaidAmount.Equal(decimal.NewFromInt(3000)))
}

func TestUpdateTransactionRetargetToQuoteRejected(t *testing.T) {
	env := newDocumentTestEnv()
	invoice := newInvoice(t, env)

	product := env.addProduct("Affiche A1", 50)
	quote, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindQuote,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)

	tx, err := env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: invoice.ID.String(),
		Amount:     "2000",
	})
	require.NoError(t, err)

	_, err = env.transactions.Update(context.Background(), "", tx.ID.String(), UpdateTransactionRequest{
		DocumentID: quote.ID.String(),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invoices")

	// A rejected retarget moves nothing.
	unchanged, err := env.docRepo.FindByID(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.True(t, unchanged.Payee.Equal(decimal.NewFromInt(2000)))
}

func TestDeleteTransactionRestoresBalances(t *testing.T) {
	env := newDocumentTestEnv()
	doc := newInvoice(t, env)

	tx, err := env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: doc.ID.String(),
		Amount:     "2000",
	})
	require.NoError(t, err)

	require.NoError(t, env.transactions.Delete(context.Background(), "", tx.ID.String()))

	reloaded, err := env.docRepo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Payee.IsZero())
	assert.False(t, reloaded.IsPaid)
	assert.True(t, env.client.Due.Equal(decimal.NewFromInt(5000)))
	assert.True(t, env.client.PaidAmount.IsZero())

	_, err = env.paymentRepo.FindByTransaction(context.Background(), tx.ID)
	assert.Error(t, err, "the linked payment must be removed")

	count, err := env.txRepo.CountByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProjectBalanceFollowsSettlements(t *testing.T) {
	env := newDocumentTestEnv()
	project := env.projectRepo.add(&model.Project{
		CompanyID: env.company.ID,
		ClientID:  &env.client.ID,
		Name:      "Campagne rentrée",
		Status:    model.ProjectStatusInProgress,
	})
	product := env.addProduct("Affiche A1", 50)

	doc, err := env.documents.Create(context.Background(), "", CreateDocumentRequest{
		Kind:       model.DocKindInvoice,
		CompanyID:  env.company.ID.String(),
		ClientID:   env.client.ID.String(),
		ProjectID:  project.ID.String(),
		AmountType: model.AmountTypeHT,
		Items:      []DocumentItemRequest{productItem(product.ID.String(), 5)},
	})
	require.NoError(t, err)

	assert.True(t, project.Amount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, project.Balance.Equal(decimal.NewFromInt(5000)))

	_, err = env.transactions.Create(context.Background(), "", CreateTransactionRequest{
		Kind:       model.TxKindReceipt,
		DocumentID: doc.ID.String(),
		Amount:     "2000",
	})
	require.NoError(t, err)

	// Receipts shrink the outstanding balance; the engaged amount stays.
	assert.True(t, project.Amount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, project.Balance.Equal(decimal.NewFromInt(3000)), "balance = %s", project.Balance)
}
