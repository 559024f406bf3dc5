// Package ledger is the reconciliation core of the application: it computes,
// as pure values, the effect a financial document or settlement has on the
// running aggregates (counterparty due/paid, project amount/balance, catalog
// stock). Services apply or reverse these effects inside one database
// transaction and journal every movement as a LedgerEntry row, so aggregates
// can always be re-derived by summation.
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

// DocumentEffect holds the signed deltas a document applies to dependent
// aggregates when it is committed. Reversing a document negates the effect.
type DocumentEffect struct {
	ClientID   *uuid.UUID
	SupplierID *uuid.UUID
	ProjectID  *uuid.UUID

	// Counterparty aggregates
	DueDelta  decimal.Decimal
	PaidDelta decimal.Decimal

	// Project aggregates (only when ProjectID is set)
	ProjectAmountDelta  decimal.Decimal
	ProjectBalanceDelta decimal.Decimal

	// Catalog stock movements keyed by product/service id
	StockDeltas map[uuid.UUID]int
}

// EffectOf computes the aggregate effect of committing doc.
//
// Invoices post the remaining balance to the client's due, any initial payee
// to paid, and consume catalog stock for APPROVED product lines. Purchase
// orders post to the supplier and restock the catalog for PURCHASE lines.
// Quotes and delivery notes carry totals but post nothing until converted.
// Billboard reservations are implicit in the item rows themselves and have no
// aggregate component.
func EffectOf(doc *model.Document) DocumentEffect {
	eff := DocumentEffect{
		ClientID:    doc.ClientID,
		SupplierID:  doc.SupplierID,
		ProjectID:   doc.ProjectID,
		StockDeltas: make(map[uuid.UUID]int),
	}

	total := doc.Total()
	remaining := total.Sub(doc.Payee)

	switch doc.Kind {
	case model.DocKindInvoice:
		eff.DueDelta = remaining
		eff.PaidDelta = doc.Payee
		if doc.ProjectID != nil {
			eff.ProjectAmountDelta = total
			eff.ProjectBalanceDelta = remaining
		}
		for _, item := range doc.Items {
			if consumesStock(item) {
				eff.StockDeltas[*item.ProductServiceID] -= item.Quantity
			}
		}
	case model.DocKindPurchaseOrder:
		eff.DueDelta = remaining
		eff.PaidDelta = doc.Payee
		for _, item := range doc.Items {
			if restocks(item) {
				eff.StockDeltas[*item.ProductServiceID] += item.Quantity
			}
		}
	}

	return eff
}

// Reverse returns the exact negation of the effect. Callers must only reverse
// a document whose payee is zero: once any settlement exists the historical
// aggregates are left untouched.
func (e DocumentEffect) Reverse() DocumentEffect {
	rev := DocumentEffect{
		ClientID:            e.ClientID,
		SupplierID:          e.SupplierID,
		ProjectID:           e.ProjectID,
		DueDelta:            e.DueDelta.Neg(),
		PaidDelta:           e.PaidDelta.Neg(),
		ProjectAmountDelta:  e.ProjectAmountDelta.Neg(),
		ProjectBalanceDelta: e.ProjectBalanceDelta.Neg(),
		StockDeltas:         make(map[uuid.UUID]int, len(e.StockDeltas)),
	}
	for id, qty := range e.StockDeltas {
		rev.StockDeltas[id] = -qty
	}
	return rev
}

// IsZero reports whether the effect moves nothing.
func (e DocumentEffect) IsZero() bool {
	if !e.DueDelta.IsZero() || !e.PaidDelta.IsZero() {
		return false
	}
	if !e.ProjectAmountDelta.IsZero() || !e.ProjectBalanceDelta.IsZero() {
		return false
	}
	for _, qty := range e.StockDeltas {
		if qty != 0 {
			return false
		}
	}
	return true
}

func consumesStock(item model.DocumentItem) bool {
	return item.State == model.ItemStateApproved &&
		item.ItemType == model.ItemTypeProduct &&
		item.ProductServiceID != nil
}

func restocks(item model.DocumentItem) bool {
	return item.State == model.ItemStatePurchase &&
		item.ItemType == model.ItemTypeProduct &&
		item.ProductServiceID != nil
}
