package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	// ErrNotFound covers any entity lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrDocumentPaid rejects edits on a fully settled document.
	ErrDocumentPaid = errors.New("document is fully settled and can no longer be edited")

	// ErrHasSettlements blocks deletion (and financial edits) of a document
	// that payments or transactions still reference.
	ErrHasSettlements = errors.New("document has recorded settlements")

	// ErrBillboardUnavailable signals a rental window collision with an
	// already committed reservation.
	ErrBillboardUnavailable = errors.New("billboard is not available over the requested period")

	// ErrInsufficientStock rejects invoice lines that would drive a product's
	// stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCounterpartyInUse blocks deleting a client or supplier that still
	// has documents attached.
	ErrCounterpartyInUse = errors.New("counterparty still has documents attached")
)
