package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christkomika7/atlas-crm-sub004/internal/middleware"
	"github.com/christkomika7/atlas-crm-sub004/internal/service"
	"github.com/christkomika7/atlas-crm-sub004/pkg/pagination"
	"github.com/christkomika7/atlas-crm-sub004/pkg/response"
)

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	txs := router.Group("/api/transactions")
	{
		txs.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListTransactions)
		txs.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetTransaction)
		txs.POST("", middleware.RequireRole("admin", "manager"), h.CreateTransaction)
		txs.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateTransaction)
		txs.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteTransaction)
	}
}

// CreateTransaction records a receipt or disbursement against a document
// @Summary      Create transaction
// @Description  Settles part of a document: the payee accumulates, the counterparty due shrinks and paid grows by the same amount
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTransactionRequest  true  "Create Transaction Payload"
// @Success      201      {object}  response.Response{data=model.Transaction}
// @Failure      400      {object}  response.Response  "Amount exceeds remaining balance"
// @Router       /api/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tx, err := h.transactionService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tx))
}

// ListTransactions returns a paginated list of receipts/disbursements
// @Summary      List transactions
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query     string  true   "Company ID"
// @Param        kind        query     string  false  "RECEIPT or DISBURSEMENT"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	params := pagination.Parse(c)

	txs, total, err := h.transactionService.List(c.Request.Context(), service.TransactionFilter{
		CompanyID: c.Query("company_id"),
		Kind:      c.Query("kind"),
		Page:      params.Page,
		Limit:     params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, "transactions", txs, total, params))
}

// GetTransaction returns one transaction with its document
// @Summary      Get transaction
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response{data=model.Transaction}
// @Failure      404  {object}  response.Response
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	tx, err := h.transactionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}

// UpdateTransaction edits a settlement; an amount change applies as a delta
// @Summary      Update transaction
// @Description  Edits a settlement. An amount change moves document payee and counterparty balances by the difference only, never by a replay
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Transaction ID"
// @Param        payload  body      service.UpdateTransactionRequest  true  "Update Transaction Payload"
// @Success      200      {object}  response.Response{data=model.Transaction}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req service.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tx, err := h.transactionService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}

// DeleteTransaction voids a settlement and restores the balances it moved
// @Summary      Delete transaction
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	if err := h.transactionService.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Transaction deleted successfully"))
}
