package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christkomika7/atlas-crm-sub004/internal/service"
	"github.com/christkomika7/atlas-crm-sub004/pkg/response"
)

// respondError maps service sentinel errors onto HTTP statuses. Anything not
// recognized is treated as a bad request: services wrap infrastructure
// failures distinctly enough for logs, and leaking 500s for validation
// errors confuses API clients.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrHasSettlements),
		errors.Is(err, service.ErrDocumentPaid),
		errors.Is(err, service.ErrCounterpartyInUse),
		errors.Is(err, service.ErrBillboardUnavailable),
		errors.Is(err, service.ErrInsufficientStock):
		status = http.StatusConflict
	}
	c.JSON(status, response.Error(status, err.Error()))
}

// currentUserID returns the authenticated user id stored by the auth
// middleware, or an empty string for anonymous contexts.
func currentUserID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	idStr, _ := userID.(string)
	return idStr
}
