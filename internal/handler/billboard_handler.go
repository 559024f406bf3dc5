package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christkomika7/atlas-crm-sub004/internal/middleware"
	"github.com/christkomika7/atlas-crm-sub004/internal/service"
	"github.com/christkomika7/atlas-crm-sub004/pkg/pagination"
	"github.com/christkomika7/atlas-crm-sub004/pkg/response"
)

type BillboardHandler struct {
	billboardService service.BillboardService
}

func NewBillboardHandler(billboardService service.BillboardService) *BillboardHandler {
	return &BillboardHandler{billboardService: billboardService}
}

func (h *BillboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	billboards := router.Group("/api/billboards")
	{
		billboards.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListBillboards)
		billboards.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetBillboard)
		billboards.GET("/:id/availability", middleware.RequireRole("admin", "manager", "staff"), h.CheckAvailability)
		billboards.POST("", middleware.RequireRole("admin", "manager"), h.CreateBillboard)
		billboards.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateBillboard)
		billboards.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteBillboard)
	}
}

// CreateBillboard registers a new advertising space
// @Summary      Create billboard
// @Tags         billboards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BillboardRequest  true  "Create Billboard Payload"
// @Success      201      {object}  response.Response{data=model.Billboard}
// @Failure      400      {object}  response.Response
// @Router       /api/billboards [post]
func (h *BillboardHandler) CreateBillboard(c *gin.Context) {
	var req service.BillboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	billboard, err := h.billboardService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, billboard))
}

// ListBillboards returns a paginated list of billboards
// @Summary      List billboards
// @Tags         billboards
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query     string  true   "Company ID"
// @Param        search      query     string  false  "Search on name, reference or city"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/billboards [get]
func (h *BillboardHandler) ListBillboards(c *gin.Context) {
	params := pagination.Parse(c)

	billboards, total, err := h.billboardService.List(c.Request.Context(), c.Query("company_id"), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, "billboards", billboards, total, params))
}

// GetBillboard returns one billboard
// @Summary      Get billboard
// @Tags         billboards
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Billboard ID"
// @Success      200  {object}  response.Response{data=model.Billboard}
// @Failure      404  {object}  response.Response
// @Router       /api/billboards/{id} [get]
func (h *BillboardHandler) GetBillboard(c *gin.Context) {
	billboard, err := h.billboardService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, billboard))
}

// CheckAvailability reports whether a billboard is free over a window
// @Summary      Check billboard availability
// @Description  Scans committed rentals over [start, end). Touching boundaries do not conflict
// @Tags         billboards
// @Security     BearerAuth
// @Produce      json
// @Param        id                   path      string  true   "Billboard ID"
// @Param        start                query     string  true   "Window start (YYYY-MM-DD)"
// @Param        end                  query     string  true   "Window end (YYYY-MM-DD)"
// @Param        exclude_document_id  query     string  false  "Document to ignore (the one being edited)"
// @Success      200                  {object}  response.Response{data=service.AvailabilityResponse}
// @Failure      400                  {object}  response.Response
// @Router       /api/billboards/{id}/availability [get]
func (h *BillboardHandler) CheckAvailability(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD"))
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD"))
		return
	}

	availability, err := h.billboardService.CheckAvailability(c.Request.Context(), c.Param("id"), start, end, c.Query("exclude_document_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, availability))
}

// UpdateBillboard edits a billboard
// @Summary      Update billboard
// @Tags         billboards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Billboard ID"
// @Param        payload  body      service.BillboardRequest  true  "Update Billboard Payload"
// @Success      200      {object}  response.Response{data=model.Billboard}
// @Failure      404      {object}  response.Response
// @Router       /api/billboards/{id} [put]
func (h *BillboardHandler) UpdateBillboard(c *gin.Context) {
	var req service.BillboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	billboard, err := h.billboardService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, billboard))
}

// DeleteBillboard removes a billboard
// @Summary      Delete billboard
// @Tags         billboards
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Billboard ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/billboards/{id} [delete]
func (h *BillboardHandler) DeleteBillboard(c *gin.Context) {
	if err := h.billboardService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Billboard deleted successfully"))
}
