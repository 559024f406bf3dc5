package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christkomika7/atlas-crm-sub004/internal/middleware"
	"github.com/christkomika7/atlas-crm-sub004/internal/service"
	"github.com/christkomika7/atlas-crm-sub004/pkg/pagination"
	"github.com/christkomika7/atlas-crm-sub004/pkg/response"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/catalog")
	{
		items.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListCatalogItems)
		items.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetCatalogItem)
		items.POST("", middleware.RequireRole("admin", "manager"), h.CreateCatalogItem)
		items.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateCatalogItem)
		items.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteCatalogItem)
	}
}

// CreateCatalogItem registers a product or service
// @Summary      Create catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CatalogItemRequest  true  "Create Catalog Item Payload"
// @Success      201      {object}  response.Response{data=model.ProductService}
// @Failure      400      {object}  response.Response  "Duplicate reference"
// @Router       /api/catalog [post]
func (h *CatalogHandler) CreateCatalogItem(c *gin.Context) {
	var req service.CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListCatalogItems returns a paginated list of products and services
// @Summary      List catalog items
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query     string  true   "Company ID"
// @Param        search      query     string  false  "Search on reference or designation"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/catalog [get]
func (h *CatalogHandler) ListCatalogItems(c *gin.Context) {
	params := pagination.Parse(c)

	items, total, err := h.catalogService.List(c.Request.Context(), c.Query("company_id"), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, "items", items, total, params))
}

// GetCatalogItem returns one product or service
// @Summary      Get catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Catalog Item ID"
// @Success      200  {object}  response.Response{data=model.ProductService}
// @Failure      404  {object}  response.Response
// @Router       /api/catalog/{id} [get]
func (h *CatalogHandler) GetCatalogItem(c *gin.Context) {
	item, err := h.catalogService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateCatalogItem edits a product or service
// @Summary      Update catalog item
// @Description  Edits descriptive fields and price. Stock quantity only moves through documents
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Catalog Item ID"
// @Param        payload  body      service.UpdateCatalogItemRequest  true  "Update Catalog Item Payload"
// @Success      200      {object}  response.Response{data=model.ProductService}
// @Failure      404      {object}  response.Response
// @Router       /api/catalog/{id} [put]
func (h *CatalogHandler) UpdateCatalogItem(c *gin.Context) {
	var req service.UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteCatalogItem removes a product or service
// @Summary      Delete catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Catalog Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/catalog/{id} [delete]
func (h *CatalogHandler) DeleteCatalogItem(c *gin.Context) {
	if err := h.catalogService.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Catalog item deleted successfully"))
}
