package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christkomika7/atlas-crm-sub004/internal/middleware"
	"github.com/christkomika7/atlas-crm-sub004/internal/service"
	"github.com/christkomika7/atlas-crm-sub004/pkg/response"
)

type BackupHandler struct {
	backupService service.BackupService
}

func NewBackupHandler(backupService service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

func (h *BackupHandler) RegisterRoutes(router *gin.RouterGroup) {
	backup := router.Group("/api/backup")
	backup.Use(middleware.RequireRole("admin"))
	{
		backup.GET("/export", h.ExportBackup)
		backup.POST("/import", h.ImportBackup)
	}
}

// ExportBackup streams a zip archive of one CSV file per table
// @Summary      Export backup
// @Description  Streams a zip archive containing one CSV per table, tables ordered so a later import can replay them parents first
// @Tags         backup
// @Security     BearerAuth
// @Produce      application/zip
// @Success      200  {file}    file
// @Failure      500  {object}  response.Response
// @Router       /api/backup/export [get]
func (h *BackupHandler) ExportBackup(c *gin.Context) {
	filename := fmt.Sprintf("backup-%s.zip", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.backupService.Export(c.Request.Context(), currentUserID(c), c.Writer); err != nil {
		// Headers are already out; the truncated stream is the best signal left.
		c.Status(http.StatusInternalServerError)
		return
	}
}

// ImportBackup restores the database from an uploaded zip archive
// @Summary      Import backup
// @Description  Wipes every table and reloads it from the archive's CSV files in one transaction. All-or-nothing
// @Tags         backup
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Backup zip archive"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /api/backup/import [post]
func (h *BackupHandler) ImportBackup(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing backup file: "+err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to open backup file: "+err.Error()))
		return
	}
	defer file.Close()

	if err := h.backupService.Import(c.Request.Context(), currentUserID(c), file, fileHeader.Size); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Backup imported successfully"))
}
