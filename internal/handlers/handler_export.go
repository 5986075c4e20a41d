package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	portssvc "github.com/nyasatech/expense_request_app/internal/core/ports/services"
	"github.com/nyasatech/expense_request_app/internal/middleware"
)

const (
	exportSheetName = "Approved Requests"
	exportFileName  = "approved-requests.xlsx"
)

var exportHeaders = []string{"Requested By", "Amount", "Approved By", "Purpose", "Date"}

// exportHandler streams the approved-requests workbook.
type exportHandler struct {
	exportService portssvc.ExportSvcFacade
}

func newExportHandler(es portssvc.ExportSvcFacade) *exportHandler {
	return &exportHandler{exportService: es}
}

// registerExportRoutes registers the export route.
func registerExportRoutes(rg *gin.RouterGroup, exportService portssvc.ExportSvcFacade) {
	h := newExportHandler(exportService)
	rg.GET("/requests/export", h.exportApprovedRequests)
}

// exportApprovedRequests godoc
// @Summary Export approved requests
// @Description Downloads the approved requests visible to the caller as an Excel workbook.
// @Tags requests
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /requests/export [get]
func (h *exportHandler) exportApprovedRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	rows, err := h.exportService.ExportApprovedRequests(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err, "Failed to export requests")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		logger.Error("Failed to create sheet", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build workbook"})
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(exportSheetName, cell, header)
	}

	for i, row := range rows {
		values := []string{row.RequesterName, row.AmountFormatted, row.ApproverName, row.Purpose, row.Date}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(exportSheetName, cell, value)
		}
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		logger.Error("Failed to write workbook", slog.String("error", err.Error()))
		return
	}

	logger.Info("Export downloaded", slog.Int("rows", len(rows)))
}
