package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
	"github.com/ledgerly/ledgerly-backend/internal/service"
)

// ExportHandler serves expense exports
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportLinkResponse points at a stored export
type ExportLinkResponse struct {
	URL       string `json:"url"`
	Filename  string `json:"filename"`
	ExpiresAt string `json:"expiresAt"`
}

// ExportExpenses godoc
// @Summary Export expenses
// @Description Streams an xlsx, pdf or csv attachment. With delivery=link the file is stored and a 15 minute download link is returned.
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/pdf,text/csv,json
// @Security BearerAuth
// @Param format query string false "xlsx (default), pdf or csv"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param delivery query string false "attachment (default) or link"
// @Success 200 {object} ExportLinkResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /export/expenses [get]
func (h *ExportHandler) ExportExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	format, err := service.ParseExportFormat(c.QueryParam("format"))
	if err != nil {
		return NewValidationError(c, "Unsupported export format", []ValidationError{
			{Field: "format", Message: "Must be one of: xlsx, pdf, csv"},
		})
	}
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return invalidRequest(c, err)
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return invalidRequest(c, err)
	}

	switch c.QueryParam("delivery") {
	case "", "attachment":
	case "link":
		link, err := h.exportService.ExportToStorage(c.Request().Context(), userID, format, from, to)
		if err != nil {
			return respondError(c, err, "Failed to export expenses")
		}
		return c.JSON(http.StatusOK, ExportLinkResponse{
			URL:       link.URL,
			Filename:  link.Filename,
			ExpiresAt: link.ExpiresAt.Format(time.RFC3339),
		})
	default:
		return NewValidationError(c, "Invalid delivery", []ValidationError{
			{Field: "delivery", Message: "Must be one of: attachment, link"},
		})
	}

	file, err := h.exportService.Export(c.Request().Context(), userID, format, from, to)
	if err != nil {
		return respondError(c, err, "Failed to export expenses")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}
