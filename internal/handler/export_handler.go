package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/shift_scheduler/internal/service"
	"github.com/locvowork/shift_scheduler/internal/service/serviceutils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportHandler writes a workbook on the local disk, overwriting any file at the path.
func (h *ExportHandler) ExportHandler(c echo.Context) error {
	var req ExportRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	ctx := c.Request().Context()
	var (
		path string
		err  error
	)
	switch req.Kind {
	case "", "grid":
		path, err = h.svc.ExportGrid(ctx, req.Path)
	case "rows":
		path, err = h.svc.ExportRows(ctx, req.Path)
	default:
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid export kind", fmt.Errorf("unknown kind %q", req.Kind))
	}
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate Excel file", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Schedule exported successfully", ExportResponse{Path: path})
}

func (h *ExportHandler) DownloadHandler(c echo.Context) error {
	data, err := h.svc.Bytes(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate Excel file", err)
	}

	c.Response().Header().Set("Content-Disposition", `attachment; filename="schedule.xlsx"`)
	c.Response().Header().Set("Content-Length", strconv.Itoa(len(data)))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

func (h *ExportHandler) CSVHandler(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.svc.CSV(c.Request().Context(), &buf); err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate CSV", err)
	}

	c.Response().Header().Set("Content-Disposition", `attachment; filename="schedule.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
