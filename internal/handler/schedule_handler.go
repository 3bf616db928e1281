package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/shift_scheduler/internal/domain"
	"github.com/locvowork/shift_scheduler/internal/service"
	"github.com/locvowork/shift_scheduler/internal/service/serviceutils"
)

type ScheduleHandler struct {
	svc *service.ScheduleService
}

func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// ==================== Grid ====================

func (h *ScheduleHandler) GridHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Grid retrieved successfully", newGridResponse(h.svc.Snapshot()))
}

// AssignHandler appends an employee to the cell at /grid/cells/:day/:row.
func (h *ScheduleHandler) AssignHandler(c echo.Context) error {
	day, row, err := cellParams(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid cell", err)
	}

	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	ctx := c.Request().Context()
	if req.EmployeeID == 0 {
		if req.Name == "" {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", fmt.Errorf("employee_id or name is required"))
		}
		assigned, err := h.svc.AssignByName(ctx, day, row, req.Name)
		if err != nil {
			return serviceutils.ResponseError(c, serviceutils.StatusFor(err), "Failed to assign employee", err)
		}
		if !assigned {
			return serviceutils.ResponseSuccess(c, http.StatusOK, "No employee with that name, grid unchanged", newGridResponse(h.svc.Snapshot()))
		}
	} else if err := h.svc.Assign(ctx, day, row, req.EmployeeID); err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFor(err), "Failed to assign employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee assigned successfully", newGridResponse(h.svc.Snapshot()))
}

func (h *ScheduleHandler) ClearCellHandler(c echo.Context) error {
	day, row, err := cellParams(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid cell", err)
	}

	if err := h.svc.ClearCell(c.Request().Context(), day, row); err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFor(err), "Failed to clear cell", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Cell cleared successfully", newGridResponse(h.svc.Snapshot()))
}

func (h *ScheduleHandler) PendingHandler(c echo.Context) error {
	diff, err := h.svc.Pending(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to compute pending changes", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Pending changes retrieved successfully", diff)
}

func (h *ScheduleHandler) SaveHandler(c echo.Context) error {
	diff, err := h.svc.Save(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to save schedule", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Schedule saved successfully", SaveResponse{Added: len(diff.Add), Removed: len(diff.Remove)})
}

// ==================== Time slots ====================

func (h *ScheduleHandler) ListSlotsHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Time slots retrieved successfully", h.svc.Snapshot().Slots())
}

// ReplaceSlotsHandler resizes the grid to the given slot labels. Cells of
// dropped slots are lost on the next save.
func (h *ScheduleHandler) ReplaceSlotsHandler(c echo.Context) error {
	var req SlotsRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	slots, err := domain.ParseTimeSlots(req.Slots)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid time slot", err)
	}

	h.svc.SetSlots(c.Request().Context(), slots)
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Time slots updated successfully", h.svc.Snapshot().Slots())
}

func (h *ScheduleHandler) AddSlotHandler(c echo.Context) error {
	var req SlotRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	slot, err := domain.ParseTimeSlot(req.Start + "-" + req.End)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid time slot", err)
	}
	if err := h.svc.AddSlot(c.Request().Context(), slot); err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFor(err), "Failed to add time slot", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Time slot added successfully", h.svc.Snapshot().Slots())
}

func (h *ScheduleHandler) RemoveSlotHandler(c echo.Context) error {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid row", err)
	}

	if err := h.svc.RemoveSlot(c.Request().Context(), row); err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFor(err), "Failed to remove time slot", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Time slot removed successfully", h.svc.Snapshot().Slots())
}

func (h *ScheduleHandler) SlotOptionsHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Time slot options", SlotOptionsResponse{
		Hours:   domain.HourOptions(),
		Minutes: domain.MinuteOptions(),
	})
}

// ==================== Stored entries ====================

func (h *ScheduleHandler) ListEntriesHandler(c echo.Context) error {
	rows, err := h.svc.Entries(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list schedule", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Schedule listed successfully", rows)
}

func (h *ScheduleHandler) UpsertEntryHandler(c echo.Context) error {
	var req UpsertEntryRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if req.Slot == (domain.TimeSlot{}) {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Time slot is required", domain.ErrInvalidSlot)
	}

	entry, err := h.svc.Upsert(c.Request().Context(), req.EmployeeID, req.Day, req.Slot)
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFor(err), "Failed to store schedule entry", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Schedule entry stored successfully", entry)
}

func (h *ScheduleHandler) ClearHandler(c echo.Context) error {
	if err := h.svc.Clear(c.Request().Context()); err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to clear schedule", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Schedule cleared successfully", nil)
}

func cellParams(c echo.Context) (domain.Day, int, error) {
	day, err := domain.ParseDay(c.Param("day"))
	if err != nil {
		return "", 0, err
	}
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		return "", 0, fmt.Errorf("row: %w", err)
	}
	return day, row, nil
}
