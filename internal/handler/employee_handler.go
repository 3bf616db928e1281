package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/shift_scheduler/internal/service"
	"github.com/locvowork/shift_scheduler/internal/service/serviceutils"
)

type EmployeeHandler struct {
	svc *service.EmployeeService
}

func NewEmployeeHandler(svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	var req CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	emp, err := h.svc.Add(c.Request().Context(), req.Name, string(req.Age))
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFor(err), "Failed to create employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Employee created successfully", emp)
}

func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	emp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFor(err), "Failed to get employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee retrieved successfully", emp)
}

func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFor(err), "Failed to delete employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee deleted successfully", nil)
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	employees, err := h.svc.List(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list employees", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees listed successfully", employees)
}

// LookupHandler resolves ?name= to an employee id.
func (h *EmployeeHandler) LookupHandler(c echo.Context) error {
	id, err := h.svc.Lookup(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFor(err), "Failed to look up employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee found", map[string]int64{"id": id})
}
