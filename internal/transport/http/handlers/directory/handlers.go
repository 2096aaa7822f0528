package directoryhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/directory"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
)

type Handler struct {
	Store *directory.Store
}

func NewHandler(store *directory.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.handleListEmployees)
	r.Get("/employees/{employeeID}", h.handleGetEmployee)
	r.Get("/leave-types", h.handleListLeaveTypes)
	r.Get("/leave-types/{leaveTypeID}", h.handleGetLeaveType)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employee, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		if errors.Is(err, directory.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, employee, reqID)
}

func (h *Handler) handleListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	types, err := h.Store.ListLeaveTypes(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_type_list_failed", "failed to list leave types", reqID)
		return
	}
	api.Success(w, types, reqID)
}

func (h *Handler) handleGetLeaveType(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	leaveType, err := h.Store.GetLeaveType(r.Context(), chi.URLParam(r, "leaveTypeID"))
	if err != nil {
		if errors.Is(err, directory.ErrLeaveTypeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "leave type not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_type_get_failed", "failed to load leave type", reqID)
		return
	}
	api.Success(w, leaveType, reqID)
}
