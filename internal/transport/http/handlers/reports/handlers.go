package reportshandler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"leavedesk/internal/domain/directory"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/reports"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
)

type Handler struct {
	Reports   *reports.Service
	Leave     *leave.Service
	Directory *directory.Store
}

func NewHandler(reportsSvc *reports.Service, leaveSvc *leave.Service, dir *directory.Store) *Handler {
	return &Handler{Reports: reportsSvc, Leave: leaveSvc, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/balances", h.handleBalanceSummary)
		r.Get("/reconcile", h.handleReconcile)
		r.Get("/usage", h.handleUsageByType)
		r.Get("/balances/{balanceID}/statement.pdf", h.handleStatementPDF)
	})
}

func (h *Handler) yearParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	year := strings.TrimSpace(r.URL.Query().Get("year"))
	if year == "" {
		api.Fail(w, http.StatusBadRequest, "missing_year", "year query parameter is required", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return year, true
}

func (h *Handler) handleBalanceSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	rows, err := h.Reports.BalanceSummary(r.Context(), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build balance summary", reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	rows, err := h.Reports.Reconcile(r.Context(), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to reconcile ledger", reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleUsageByType(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	rows, err := h.Reports.UsageByType(r.Context(), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build usage report", reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleStatementPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	balanceID := chi.URLParam(r, "balanceID")

	balance, err := h.Leave.GetBalance(r.Context(), balanceID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "balance not found", reqID)
		return
	}

	employeeName := balance.EmployeeID
	if emp, err := h.Directory.GetEmployee(r.Context(), balance.EmployeeID); err == nil {
		employeeName = emp.FirstName + " " + emp.LastName
	}
	leaveTypeName := balance.LeaveTypeID
	if lt, err := h.Directory.GetLeaveType(r.Context(), balance.LeaveTypeID); err == nil {
		leaveTypeName = lt.Name
	}

	lines, err := h.Reports.Statement(r.Context(), balanceID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build statement", reqID)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Balance Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Leave type: %s", leaveTypeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Year: %s", balance.Year))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Remaining: %s days", balance.Remaining.StringFixed(2)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(30, 8, "Date")
	pdf.Cell(35, 8, "Type")
	pdf.Cell(25, 8, "Days")
	pdf.Cell(0, 8, "Remarks")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range lines {
		pdf.Cell(30, 7, line.Date.Format("2006-01-02"))
		pdf.Cell(35, 7, line.Type)
		pdf.Cell(25, 7, line.Days.StringFixed(2))
		remarks := line.Remarks
		if len(remarks) > 60 {
			remarks = remarks[:60]
		}
		pdf.Cell(0, 7, remarks)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		slog.Warn("statement pdf render failed", "balanceId", balanceID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render statement", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=statement-%s.pdf", balanceID))
	_, _ = w.Write(buf.Bytes())
}
