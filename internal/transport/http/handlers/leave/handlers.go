package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/jobs"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Flow    *leave.Workflow
	Audit   *audit.Service
	Jobs    *jobs.Service
}

func NewHandler(service *leave.Service, flow *leave.Workflow, auditSvc *audit.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Flow: flow, Audit: auditSvc, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Get("/years", h.handleListYearConfigs)
		r.Post("/years", h.handleCreateYearConfig)
		r.Get("/years/active", h.handleActiveYearConfig)
		r.Get("/years/{yearConfigID}", h.handleGetYearConfig)
		r.Put("/years/{yearConfigID}/dates", h.handleUpdateYearConfigDates)

		r.Get("/policies", h.handleListPolicies)
		r.Post("/policies", h.handleCreatePolicy)
		r.Get("/policies/{policyID}", h.handleGetPolicy)
		r.Post("/policies/{policyID}/activate", h.handleActivatePolicy)
		r.Post("/policies/{policyID}/retire", h.handleRetirePolicy)
		r.Get("/policies/{policyID}/eligibility", h.handleCheckEligibility)

		r.Get("/balances", h.handleListBalances)
		r.Get("/balances/{balanceID}", h.handleGetBalance)
		r.Get("/balances/{balanceID}/transactions", h.handleListTransactions)
		r.Post("/balances/{balanceID}/close", h.handleCloseBalance)
		r.Post("/balances/{balanceID}/encash", h.handleEncash)
		r.Post("/balances/{balanceID}/adjust", h.handleAdjust)

		r.Get("/requests", h.handleListRequests)
		r.Post("/requests", h.handleSubmitRequest)
		r.Get("/requests/{requestID}", h.handleGetRequest)
		r.Post("/requests/{requestID}/approve", h.handleApproveRequest)
		r.Post("/requests/{requestID}/reject", h.handleRejectRequest)
		r.Post("/requests/{requestID}/cancel", h.handleCancelRequest)

		r.Post("/rollover/run", h.handleRunRollover)
		r.Get("/rollover/runs", h.handleListRolloverRuns)
	})
}

// failDomain translates the leave package sentinels into the response
// taxonomy: 404 for missing records, 400 for rejected operations, 409 only
// for duplicate years and lost concurrent writes, 500 otherwise.
func failDomain(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, leave.ErrYearConfigNotFound),
		errors.Is(err, leave.ErrLeaveTypeNotFound),
		errors.Is(err, leave.ErrPolicyNotFound),
		errors.Is(err, leave.ErrBalanceNotFound),
		errors.Is(err, leave.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, leave.ErrInvalidDays),
		errors.Is(err, leave.ErrRemarksRequired),
		errors.Is(err, leave.ErrBalanceMismatch),
		errors.Is(err, leave.ErrNotRequestOwner),
		errors.Is(err, leave.ErrInvalidState),
		errors.Is(err, leave.ErrPolicyRetired),
		errors.Is(err, leave.ErrBalanceClosed),
		errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrEncashLimitExceeded):
		api.Fail(w, http.StatusBadRequest, "bad_request", err.Error(), requestID)
	case errors.Is(err, leave.ErrDuplicateYear),
		errors.Is(err, leave.ErrBalanceConflict):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", requestID)
	}
}

// decodeOptional parses a JSON body that callers may omit entirely. An empty
// body leaves dst zeroed; malformed JSON is still an error.
func decodeOptional(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handler) audit(r *http.Request, action, entityType, entityID, outcome string, details any) {
	ctx := r.Context()
	err := h.Audit.Record(ctx, middleware.GetActorID(ctx), action, entityType, entityID, outcome, middleware.GetRequestID(ctx), details)
	if err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

type yearConfigPayload struct {
	CutoffStart string `json:"cutoffStart"`
	CutoffEnd   string `json:"cutoffEnd"`
	Remarks     string `json:"remarks"`
	Active      *bool  `json:"active"`
}

func (h *Handler) handleCreateYearConfig(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload yearConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	start, _ := v.Date("cutoffStart", payload.CutoffStart)
	end, _ := v.Date("cutoffEnd", payload.CutoffEnd)
	v.DateOrder("cutoffStart", start, "cutoffEnd", end)
	if v.Reject(w, reqID) {
		return
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	cfg, err := h.Service.CreateYearConfig(r.Context(), leave.YearConfigInput{
		CutoffStart: start,
		CutoffEnd:   end,
		Remarks:     payload.Remarks,
		Active:      active,
	})
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.year.create", "leave_year_config", cfg.ID, audit.OutcomeSuccess, cfg)
	api.Created(w, cfg, reqID)
}

func (h *Handler) handleListYearConfigs(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	configs, err := h.Service.ListYearConfigs(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "year_list_failed", "failed to list year configs", reqID)
		return
	}
	api.Success(w, configs, reqID)
}

func (h *Handler) handleActiveYearConfig(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", reqID)
			return
		}
		date = parsed
	}

	cfg, err := h.Service.ActiveYearConfig(r.Context(), date)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, cfg, reqID)
}

func (h *Handler) handleGetYearConfig(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	cfg, err := h.Service.GetYearConfig(r.Context(), chi.URLParam(r, "yearConfigID"))
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, cfg, reqID)
}

func (h *Handler) handleUpdateYearConfigDates(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload yearConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	start, _ := v.Date("cutoffStart", payload.CutoffStart)
	end, _ := v.Date("cutoffEnd", payload.CutoffEnd)
	v.DateOrder("cutoffStart", start, "cutoffEnd", end)
	if v.Reject(w, reqID) {
		return
	}

	cfg, err := h.Service.UpdateYearConfigDates(r.Context(), chi.URLParam(r, "yearConfigID"), start, end)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.year.update_dates", "leave_year_config", cfg.ID, audit.OutcomeSuccess, cfg)
	api.Success(w, cfg, reqID)
}

type policyPayload struct {
	LeaveTypeID       string          `json:"leaveTypeId"`
	AnnualEntitlement decimal.Decimal `json:"annualEntitlement"`
	CarryOverLimit    decimal.Decimal `json:"carryOverLimit"`
	EncashLimit       decimal.Decimal `json:"encashLimit"`
	CycleLengthYears  int             `json:"cycleLengthYears"`
	EffectiveDate     string          `json:"effectiveDate"`
	ExpiryDate        string          `json:"expiryDate"`
	MinServiceMonths  int             `json:"minimumServiceMonths"`
	AllowedStatuses   []string        `json:"allowedEmployeeStatuses"`
}

func (h *Handler) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload policyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("leaveTypeId", payload.LeaveTypeID, "leave type is required")
	effective, _ := v.Date("effectiveDate", payload.EffectiveDate)
	var expiry *time.Time
	if strings.TrimSpace(payload.ExpiryDate) != "" {
		parsed, ok := v.Date("expiryDate", payload.ExpiryDate)
		if ok {
			expiry = &parsed
		}
	}
	if payload.AnnualEntitlement.IsNegative() {
		v.Add("annualEntitlement", "must not be negative")
	}
	if payload.CarryOverLimit.IsNegative() {
		v.Add("carryOverLimit", "must not be negative")
	}
	if payload.EncashLimit.IsNegative() {
		v.Add("encashLimit", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	policy, err := h.Service.CreatePolicy(r.Context(), leave.Policy{
		LeaveTypeID:       payload.LeaveTypeID,
		AnnualEntitlement: payload.AnnualEntitlement,
		CarryLimit:        payload.CarryOverLimit,
		EncashLimit:       payload.EncashLimit,
		CycleYears:        payload.CycleLengthYears,
		EffectiveDate:     effective,
		ExpiryDate:        expiry,
		MinServiceMonths:  payload.MinServiceMonths,
		AllowedStatuses:   payload.AllowedStatuses,
	})
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.policy.create", "leave_policy", policy.ID, audit.OutcomeSuccess, policy)
	api.Created(w, policy, reqID)
}

func (h *Handler) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	policies, err := h.Service.ListPolicies(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "policy_list_failed", "failed to list policies", reqID)
		return
	}
	api.Success(w, policies, reqID)
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	policy, err := h.Service.GetPolicy(r.Context(), chi.URLParam(r, "policyID"))
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, policy, reqID)
}

func (h *Handler) handleActivatePolicy(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	policyID := chi.URLParam(r, "policyID")

	if err := h.Service.ActivatePolicy(r.Context(), policyID); err != nil {
		h.audit(r, "leave.policy.activate", "leave_policy", policyID, audit.OutcomeFailure, map[string]string{"error": err.Error()})
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.policy.activate", "leave_policy", policyID, audit.OutcomeSuccess, nil)
	api.Success(w, map[string]string{"id": policyID, "status": leave.PolicyActive}, reqID)
}

func (h *Handler) handleRetirePolicy(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	policyID := chi.URLParam(r, "policyID")

	if err := h.Service.RetirePolicy(r.Context(), policyID); err != nil {
		h.audit(r, "leave.policy.retire", "leave_policy", policyID, audit.OutcomeFailure, map[string]string{"error": err.Error()})
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.policy.retire", "leave_policy", policyID, audit.OutcomeSuccess, nil)
	api.Success(w, map[string]string{"id": policyID, "status": leave.PolicyRetired}, reqID)
}

func (h *Handler) handleCheckEligibility(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_employee", "employeeId query parameter is required", reqID)
		return
	}

	referenceDate := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", reqID)
			return
		}
		referenceDate = parsed
	}

	result, err := h.Service.CheckEligibility(r.Context(), employeeID, chi.URLParam(r, "policyID"), referenceDate)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleListBalances(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	year := strings.TrimSpace(r.URL.Query().Get("year"))
	if employeeID == "" || year == "" {
		api.Fail(w, http.StatusBadRequest, "missing_filter", "employeeId and year query parameters are required", reqID)
		return
	}

	balances, err := h.Service.BalancesForEmployeeYear(r.Context(), employeeID, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "balance_list_failed", "failed to list balances", reqID)
		return
	}
	api.Success(w, balances, reqID)
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	balance, err := h.Service.GetBalance(r.Context(), chi.URLParam(r, "balanceID"))
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, balance, reqID)
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	txns, err := h.Service.ListTransactions(r.Context(), chi.URLParam(r, "balanceID"))
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, txns, reqID)
}

func (h *Handler) handleCloseBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	balanceID := chi.URLParam(r, "balanceID")

	if err := h.Service.CloseBalance(r.Context(), balanceID); err != nil {
		h.audit(r, "leave.balance.close", "leave_balance", balanceID, audit.OutcomeFailure, map[string]string{"error": err.Error()})
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.balance.close", "leave_balance", balanceID, audit.OutcomeSuccess, nil)
	api.Success(w, map[string]string{"id": balanceID, "status": leave.BalanceClosed}, reqID)
}

type balanceMutationPayload struct {
	Days    decimal.Decimal `json:"days"`
	Remarks string          `json:"remarks"`
	Reason  string          `json:"reason"`
}

func (h *Handler) handleEncash(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	balanceID := chi.URLParam(r, "balanceID")

	var payload balanceMutationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	if err := h.Service.Encash(r.Context(), balanceID, payload.Days, payload.Remarks); err != nil {
		h.audit(r, "leave.balance.encash", "leave_balance", balanceID, audit.OutcomeFailure, map[string]string{"error": err.Error()})
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.balance.encash", "leave_balance", balanceID, audit.OutcomeSuccess, payload)

	balance, err := h.Service.GetBalance(r.Context(), balanceID)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, balance, reqID)
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	balanceID := chi.URLParam(r, "balanceID")

	var payload balanceMutationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	reason := payload.Reason
	if reason == "" {
		reason = payload.Remarks
	}

	if err := h.Service.Adjust(r.Context(), balanceID, payload.Days, reason); err != nil {
		h.audit(r, "leave.balance.adjust", "leave_balance", balanceID, audit.OutcomeFailure, map[string]string{"error": err.Error()})
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.balance.adjust", "leave_balance", balanceID, audit.OutcomeSuccess, payload)

	balance, err := h.Service.GetBalance(r.Context(), balanceID)
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, balance, reqID)
}

type submitRequestPayload struct {
	EmployeeID string `json:"employeeId"`
	BalanceID  string `json:"balanceId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Remarks    string `json:"remarks"`
}

func (h *Handler) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload submitRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee is required")
	v.Required("balanceId", payload.BalanceID, "balance is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, reqID) {
		return
	}

	request, err := h.Flow.Submit(r.Context(), leave.SubmitCommand{
		EmployeeID: payload.EmployeeID,
		BalanceID:  payload.BalanceID,
		StartDate:  start,
		EndDate:    end,
		Remarks:    payload.Remarks,
	})
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.request.submit", "leave_request", request.ID, audit.OutcomeSuccess, request)
	api.Created(w, request, reqID)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	requests, err := h.Service.ListRequests(
		r.Context(),
		strings.TrimSpace(r.URL.Query().Get("employeeId")),
		strings.TrimSpace(r.URL.Query().Get("status")),
		page.Limit,
		page.Offset,
	)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "request_list_failed", "failed to list leave requests", reqID)
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	request, err := h.Service.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		failDomain(w, err, reqID)
		return
	}
	api.Success(w, request, reqID)
}

type decisionPayload struct {
	ApproverID string `json:"approverId"`
	Remarks    string `json:"remarks"`
}

func (h *Handler) decisionActor(r *http.Request, payload decisionPayload) string {
	if actor := strings.TrimSpace(payload.ApproverID); actor != "" {
		return actor
	}
	return middleware.GetActorID(r.Context())
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload decisionPayload
	if err := decodeOptional(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	approverID := h.decisionActor(r, payload)
	if approverID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_approver", "approver identity is required", reqID)
		return
	}

	request, err := h.Flow.Approve(r.Context(), requestID, approverID, payload.Remarks)
	if err != nil {
		h.audit(r, "leave.request.approve", "leave_request", requestID, audit.OutcomeFailure, map[string]string{"error": err.Error()})
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.request.approve", "leave_request", requestID, audit.OutcomeSuccess, request)
	api.Success(w, request, reqID)
}

func (h *Handler) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload decisionPayload
	if err := decodeOptional(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	approverID := h.decisionActor(r, payload)
	if approverID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_approver", "approver identity is required", reqID)
		return
	}

	request, err := h.Flow.Reject(r.Context(), requestID, approverID, payload.Remarks)
	if err != nil {
		h.audit(r, "leave.request.reject", "leave_request", requestID, audit.OutcomeFailure, map[string]string{"error": err.Error()})
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.request.reject", "leave_request", requestID, audit.OutcomeSuccess, request)
	api.Success(w, request, reqID)
}

type cancelPayload struct {
	EmployeeID string `json:"employeeId"`
}

func (h *Handler) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload cancelPayload
	if err := decodeOptional(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	employeeID := strings.TrimSpace(payload.EmployeeID)
	if employeeID == "" {
		employeeID = middleware.GetActorID(r.Context())
	}
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_employee", "employee identity is required", reqID)
		return
	}

	request, err := h.Flow.Cancel(r.Context(), requestID, employeeID)
	if err != nil {
		h.audit(r, "leave.request.cancel", "leave_request", requestID, audit.OutcomeFailure, map[string]string{"error": err.Error()})
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.request.cancel", "leave_request", requestID, audit.OutcomeSuccess, request)
	api.Success(w, request, reqID)
}

type rolloverPayload struct {
	Date string `json:"date"`
}

func (h *Handler) handleRunRollover(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload rolloverPayload
	if err := decodeOptional(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	date := time.Now().UTC()
	if payload.Date != "" {
		parsed, err := shared.ParseDate(payload.Date)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", reqID)
			return
		}
		date = parsed
	}

	result, err := h.Jobs.RunNow(r.Context(), jobs.JobYearRollover, func(ctx context.Context) (any, error) {
		return h.Service.RunRollover(ctx, date)
	})
	if err != nil {
		h.audit(r, "leave.rollover.run", "leave_year_config", "", audit.OutcomeFailure, map[string]string{"error": err.Error()})
		failDomain(w, err, reqID)
		return
	}
	h.audit(r, "leave.rollover.run", "leave_year_config", "", audit.OutcomeSuccess, result)
	api.Success(w, result, reqID)
}

func (h *Handler) handleListRolloverRuns(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 20, 100)

	runs, err := h.Jobs.ListRuns(r.Context(), page.Limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_runs_failed", "failed to list job runs", reqID)
		return
	}
	api.Success(w, runs, reqID)
}
