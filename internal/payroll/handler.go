package payroll

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/satriautama/attendance-management/internal/transport"
	"github.com/satriautama/attendance-management/pkg/logger"
)

type ServiceAPI interface {
	CreatePeriod(dto CreatePeriodDTO) (*PayPeriod, error)
	CanGenerateCompletedPeriod() GenerationDecision
	GenerateDuePeriod() (*PayPeriod, error)
	GetPeriod(payPeriodID int64) (*PayPeriod, error)
	ListPeriods(limit, offset int) ([]*PayPeriod, error)
	DeletePeriod(payPeriodID int64) error
	FinalizePeriod(payPeriodID int64) (*PayPeriod, error)
	CalculateForEmployee(dto CalculateEmployeeDTO) (*PayrollCalculationResult, error)
	CalculateBatchPayroll(ctx context.Context, payPeriodID int64, employeeIDs []int64) (*BatchResult, error)
	ValidatePayrollCalculation(payPeriodID int64) (*ValidationReport, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var dto CreatePeriodDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreatePeriod: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	period, err := h.Service.CreatePeriod(dto)
	if err != nil {
		h.Logger.Error("CreatePeriod: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, period)
}

// CheckGeneration reports whether a just-completed period can be generated
// today, and which one, without creating anything.
func (h *Handler) CheckGeneration(w http.ResponseWriter, r *http.Request) {
	decision := h.Service.CanGenerateCompletedPeriod()
	h.WriteJSON(w, http.StatusOK, decision)
}

func (h *Handler) GenerateDuePeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.Service.GenerateDuePeriod()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, period)
}

func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	periodID, ok := h.periodIDParam(w, r)
	if !ok {
		return
	}

	period, err := h.Service.GetPeriod(periodID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, period)
}

func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	periods, err := h.Service.ListPeriods(limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pay_periods": periods,
		"limit":       limit,
		"offset":      offset,
	})
}

func (h *Handler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	periodID, ok := h.periodIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeletePeriod(periodID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) FinalizePeriod(w http.ResponseWriter, r *http.Request) {
	periodID, ok := h.periodIDParam(w, r)
	if !ok {
		return
	}

	period, err := h.Service.FinalizePeriod(periodID)
	if err != nil {
		h.Logger.Error("FinalizePeriod: service error", "error", err, "pay_period_id", periodID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, period)
}

func (h *Handler) CalculateEmployee(w http.ResponseWriter, r *http.Request) {
	periodID, ok := h.periodIDParam(w, r)
	if !ok {
		return
	}

	employeeIDStr := chi.URLParam(r, "employeeID")
	employeeID, err := strconv.ParseInt(employeeIDStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	result, err := h.Service.CalculateForEmployee(CalculateEmployeeDTO{
		EmployeeID:  employeeID,
		PayPeriodID: periodID,
	})
	if err != nil {
		h.Logger.Error("CalculateEmployee: service error", "error", err, "employee_id", employeeID, "pay_period_id", periodID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	periodID, ok := h.periodIDParam(w, r)
	if !ok {
		return
	}

	var dto BatchCalculateDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.Service.CalculateBatchPayroll(r.Context(), periodID, dto.EmployeeIDs)
	if err != nil {
		h.Logger.Error("CalculateBatch: service error", "error", err, "pay_period_id", periodID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ValidatePeriod(w http.ResponseWriter, r *http.Request) {
	periodID, ok := h.periodIDParam(w, r)
	if !ok {
		return
	}

	report, err := h.Service.ValidatePayrollCalculation(periodID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) periodIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid pay period ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid pay period ID")
		return 0, false
	}
	return id, true
}
