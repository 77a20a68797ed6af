package schedule

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/satriautama/attendance-management/internal/transport"
	"github.com/satriautama/attendance-management/pkg/logger"
)

type ServiceAPI interface {
	CheckConflict(dto CheckConflictDTO) (*ConflictResult, error)
	CreateShift(dto CreateShiftDTO) (*Shift, error)
	UpdateShift(shiftID int64, dto UpdateShiftDTO) (*Shift, error)
	UpdateShiftStatus(shiftID int64, status ShiftStatus) (*Shift, error)
	DeactivateShift(shiftID int64) error
	GetShift(shiftID int64) (*Shift, error)
	ListEmployeeShifts(employeeID int64, from, to time.Time) ([]*Shift, error)
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

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var dto CreateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateShift: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shift, err := h.Service.CreateShift(dto)
	if err != nil {
		h.Logger.Error("CreateShift: service error", "error", err, "employee_id", dto.EmployeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, shift)
}

func (h *Handler) CheckConflict(w http.ResponseWriter, r *http.Request) {
	var dto CheckConflictDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CheckConflict: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.CheckConflict(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftIDParam(w, r)
	if !ok {
		return
	}

	shift, err := h.Service.GetShift(shiftID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftIDParam(w, r)
	if !ok {
		return
	}

	var dto UpdateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateShift: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shift, err := h.Service.UpdateShift(shiftID, dto)
	if err != nil {
		h.Logger.Error("UpdateShift: service error", "error", err, "shift_id", shiftID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, shift)
}

func (h *Handler) UpdateShiftStatus(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftIDParam(w, r)
	if !ok {
		return
	}

	var dto UpdateShiftStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shift, err := h.Service.UpdateShiftStatus(shiftID, dto.Status)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, shift)
}

func (h *Handler) DeactivateShift(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.shiftIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeactivateShift(shiftID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *Handler) ListEmployeeShifts(w http.ResponseWriter, r *http.Request) {
	employeeIDStr := chi.URLParam(r, "id")
	employeeID, err := strconv.ParseInt(employeeIDStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	from, to := timeRangeQuery(r)
	shifts, err := h.Service.ListEmployeeShifts(employeeID, from, to)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"shifts": shifts,
		"from":   from,
		"to":     to,
	})
}

func (h *Handler) shiftIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid shift ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid shift ID")
		return 0, false
	}
	return id, true
}

// timeRangeQuery parses from/to query params, defaulting to the current week.
func timeRangeQuery(r *http.Request) (time.Time, time.Time) {
	now := time.Now()
	from := now.AddDate(0, 0, -7)
	to := now.AddDate(0, 0, 7)

	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			from = t
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			to = t
		}
	}
	return from, to
}
