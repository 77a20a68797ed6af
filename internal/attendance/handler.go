package attendance

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/satriautama/attendance-management/internal/transport"
	"github.com/satriautama/attendance-management/internal/transport/middleware"
	"github.com/satriautama/attendance-management/pkg/logger"
)

type ServiceAPI interface {
	ClockIn(dto ClockInDTO) (*TimeEntry, error)
	ClockOut(timeEntryID int64, dto ClockOutDTO, callerID int64, privileged bool) (*TimeEntry, error)
	Adjust(timeEntryID int64, dto AdjustDTO) (*AdjustResult, error)
	GetEntry(timeEntryID int64) (*TimeEntry, error)
	GetOpenEntry(employeeID int64) (*TimeEntry, error)
	ListEmployeeEntries(employeeID int64, from, to time.Time) ([]*TimeEntry, error)
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

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var dto ClockInDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ClockIn: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.ClockIn(dto)
	if err != nil {
		h.Logger.Error("ClockIn: service error", "error", err, "employee_id", dto.EmployeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	entryID, ok := h.entryIDParam(w, r)
	if !ok {
		return
	}

	var dto ClockOutDTO
	if r.Body != nil {
		// body is optional on clock-out
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	callerID := middleware.CallerID(r.Context())
	privileged := middleware.IsPrivileged(r.Context())

	entry, err := h.Service.ClockOut(entryID, dto, callerID, privileged)
	if err != nil {
		h.Logger.Error("ClockOut: service error", "error", err, "time_entry_id", entryID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	entryID, ok := h.entryIDParam(w, r)
	if !ok {
		return
	}

	var dto AdjustDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Adjust: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.AdjustedBy == 0 {
		dto.AdjustedBy = middleware.CallerID(r.Context())
	}

	result, err := h.Service.Adjust(entryID, dto)
	if err != nil {
		h.Logger.Error("Adjust: service error", "error", err, "time_entry_id", entryID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := h.entryIDParam(w, r)
	if !ok {
		return
	}

	entry, err := h.Service.GetEntry(entryID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) GetOpenEntry(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employeeIDParam(w, r)
	if !ok {
		return
	}

	entry, err := h.Service.GetOpenEntry(employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if entry == nil {
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{"open_entry": nil})
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"open_entry": entry})
}

func (h *Handler) ListEmployeeEntries(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employeeIDParam(w, r)
	if !ok {
		return
	}

	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
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

	entries, err := h.Service.ListEmployeeEntries(employeeID, from, to)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"from":    from,
		"to":      to,
	})
}

func (h *Handler) entryIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid time entry ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid time entry ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) employeeIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "employeeID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return 0, false
	}
	return id, true
}
