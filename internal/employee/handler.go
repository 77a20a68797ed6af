package employee

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/satriautama/attendance-management/internal/transport"
	"github.com/satriautama/attendance-management/pkg/logger"
)

// Reader is the read-only surface the handler needs; employee records are
// mastered elsewhere, this service only reads them.
type Reader interface {
	GetByID(id int64) (*Employee, error)
	ListActive() ([]*Employee, error)
}

type Handler struct {
	*transport.BaseHandler
	Employees Reader
}

func NewHandler(employees Reader) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Employees:   employees,
	}
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	emp, err := h.Employees.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) ListActiveEmployees(w http.ResponseWriter, r *http.Request) {
	emps, err := h.Employees.ListActive()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": emps,
		"count":     len(emps),
	})
}
