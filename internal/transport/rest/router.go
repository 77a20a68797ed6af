package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/satriautama/attendance-management/internal/attendance"
	"github.com/satriautama/attendance-management/internal/employee"
	"github.com/satriautama/attendance-management/internal/payroll"
	"github.com/satriautama/attendance-management/internal/schedule"
	"github.com/satriautama/attendance-management/internal/transport/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, scheduleHandler *schedule.Handler, attendanceHandler *attendance.Handler, payrollHandler *payroll.Handler, employeeHandler *employee.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.Identity)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if scheduleHandler != nil {
			r.Route("/shifts", func(sr chi.Router) {
				sr.Post("/", scheduleHandler.CreateShift)
				sr.Post("/check-conflict", scheduleHandler.CheckConflict)
				sr.Get("/{id}", scheduleHandler.GetShift)
				sr.Put("/{id}", scheduleHandler.UpdateShift)
				sr.Patch("/{id}/status", scheduleHandler.UpdateShiftStatus)
				sr.Delete("/{id}", scheduleHandler.DeactivateShift)
			})
		}

		if attendanceHandler != nil {
			r.Route("/attendance", func(ar chi.Router) {
				ar.Post("/clock-in", attendanceHandler.ClockIn)
				ar.Post("/entries/{id}/clock-out", attendanceHandler.ClockOut)
				ar.Get("/entries/{id}", attendanceHandler.GetEntry)
				ar.Patch("/entries/{id}/adjust", attendanceHandler.Adjust)
				ar.Get("/employees/{employeeID}/open", attendanceHandler.GetOpenEntry)
				ar.Get("/employees/{employeeID}/entries", attendanceHandler.ListEmployeeEntries)
			})
		}

		if payrollHandler != nil {
			r.Route("/pay-periods", func(pr chi.Router) {
				pr.Post("/", payrollHandler.CreatePeriod)
				pr.Get("/", payrollHandler.ListPeriods)
				pr.Get("/generation-check", payrollHandler.CheckGeneration)
				pr.Post("/generate", payrollHandler.GenerateDuePeriod)
				pr.Get("/{id}", payrollHandler.GetPeriod)
				pr.Delete("/{id}", payrollHandler.DeletePeriod)
				pr.Get("/{id}/validate", payrollHandler.ValidatePeriod)
				pr.Post("/{id}/calculate", payrollHandler.CalculateBatch)
				pr.Post("/{id}/employees/{employeeID}/calculate", payrollHandler.CalculateEmployee)
				pr.Post("/{id}/finalize", payrollHandler.FinalizePeriod)
			})
		}

		if employeeHandler != nil {
			r.Route("/employees", func(er chi.Router) {
				er.Get("/", employeeHandler.ListActiveEmployees)
				er.Get("/{id}", employeeHandler.GetEmployee)
				if scheduleHandler != nil {
					// same wildcard name as the sibling route; chi rejects
					// mixed param names at one position
					er.Get("/{id}/shifts", scheduleHandler.ListEmployeeShifts)
				}
			})
		}
	})
}
