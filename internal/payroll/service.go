package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/satriautama/attendance-management/internal"
	"github.com/satriautama/attendance-management/internal/attendance"
	"github.com/satriautama/attendance-management/internal/core/events"
	"github.com/satriautama/attendance-management/internal/employee"
)

// PeriodRepository defines the data access methods for pay periods.
// GetByDates returns nil when no period matches; absence is a normal result.
type PeriodRepository interface {
	Create(p *PayPeriod) error
	GetByID(id int64) (*PayPeriod, error)
	GetByDates(start, end time.Time) (*PayPeriod, error)
	List(limit, offset int) ([]*PayPeriod, error)
	UpdateStatus(id int64, status PeriodStatus) error
	Delete(id int64) error
}

// EntrySource reads the attendance side: closed entries whose shift's
// scheduled start falls inside a period, and employees with punches still
// open inside it.
type EntrySource interface {
	ClosedEntriesInPeriod(employeeID int64, start, end time.Time) ([]*attendance.TimeEntry, error)
	OpenEntryEmployeesInPeriod(start, end time.Time) ([]int64, error)
}

type EmployeeSource interface {
	GetByID(id int64) (*employee.Employee, error)
	ListActive() ([]*employee.Employee, error)
	ListByIDs(ids []int64) ([]*employee.Employee, error)
}

// PayslipStore persists batch results. The service refuses to run a batch
// against a PAID period, so upserts never reach one.
type PayslipStore interface {
	Upsert(result *PayrollCalculationResult) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service handles pay-period lifecycle and payroll aggregation
type Service struct {
	periods   PeriodRepository
	entries   EntrySource
	employees EmployeeSource
	payslips  PayslipStore
	bus       EventPublisher
	cfg       internal.PayrollConfig
	loc       *time.Location
	logger    *slog.Logger

	// Now is the clock source; tests override it to pin the calendar.
	Now func() time.Time
}

func NewService(periods PeriodRepository, entries EntrySource, employees EmployeeSource, payslips PayslipStore, bus EventPublisher, cfg internal.PayrollConfig, logger *slog.Logger) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("payroll service: %w", err)
	}
	return &Service{
		periods:   periods,
		entries:   entries,
		employees: employees,
		payslips:  payslips,
		bus:       bus,
		cfg:       cfg,
		loc:       loc,
		logger:    logger,
		Now:       time.Now,
	}, nil
}

// PeriodDates exposes the pure calendar computation in the organizational
// time zone.
func (s *Service) PeriodDates(year int, month time.Month, half PeriodHalf) (PeriodDates, error) {
	return GeneratePeriodDates(year, month, half, s.loc)
}

// CreatePeriod builds and stores a new OPEN period, rejecting duplicates on
// identical (startDate, endDate).
func (s *Service) CreatePeriod(dto CreatePeriodDTO) (*PayPeriod, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("pay period validation failed", "error", err)
		return nil, err
	}

	dates, err := GeneratePeriodDates(dto.Year, dto.Month, dto.Half, s.loc)
	if err != nil {
		return nil, err
	}

	existing, err := s.periods.GetByDates(dates.StartDate, dates.EndDate)
	if err != nil {
		s.logger.Error("failed to check for duplicate period", "error", err)
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("duplicate pay period rejected",
			"start_date", dates.StartDate,
			"end_date", dates.EndDate)
		return nil, ErrDuplicatePayPeriod
	}

	period := &PayPeriod{
		StartDate: dates.StartDate,
		EndDate:   dates.EndDate,
		PayDate:   dates.PayDate,
		Status:    PeriodStatusOpen,
	}
	if err := s.periods.Create(period); err != nil {
		s.logger.Error("failed to create pay period", "error", err)
		return nil, err
	}

	s.logger.Info("pay period created",
		"pay_period_id", period.ID,
		"start_date", period.StartDate,
		"end_date", period.EndDate,
		"pay_date", period.PayDate)

	return period, nil
}

// CanGenerateCompletedPeriod answers whether a just-closed period may be
// generated today in the organizational time zone.
func (s *Service) CanGenerateCompletedPeriod() GenerationDecision {
	return CanGenerateCompletedPeriod(s.Now(), s.loc)
}

// GenerateDuePeriod creates the period CanGenerateCompletedPeriod allows
// today, or fails with a state error when none is due.
func (s *Service) GenerateDuePeriod() (*PayPeriod, error) {
	decision := s.CanGenerateCompletedPeriod()
	if !decision.Allowed {
		return nil, internal.NewStateError(decision.Reason, internal.ErrCodePeriodNotDue)
	}
	return s.CreatePeriod(CreatePeriodDTO{Year: decision.Year, Month: decision.Month, Half: decision.Half})
}

func (s *Service) GetPeriod(payPeriodID int64) (*PayPeriod, error) {
	period, err := s.periods.GetByID(payPeriodID)
	if err != nil {
		return nil, ErrPayPeriodNotFound
	}
	return period, nil
}

func (s *Service) ListPeriods(limit, offset int) ([]*PayPeriod, error) {
	return s.periods.List(limit, offset)
}

// DeletePeriod removes a period that has not been paid out. PAID periods
// are immutable.
func (s *Service) DeletePeriod(payPeriodID int64) error {
	period, err := s.periods.GetByID(payPeriodID)
	if err != nil {
		return ErrPayPeriodNotFound
	}
	if period.Status == PeriodStatusPaid {
		return ErrPayPeriodPaid
	}

	if err := s.periods.Delete(payPeriodID); err != nil {
		s.logger.Error("failed to delete pay period", "error", err, "pay_period_id", payPeriodID)
		return err
	}

	s.logger.Info("pay period deleted", "pay_period_id", payPeriodID)
	return nil
}

// FinalizePeriod moves a period to PAID. Only PROCESSING periods qualify;
// the transition is terminal.
func (s *Service) FinalizePeriod(payPeriodID int64) (*PayPeriod, error) {
	period, err := s.periods.GetByID(payPeriodID)
	if err != nil {
		return nil, ErrPayPeriodNotFound
	}

	if !period.Status.CanTransitionTo(PeriodStatusPaid) {
		s.logger.Warn("invalid pay period transition",
			"pay_period_id", payPeriodID,
			"from", period.Status,
			"to", PeriodStatusPaid)
		if period.Status == PeriodStatusPaid {
			return nil, ErrPayPeriodPaid
		}
		return nil, internal.NewStateError(
			fmt.Sprintf("pay period cannot move from %s to PAID", period.Status),
			internal.ErrCodePayPeriodPaid)
	}

	if err := s.periods.UpdateStatus(payPeriodID, PeriodStatusPaid); err != nil {
		s.logger.Error("failed to finalize pay period", "error", err, "pay_period_id", payPeriodID)
		return nil, err
	}

	period.Status = PeriodStatusPaid
	s.logger.Info("pay period finalized", "pay_period_id", payPeriodID)
	return period, nil
}

// CalculateEmployeePayroll reduces one employee's closed entries in a period
// into pay figures. Hours sum the per-shift regular/overtime splits; pays
// are computed as float cents and rounded once at the end.
func (s *Service) CalculateEmployeePayroll(employeeID, payPeriodID, payRateCents int64, payType employee.PayType) (*PayrollCalculationResult, error) {
	if payRateCents <= 0 || !payType.IsValid() {
		return nil, internal.NewValidationError(
			fmt.Sprintf("employee %d has no usable pay configuration", employeeID),
			internal.ErrCodeMissingPayConfig)
	}

	period, err := s.periods.GetByID(payPeriodID)
	if err != nil {
		return nil, ErrPayPeriodNotFound
	}

	entries, err := s.entries.ClosedEntriesInPeriod(employeeID, period.StartDate, period.EndDate)
	if err != nil {
		s.logger.Error("failed to load entries for payroll", "error", err, "employee_id", employeeID, "pay_period_id", payPeriodID)
		return nil, err
	}

	var regularHours, overtimeHours float64
	for _, e := range entries {
		regularHours += e.RegularHours()
		overtimeHours += e.OvertimeHours
	}

	usedDefault := false
	if payType == employee.PayTypeSalaried && len(entries) == 0 {
		// salaried employees with no punches get the configured default
		// instead of a $0 payslip; flagged, never silent
		regularHours = s.cfg.SalaryDefaultHours
		usedDefault = true
		s.logger.Warn("salaried employee has no entries, default hours substituted",
			"employee_id", employeeID,
			"pay_period_id", payPeriodID,
			"default_hours", regularHours)
	}

	rate := float64(payRateCents)
	regularPay := regularHours * rate
	overtimePay := overtimeHours * rate * s.cfg.OvertimeMultiplier
	grossPay := regularPay + overtimePay
	deductions := grossPay * (s.cfg.CPPRate + s.cfg.EIRate + s.cfg.TaxRate)
	netPay := grossPay - deductions

	return &PayrollCalculationResult{
		EmployeeID:       employeeID,
		PayPeriodID:      payPeriodID,
		RegularHours:     regularHours,
		OvertimeHours:    overtimeHours,
		TotalHours:       regularHours + overtimeHours,
		RegularPay:       RoundCents(regularPay),
		OvertimePay:      RoundCents(overtimePay),
		GrossPay:         RoundCents(grossPay),
		Deductions:       RoundCents(deductions),
		NetPay:           RoundCents(netPay),
		EntryCount:       len(entries),
		UsedDefaultHours: usedDefault,
	}, nil
}

// CalculateForEmployee resolves the employee's pay configuration and runs
// a single on-demand calculation. Nothing is persisted.
func (s *Service) CalculateForEmployee(dto CalculateEmployeeDTO) (*PayrollCalculationResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	emp, err := s.employees.GetByID(dto.EmployeeID)
	if err != nil {
		return nil, employee.ErrEmployeeNotFound
	}
	if !emp.PayConfigured() {
		return nil, internal.NewValidationError(
			fmt.Sprintf("employee %d has no usable pay configuration", emp.ID),
			internal.ErrCodeMissingPayConfig)
	}

	return s.CalculateEmployeePayroll(emp.ID, dto.PayPeriodID, *emp.PayRateCents, *emp.PayType)
}

// CalculateBatchPayroll computes payroll for every eligible employee (or
// the supplied subset) independently. Per-employee failures are recorded
// and the batch continues; cancellation is honored between employees. The
// period status is written once, after the whole batch, never from partial
// results.
func (s *Service) CalculateBatchPayroll(ctx context.Context, payPeriodID int64, employeeIDs []int64) (*BatchResult, error) {
	period, err := s.periods.GetByID(payPeriodID)
	if err != nil {
		return nil, ErrPayPeriodNotFound
	}
	if period.Status == PeriodStatusPaid {
		return nil, ErrPayPeriodPaid
	}

	candidates, err := s.selectCandidates(employeeIDs)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		PayPeriodID: payPeriodID,
		Results:     []*PayrollCalculationResult{},
		Failures:    []BatchFailure{},
	}

	// per-employee computations share no mutable state; fan out over a
	// bounded worker pool and collect under one lock
	workers := s.cfg.BatchWorkers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(candidates) && len(candidates) > 0 {
		workers = len(candidates)
	}

	jobs := make(chan *employee.Employee)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for emp := range jobs {
				calc, failure := s.calculateOne(emp, payPeriodID)
				mu.Lock()
				if failure != nil {
					result.Failures = append(result.Failures, *failure)
				} else {
					result.Results = append(result.Results, calc)
				}
				mu.Unlock()
			}
		}()
	}

	cancelled := false
dispatch:
	for _, emp := range candidates {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case <-ctx.Done():
			cancelled = true
			break dispatch
		case jobs <- emp:
		}
	}
	close(jobs)
	wg.Wait()

	s.summarize(result, len(candidates))

	if cancelled {
		// leave the period status untouched; a partial batch must not
		// transition anything
		s.logger.Warn("payroll batch cancelled",
			"pay_period_id", payPeriodID,
			"processed", result.Summary.SuccessCount+result.Summary.FailureCount,
			"of", len(candidates))
		return result, ctx.Err()
	}

	// single serialization point: one status write after all employees
	if period.Status == PeriodStatusOpen {
		if err := s.periods.UpdateStatus(payPeriodID, PeriodStatusProcessing); err != nil {
			s.logger.Error("failed to mark period processing", "error", err, "pay_period_id", payPeriodID)
			return nil, err
		}
	}

	if s.bus != nil {
		event := events.NewPayrollBatchFinishedEvent(payPeriodID, result.Summary.SuccessCount, result.Summary.FailureCount)
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish batch event", "error", err, "pay_period_id", payPeriodID)
		}
	}

	s.logger.Info("payroll batch finished",
		"pay_period_id", payPeriodID,
		"successes", result.Summary.SuccessCount,
		"failures", result.Summary.FailureCount,
		"total_gross_cents", result.Summary.TotalGrossPay)

	return result, nil
}

// calculateOne wraps a single employee's computation and payslip write so a
// panic or error is a recorded failure, never a batch abort.
func (s *Service) calculateOne(emp *employee.Employee, payPeriodID int64) (calc *PayrollCalculationResult, failure *BatchFailure) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("payroll computation panicked", "employee_id", emp.ID, "panic", r)
			calc = nil
			failure = &BatchFailure{EmployeeID: emp.ID, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()

	if !emp.PayConfigured() {
		return nil, &BatchFailure{EmployeeID: emp.ID, Reason: "pay rate or pay type not configured"}
	}

	calc, err := s.CalculateEmployeePayroll(emp.ID, payPeriodID, *emp.PayRateCents, *emp.PayType)
	if err != nil {
		s.logger.Error("payroll computation failed", "error", err, "employee_id", emp.ID)
		return nil, &BatchFailure{EmployeeID: emp.ID, Reason: err.Error()}
	}

	if s.payslips != nil {
		if err := s.payslips.Upsert(calc); err != nil {
			s.logger.Error("failed to persist payslip", "error", err, "employee_id", emp.ID)
			return nil, &BatchFailure{EmployeeID: emp.ID, Reason: fmt.Sprintf("payslip write failed: %v", err)}
		}
	}

	return calc, nil
}

func (s *Service) selectCandidates(employeeIDs []int64) ([]*employee.Employee, error) {
	if len(employeeIDs) > 0 {
		emps, err := s.employees.ListByIDs(employeeIDs)
		if err != nil {
			s.logger.Error("failed to load employee subset", "error", err)
			return nil, err
		}
		return emps, nil
	}

	emps, err := s.employees.ListActive()
	if err != nil {
		s.logger.Error("failed to load active employees", "error", err)
		return nil, err
	}

	// auto-selection takes only employees payroll can actually run for
	eligible := emps[:0]
	for _, emp := range emps {
		if emp.IsActive && emp.PayConfigured() {
			eligible = append(eligible, emp)
		}
	}
	return eligible, nil
}

func (s *Service) summarize(result *BatchResult, candidateCount int) {
	summary := BatchSummary{
		EmployeeCount: candidateCount,
		SuccessCount:  len(result.Results),
		FailureCount:  len(result.Failures),
	}

	for _, r := range result.Results {
		summary.TotalHours += r.TotalHours
		summary.TotalGrossPay += r.GrossPay
		summary.TotalNetPay += r.NetPay
		if r.UsedDefaultHours {
			summary.AnomalyCount++
		}
	}

	if summary.SuccessCount > 0 {
		summary.AverageHours = summary.TotalHours / float64(summary.SuccessCount)
		summary.AverageGrossPay = summary.TotalGrossPay / Cents(summary.SuccessCount)
	}

	result.Summary = summary
}

// ValidatePayrollCalculation inspects a period without mutating anything.
// Errors block calculation; warnings only inform.
func (s *Service) ValidatePayrollCalculation(payPeriodID int64) (*ValidationReport, error) {
	report := &ValidationReport{
		PayPeriodID: payPeriodID,
		Errors:      []ValidationIssue{},
		Warnings:    []ValidationIssue{},
	}

	period, err := s.periods.GetByID(payPeriodID)
	if err != nil {
		report.Errors = append(report.Errors, ValidationIssue{
			Code:    string(internal.ErrCodePayPeriodNotFound),
			Message: "pay period not found",
		})
		return report, nil
	}

	if period.Status == PeriodStatusPaid {
		report.Errors = append(report.Errors, ValidationIssue{
			Code:    string(internal.ErrCodePayPeriodPaid),
			Message: "pay period is already paid",
		})
	}

	emps, err := s.employees.ListActive()
	if err != nil {
		return nil, err
	}
	for _, emp := range emps {
		if !emp.PayConfigured() {
			report.Warnings = append(report.Warnings, ValidationIssue{
				Code:       string(internal.ErrCodeMissingPayConfig),
				Message:    fmt.Sprintf("employee %d is active but has no pay configuration", emp.ID),
				EmployeeID: emp.ID,
			})
		}
	}

	openIDs, err := s.entries.OpenEntryEmployeesInPeriod(period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}
	for _, id := range openIDs {
		report.Warnings = append(report.Warnings, ValidationIssue{
			Code:       string(internal.ErrCodeAlreadyClockedIn),
			Message:    fmt.Sprintf("employee %d has an open time entry inside this period", id),
			EmployeeID: id,
		})
	}

	report.CanCalculate = len(report.Errors) == 0
	return report, nil
}
