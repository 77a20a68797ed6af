package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/satriautama/attendance-management/internal"
	"github.com/satriautama/attendance-management/internal/attendance"
	attendancePostgres "github.com/satriautama/attendance-management/internal/attendance/postgres"
	"github.com/satriautama/attendance-management/internal/core/events"
	"github.com/satriautama/attendance-management/internal/employee"
	employeePostgres "github.com/satriautama/attendance-management/internal/employee/postgres"
	"github.com/satriautama/attendance-management/internal/payroll"
	payrollPostgres "github.com/satriautama/attendance-management/internal/payroll/postgres"
	"github.com/satriautama/attendance-management/internal/schedule"
	schedulePostgres "github.com/satriautama/attendance-management/internal/schedule/postgres"
	"github.com/satriautama/attendance-management/internal/transport/rest"
	"github.com/satriautama/attendance-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env, config.Observability.Logging.Level)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(log)
	registerEventHandlers(eventBus, log)

	scheduleRepo := schedulePostgres.NewShiftRepository(gormDB)
	entryRepo := attendancePostgres.NewTimeEntryRepository(gormDB)
	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	periodRepo := payrollPostgres.NewPayPeriodRepository(gormDB)
	entrySource := payrollPostgres.NewTimeEntrySource(gormDB)
	payslipRepo := payrollPostgres.NewPayslipRepository(gormDB)

	scheduleService := schedule.NewService(scheduleRepo, log)
	attendanceService := attendance.NewService(entryRepo, scheduleRepo, eventBus, config.Attendance, log)
	payrollService, err := payroll.NewService(periodRepo, entrySource, employeeRepo, payslipRepo, eventBus, config.Payroll, log)
	if err != nil {
		return nil, err
	}

	scheduleHandler := schedule.NewHandler(scheduleService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	payrollHandler := payroll.NewHandler(payrollService)
	employeeHandler := employee.NewHandler(employeeRepo)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, scheduleHandler, attendanceHandler, payrollHandler, employeeHandler, log)

	return &Dependencies{
		Config: config,
		Logger: log,
		DB:     db,
		Router: router,
	}, nil
}

// registerEventHandlers wires the in-process subscribers: adjustments and
// batch completions land in the structured log as an audit trail.
func registerEventHandlers(bus *events.EventBus, log *slog.Logger) {
	bus.Subscribe(events.EventTypeTimeEntryAdjusted, func(ctx context.Context, event events.Event) error {
		log.Info("audit: time entry adjusted",
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	})

	bus.Subscribe(events.EventTypePayrollBatchFinished, func(ctx context.Context, event events.Event) error {
		log.Info("audit: payroll batch finished",
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	})
}

// initDB opens the pgx-backed connection pool shared by gorm and the
// health checker.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
