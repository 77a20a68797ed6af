package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Attendance    AttendanceConfig    `mapstructure:"attendance"`
	Payroll       PayrollConfig       `mapstructure:"payroll"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

// AttendanceConfig holds the punch-normalization knobs. Grace snapping and
// minute rounding both read from here so clock-in, clock-out and adjust stay
// consistent with each other.
type AttendanceConfig struct {
	ClockInWindowMinutes   int     `mapstructure:"clock_in_window_minutes"`
	GraceWindowMinutes     int     `mapstructure:"grace_window_minutes"`
	OvertimeThresholdHours float64 `mapstructure:"overtime_threshold_hours"`
}

// PayrollConfig carries flat approximate withholding rates, not a bracketed
// tax engine; statutory computation belongs to a downstream collaborator.
type PayrollConfig struct {
	Timezone           string  `mapstructure:"timezone"`
	OvertimeMultiplier float64 `mapstructure:"overtime_multiplier"`
	CPPRate            float64 `mapstructure:"cpp_rate"`
	EIRate             float64 `mapstructure:"ei_rate"`
	TaxRate            float64 `mapstructure:"tax_rate"`
	SalaryDefaultHours float64 `mapstructure:"salary_default_hours"`
	BatchWorkers       int     `mapstructure:"batch_workers"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a Config from environment variables, used for
// container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:           getEnv("SERVER_BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("SERVER_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			Source:          getEnv("DB_SOURCE", ""),
		},
		Attendance: AttendanceConfig{
			ClockInWindowMinutes:   getEnvAsInt("ATTENDANCE_CLOCK_IN_WINDOW_MINUTES", 5),
			GraceWindowMinutes:     getEnvAsInt("ATTENDANCE_GRACE_WINDOW_MINUTES", 5),
			OvertimeThresholdHours: getEnvAsFloat("ATTENDANCE_OVERTIME_THRESHOLD_HOURS", 8),
		},
		Payroll: PayrollConfig{
			Timezone:           getEnv("PAYROLL_TIMEZONE", "America/Toronto"),
			OvertimeMultiplier: getEnvAsFloat("PAYROLL_OVERTIME_MULTIPLIER", 1.5),
			CPPRate:            getEnvAsFloat("PAYROLL_CPP_RATE", 0.0595),
			EIRate:             getEnvAsFloat("PAYROLL_EI_RATE", 0.0166),
			TaxRate:            getEnvAsFloat("PAYROLL_TAX_RATE", 0.15),
			SalaryDefaultHours: getEnvAsFloat("PAYROLL_SALARY_DEFAULT_HOURS", 80),
			BatchWorkers:       getEnvAsInt("PAYROLL_BATCH_WORKERS", 4),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Attendance.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("attendance config: %v", err))
	}

	if err := c.Payroll.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("payroll config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *AttendanceConfig) Validate() error {
	if c.ClockInWindowMinutes < 0 {
		return errors.New("clock_in_window_minutes cannot be negative")
	}
	if c.GraceWindowMinutes < 0 {
		return errors.New("grace_window_minutes cannot be negative")
	}
	if c.OvertimeThresholdHours <= 0 {
		return errors.New("overtime_threshold_hours must be positive")
	}
	return nil
}

// ClockInWindow is how far before the scheduled start a punch is accepted.
func (c *AttendanceConfig) ClockInWindow() time.Duration {
	return time.Duration(c.ClockInWindowMinutes) * time.Minute
}

func (c *AttendanceConfig) GraceWindow() time.Duration {
	return time.Duration(c.GraceWindowMinutes) * time.Minute
}

func (c *PayrollConfig) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.OvertimeMultiplier < 1 {
		return errors.New("overtime_multiplier must be >= 1")
	}
	if c.CPPRate < 0 || c.EIRate < 0 || c.TaxRate < 0 {
		return errors.New("deduction rates cannot be negative")
	}
	if c.CPPRate+c.EIRate+c.TaxRate >= 1 {
		return errors.New("combined deduction rates must be below 100%")
	}
	if c.SalaryDefaultHours < 0 {
		return errors.New("salary_default_hours cannot be negative")
	}
	return nil
}

// Location resolves the organizational time zone all pay-period boundaries
// are computed in. Period math must never run in UTC or punches near
// midnight drift into the wrong period.
func (c *PayrollConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, errors.New("timezone is required")
	}
	return time.LoadLocation(c.Timezone)
}
