// Package worker holds the scheduled pipeline's operational shell: env
// configuration, run metrics, and the probe server for liveness checks.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	pkgconfig "newsletter-press/internal/pkg/config"
)

// Config controls the scheduled newsletter run.
type Config struct {
	// CronSchedule is a standard five-field cron expression.
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string

	// RunTimeout bounds one end-to-end pipeline run.
	RunTimeout time.Duration

	// HealthPort serves the liveness and readiness probes.
	HealthPort int
}

// DefaultConfig is a weekly issue, Monday 06:00 UTC.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "0 6 * * 1",
		Timezone:     "UTC",
		RunTimeout:   10 * time.Minute,
		HealthPort:   9091,
	}
}

// ValidateCronSchedule checks the expression against the standard parser
// the scheduler itself uses.
func ValidateCronSchedule(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// ValidateTimezone checks the name against the system zone database.
func ValidateTimezone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return nil
}

// ConfigFromEnv loads the worker configuration with validate-and-fallback
// semantics. An invalid value keeps the default and logs a warning; the
// worker always starts.
//
// Environment variables: CRON_SCHEDULE, WORKER_TIMEZONE, RUN_TIMEOUT,
// WORKER_HEALTH_PORT.
func ConfigFromEnv(logger *slog.Logger) Config {
	def := DefaultConfig()

	schedule := pkgconfig.StringWithValidator("CRON_SCHEDULE", def.CronSchedule, ValidateCronSchedule)
	timezone := pkgconfig.StringWithValidator("WORKER_TIMEZONE", def.Timezone, ValidateTimezone)
	timeout := pkgconfig.Duration("RUN_TIMEOUT", def.RunTimeout, pkgconfig.ValidatePositiveDuration)
	port := pkgconfig.Int("WORKER_HEALTH_PORT", def.HealthPort, pkgconfig.ValidateIntRange(1024, 65535))

	for _, warnings := range [][]string{schedule.Warnings, timezone.Warnings, timeout.Warnings, port.Warnings} {
		for _, w := range warnings {
			logger.Warn("worker config fallback", slog.String("warning", w))
		}
	}

	return Config{
		CronSchedule: schedule.Value,
		Timezone:     timezone.Value,
		RunTimeout:   timeout.Value,
		HealthPort:   port.Value,
	}
}
