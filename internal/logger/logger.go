// Package logger configures the application's logging and monitoring.
//
// It uses *zerolog* for logging and optionally integrates with
// *New Relic* for traces and custom events, forwarding JSON logs to it
// when the agent is running.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/deppfellow/go-forms/internal/config"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// LoggerService owns the New Relic application, if one is configured.
type LoggerService struct {
	nrApp *newrelic.Application
}

// NewLoggerService starts the New Relic agent when a license key is present.
// Without one it returns a service whose GetApplication is nil.
func NewLoggerService(cfg *config.ObservabilityConfig) (*LoggerService, error) {
	service := &LoggerService{}

	if cfg.NewRelic.LicenseKey == "" {
		return service, nil
	}

	opts := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.ServiceName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(cfg.NewRelic.AppLogForwardingEnabled),
		newrelic.ConfigDistributedTracerEnabled(cfg.NewRelic.DistributedTracingEnabled),
	}
	if cfg.NewRelic.DebugLogging {
		opts = append(opts, newrelic.ConfigDebugLogger(os.Stdout))
	}

	app, err := newrelic.NewApplication(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize new relic")
	}

	service.nrApp = app
	return service, nil
}

// GetApplication returns the New Relic application or nil.
func (s *LoggerService) GetApplication() *newrelic.Application {
	if s == nil {
		return nil
	}
	return s.nrApp
}

// Shutdown flushes pending New Relic data.
func (s *LoggerService) Shutdown() {
	if s != nil && s.nrApp != nil {
		s.nrApp.Shutdown(10 * time.Second)
	}
}

// NewLogger builds the application logger from observability config.
// Build it after the LoggerService so log forwarding can attach to the agent.
func NewLogger(cfg *config.ObservabilityConfig, service *LoggerService) zerolog.Logger {
	return NewLoggerWithWriter(cfg, os.Stdout, service.GetApplication())
}

// NewLoggerWithWriter is NewLogger with an explicit output. app may be nil.
func NewLoggerWithWriter(cfg *config.ObservabilityConfig, out io.Writer, app *newrelic.Application) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var writer io.Writer
	switch {
	case cfg.Logging.Format == "console" || (cfg.Logging.Format == "" && !cfg.IsProduction()):
		// Console output is for local reading and is never forwarded.
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	case app != nil && cfg.NewRelic.AppLogForwardingEnabled:
		writer = zerologWriter.New(out, app)
	default:
		writer = out
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}

// WithTraceContext adds trace.id and span.id of txn to logger.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}

	metadata := txn.GetTraceMetadata()
	if metadata.TraceID == "" {
		return logger
	}

	return logger.With().
		Str("trace.id", metadata.TraceID).
		Str("span.id", metadata.SpanID).
		Logger()
}
