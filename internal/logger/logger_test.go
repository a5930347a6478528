package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/go-forms/internal/config"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := NewLoggerWithWriter(cfg, &buf, nil)

	log.Info().Msg("dropped")
	log.Warn().Str("endpoint", "apply").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "apply", entry["endpoint"])
	assert.Equal(t, "go-forms", entry["service"])
}

func TestNewLoggerService_WithoutLicense(t *testing.T) {
	svc, err := NewLoggerService(config.DefaultObservabilityConfig())
	require.NoError(t, err)
	assert.Nil(t, svc.GetApplication())

	var nilSvc *LoggerService
	assert.Nil(t, nilSvc.GetApplication())
	nilSvc.Shutdown()
}

func TestNewLoggerWithWriter_ForwardsThroughAgent(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("go-forms-test"),
		newrelic.ConfigLicense("0123456789012345678901234567890123456789"),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)
	t.Cleanup(func() { app.Shutdown(0) })

	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	log := NewLoggerWithWriter(cfg, &buf, app)
	log.Info().Str("form", "newsletter").Msg("submission recorded")

	out := buf.String()
	assert.Contains(t, out, "submission recorded")
	assert.Contains(t, out, "newsletter")
}

func TestNewLoggerWithWriter_ConsoleIsNotForwarded(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("go-forms-test"),
		newrelic.ConfigLicense("0123456789012345678901234567890123456789"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)
	t.Cleanup(func() { app.Shutdown(0) })

	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "console"

	var buf bytes.Buffer
	log := NewLoggerWithWriter(cfg, &buf, app)
	log.Info().Msg("local only")

	assert.Contains(t, buf.String(), "local only")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
