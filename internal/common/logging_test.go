package common

import "testing"

func TestNewSilentLogger_DoesNotPanic(t *testing.T) {
	logger := NewSilentLogger()
	logger.Info().Str("symbol", "TATATECH").Msg("silent")
	logger.Warn().Int("offset", 50).Msg("still silent")
}

func TestNewLoggerFromConfig_DefaultsToConsole(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{Level: "error"})
	if logger == nil || logger.ILogger == nil {
		t.Fatal("expected a configured logger")
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	base := NewSilentLogger()
	tagged := base.WithCorrelationId("abc-123")
	if tagged == base {
		t.Error("expected a new logger instance")
	}
}
