package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/keerthikaa27/factory-order-dashboard/config"
)

func TestNewLevels(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}

	logger, err = New(config.LogConfig{Level: "warn", Development: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
