package linker

import (
	"testing"

	"go.uber.org/zap"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(zap.NewNop())

	custom := zap.NewNop().Named("resolve")
	SetLogger(custom)
	if Logger() != custom {
		t.Fatal("SetLogger did not replace the package logger")
	}
}
