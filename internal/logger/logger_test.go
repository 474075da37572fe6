package logger

import (
	"testing"

	"gamecompare/internal/config"
)

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	l, err := New(config.LogConfig{Level: "loud", Encoding: "json"})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if l.Core().Enabled(-1) {
		t.Fatalf("debug should be disabled")
	}
	if !l.Core().Enabled(0) {
		t.Fatalf("info should be enabled")
	}
}

func TestNew_UnknownEncodingUsesConsole(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "debug", Encoding: "xml"}); err != nil {
		t.Fatalf("err=%v", err)
	}
}
