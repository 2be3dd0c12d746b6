package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
)

func TestZapForwardsIntoLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := NewZapLogger(New(InfoLevel, &buf))

	zl.Info("zap message", zap.String("component", "engine"), zap.Int("iter", 3))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry not JSON: %v", err)
	}
	if entry["message"] != "zap message" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["component"] != "engine" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["iter"] != float64(3) {
		t.Errorf("iter = %v", entry["iter"])
	}
}

func TestZapRespectsLevelGate(t *testing.T) {
	var buf bytes.Buffer
	zl := NewZapLogger(New(ErrorLevel, &buf))

	zl.Debug("hidden")
	zl.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below the gate, got %q", buf.String())
	}

	zl.Error("visible")
	if buf.Len() == 0 {
		t.Error("error entry should pass the gate")
	}
}

func TestZapWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	zl := NewZapLogger(New(InfoLevel, &buf)).With(zap.String("service", "evoq"))

	zl.Info("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry not JSON: %v", err)
	}
	if entry["service"] != "evoq" {
		t.Errorf("service = %v", entry["service"])
	}
}
