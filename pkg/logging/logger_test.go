package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, DebugLevel)

	log.Info("comparison complete", Field{Key: "similarity", Value: 0.8}, Field{Key: "ops", Value: 3})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "INFO" || entry["msg"] != "comparison complete" {
		t.Errorf("unexpected entry: %v", entry)
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok {
		t.Fatalf("fields missing: %v", entry)
	}
	if fields["similarity"] != 0.8 || fields["ops"] != 3.0 {
		t.Errorf("fields not carried: %v", fields)
	}
}

func TestJSONLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, WarnLevel)

	log.Debug("dropped")
	log.Info("dropped too")
	log.Warn("kept")
	log.Error("also kept")

	lines := strings.Count(buf.String(), "\n")
	if lines != 2 {
		t.Errorf("got %d lines, want 2: %s", lines, buf.String())
	}
	if strings.Contains(buf.String(), "dropped") {
		t.Error("below-level messages leaked through")
	}
}

func TestJSONLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel)

	child := log.With(Field{Key: "netlist", Value: "amp-v1"})
	child.Info("parsed", Field{Key: "components", Value: 4})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	fields := entry["fields"].(map[string]any)
	if fields["netlist"] != "amp-v1" {
		t.Errorf("parent field lost: %v", fields)
	}
	if fields["components"] != 4.0 {
		t.Errorf("call field lost: %v", fields)
	}

	// The parent stays unaffected.
	buf.Reset()
	log.Info("standalone")
	if strings.Contains(buf.String(), "amp-v1") {
		t.Error("With mutated the parent logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	// Must be safe to call and chain without output or panics.
	log.Debug("x")
	log.With(Field{Key: "a", Value: 1}).Error("y")
}
