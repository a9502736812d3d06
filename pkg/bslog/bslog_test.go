package bslog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := New("prod", &buf)

	logger.Info("refreshed session", "access_token", "eyJhbGciOi.secret", "Authorization", "Bearer abc", "status", 201)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}

	for _, key := range []string{"access_token", "Authorization"} {
		if record[key] != "[REDACTED]" {
			t.Errorf("expected %s to be redacted, got: %v", key, record[key])
		}
	}
	if record["status"] != float64(201) {
		t.Errorf("expected status: 201, got: %v", record["status"])
	}
	if strings.Contains(buf.String(), "secret") {
		t.Errorf("token material leaked into the log: %s", buf.String())
	}
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		wantDebug bool
	}{
		{name: "prod-drops-debug", env: "prod", wantDebug: false},
		{name: "dev-keeps-debug", env: "dev", wantDebug: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(tt.env, &buf).Debug("debug line")
			if got := bytes.Contains(buf.Bytes(), []byte("debug line")); got != tt.wantDebug {
				t.Errorf("expected debug output: %v, got: %v", tt.wantDebug, got)
			}
		})
	}
}

func TestDevModeAddsCaller(t *testing.T) {
	var buf bytes.Buffer
	New("dev", &buf).Info("hello")

	for _, want := range []string{"env=dev", "caller_meta_data.func="} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in: %s", want, buf.String())
		}
	}
}

func TestFatalLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := New("prod", &buf)
	logger.Log(t.Context(), LevelFatal, "boom")

	if !strings.Contains(buf.String(), `"level":"FATAL"`) {
		t.Errorf("expected FATAL level name, got: %s", buf.String())
	}
}

func TestComponentTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	New("prod", &buf).Component("interceptor").Info("session refreshed")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if record[ComponentKey] != "interceptor" {
		t.Errorf("expected component: interceptor, got: %v", record[ComponentKey])
	}
}
