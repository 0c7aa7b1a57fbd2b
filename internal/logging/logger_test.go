package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONWithProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "frigo.log")

	logger, err := New(path, "loja", Options{Level: zapcore.InfoLevel})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hello", zap.String("entity", "clients"))
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug filtered)", len(lines))
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["profile"] != "loja" || entry["entity"] != "clients" || entry["msg"] != "hello" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("missing ts field")
	}
}

func TestNewConsoleCore(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(filepath.Join(t.TempDir(), "frigo.log"), "main", Options{Console: &console})
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("offline")
	_ = logger.Sync()

	if !strings.Contains(console.String(), "offline") {
		t.Errorf("console output = %q", console.String())
	}
}

func TestSecretsAreMasked(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(filepath.Join(t.TempDir(), "frigo.log"), "main", Options{Console: &console})
	if err != nil {
		t.Fatal(err)
	}
	logger.With(zap.String("Authorization", "Bearer abc")).Info("login",
		zap.String("username", "ana"),
		zap.String("password", "hunter2"),
		zap.String("session_token", "xyz"),
	)
	_ = logger.Sync()

	out := console.String()
	for _, leaked := range []string{"hunter2", "xyz", "Bearer abc"} {
		if strings.Contains(out, leaked) {
			t.Errorf("%q leaked into %q", leaked, out)
		}
	}
	if !strings.Contains(out, "ana") || !strings.Contains(out, "[redacted]") {
		t.Errorf("output = %q", out)
	}
}

func TestRotateLargeLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frigo.log")
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 64), 0600); err != nil {
		t.Fatal(err)
	}
	if err := rotate(path, 1024); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("small log should not rotate")
	}
	if err := rotate(path, 32); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("rotated file missing: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("original log should have moved")
	}
}
