package main

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"password stripped", "postgres://todo:hunter2@db:5432/todo?sslmode=disable", "postgres://todo@db:5432/todo?sslmode=disable"},
		{"redis password only", "redis://:hunter2@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"no credentials", "redis://cache:6379", "redis://cache:6379"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactURL(tt.raw); got != tt.want {
				t.Errorf("redactURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	dsn := "postgres://todo:hunter2@db:5432/todo"
	err := errors.New("failed to connect to " + dsn + ": password=hunter2 rejected")

	got := sanitizeError(err, dsn)
	if strings.Contains(got, "hunter2") {
		t.Fatalf("secret leaked: %q", got)
	}
	if !strings.Contains(got, "postgres://todo@db:5432/todo") {
		t.Errorf("expected redacted DSN in %q", got)
	}
	if !strings.Contains(got, "password=redacted") {
		t.Errorf("expected password pair redacted in %q", got)
	}

	if sanitizeError(nil, dsn) != "" {
		t.Error("nil error should sanitize to empty string")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}

	for input, want := range tests {
		if got := parseLogLevel(input); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
