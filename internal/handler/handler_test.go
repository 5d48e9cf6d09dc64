package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hpnchanel/todoapi/internal/handler/dto"
	"github.com/hpnchanel/todoapi/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_Index(t *testing.T) {
	h := New(discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Index(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["version"] != Version {
		t.Errorf("unexpected version: %s", response["version"])
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := New(discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	var response dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "resource not found" {
		t.Errorf("unexpected error message: %s", response.Error)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New(discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	h.MethodNotAllowed(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestHandler_WrapErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantField  string
	}{
		{"validation", service.NewValidationError("text", "is required"), http.StatusBadRequest, "text"},
		{"wrapped validation", fmt.Errorf("create: %w", service.NewValidationError("email", "is not a valid email")), http.StatusBadRequest, "email"},
		{"duplicate", service.ErrDuplicate, http.StatusBadRequest, "email"},
		{"invalid id", service.ErrInvalidID, http.StatusNotFound, ""},
		{"not found", service.ErrNotFound, http.StatusNotFound, ""},
		{"bad credentials", service.ErrAuth, http.StatusBadRequest, ""},
		{"payload too large", errPayloadTooLarge, http.StatusRequestEntityTooLarge, ""},
		{"store failure", errors.New("connection reset"), http.StatusBadRequest, ""},
	}

	h := New(discardLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := h.Wrap(func(r *http.Request) (*Response, error) {
				return nil, tt.err
			})

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body.Error == "" {
				t.Error("expected an error message")
			}
			if body.Field != tt.wantField {
				t.Errorf("field = %q, want %q", body.Field, tt.wantField)
			}
			if strings.Contains(body.Error, "connection reset") {
				t.Error("internal error details must not leak")
			}
		})
	}
}

func TestHandler_WrapEmptyBody(t *testing.T) {
	h := New(discardLogger())
	handler := h.Wrap(func(r *http.Request) (*Response, error) {
		return &Response{Status: http.StatusOK, Header: http.Header{"X-Test": []string{"yes"}}}, nil
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
	if rec.Header().Get("X-Test") != "yes" {
		t.Error("response headers not copied")
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		var req dto.UpdateTodoRequest
		r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(""))
		if err := decodeJSON(r, &req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Text != nil || req.Completed != nil {
			t.Errorf("expected no fields, got %+v", req)
		}
	})

	t.Run("unknown fields ignored", func(t *testing.T) {
		var req dto.UpdateTodoRequest
		r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"completed":true,"owner_id":"x","completed_at":1}`))
		if err := decodeJSON(r, &req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Completed == nil || !*req.Completed {
			t.Errorf("completed not decoded: %+v", req)
		}
	})

	t.Run("non-boolean completed", func(t *testing.T) {
		var req dto.UpdateTodoRequest
		r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"completed":"true"}`))
		err := decodeJSON(r, &req)

		var ve *service.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if ve.Field != "completed" {
			t.Errorf("field = %q, want completed", ve.Field)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		var req dto.CreateTodoRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":`))
		if err := decodeJSON(r, &req); !service.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}
