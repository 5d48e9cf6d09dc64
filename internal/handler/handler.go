// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hpnchanel/todoapi/internal/handler/dto"
	"github.com/hpnchanel/todoapi/internal/middleware"
	"github.com/hpnchanel/todoapi/internal/service"
)

// Version is reported by the index endpoint.
const Version = "1.0.0"

var errPayloadTooLarge = errors.New("request body too large")

// Response is the outcome of an endpoint. A nil Body writes no body.
type Response struct {
	Status int
	Header http.Header
	Body   any
}

// OK returns a 200 response carrying body.
func OK(body any) *Response {
	return &Response{Status: http.StatusOK, Body: body}
}

// Endpoint handles one parsed request and returns its outcome.
type Endpoint func(r *http.Request) (*Response, error)

// Handler wraps application dependencies shared by HTTP handlers.
type Handler struct {
	logger *slog.Logger
}

// New creates a new Handler instance.
func New(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// Wrap adapts an Endpoint to http.HandlerFunc, rendering its response or
// translating its error into a status code and JSON error body.
func (h *Handler) Wrap(fn Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := fn(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		for key, values := range resp.Header {
			for _, v := range values {
				w.Header().Add(key, v)
			}
		}

		if resp.Body == nil {
			w.WriteHeader(resp.Status)
			return
		}
		writeJSON(w, resp.Status, resp.Body)
	}
}

// writeError maps service errors to HTTP responses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: ve.Error(), Field: ve.Field})
	case errors.Is(err, service.ErrDuplicate):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Email is already registered", Field: "email"})
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Todo not found"})
	case errors.Is(err, service.ErrAuth):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid email or password"})
	case errors.Is(err, errPayloadTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "Request body too large"})
	default:
		h.logger.Error("request failed",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.Method+" "+r.URL.Path),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Request could not be completed"})
	}
}

// Index is the root info endpoint.
// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Todo API",
		"version": Version,
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "resource not found"})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{Error: "method not allowed"})
}

// decodeJSON decodes the request body into dst. An empty body leaves dst
// untouched; unknown fields are ignored and mistyped fields are reported
// as validation errors.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		return service.NewValidationError(typeErr.Field, "must be a "+jsonTypeName(typeErr.Type.Kind().String()))
	case errors.As(err, &maxErr):
		return errPayloadTooLarge
	default:
		return service.NewValidationError("", "Invalid request body")
	}
}

func jsonTypeName(kind string) string {
	switch kind {
	case "bool":
		return "boolean"
	case "string":
		return "string"
	case "ptr":
		return "valid value"
	default:
		return kind
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
