package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Error codes shared by all handlers.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeInvalidParam   = "INVALID_PARAM"
	CodeInvalidID      = "INVALID_ID"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidDataset = "INVALID_DATASET"
	CodeNotReady       = "NOT_READY"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeReloadFailed   = "RELOAD_FAILED"
	CodeInternal       = "INTERNAL_ERROR"
)

// Meta holds metadata for every API response.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// ListMeta extends Meta with pagination information.
type ListMeta struct {
	Meta
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Error represents a structured API error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the standard API response wrapper. M is Meta or ListMeta.
type Envelope[M any] struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
	Meta  M      `json:"meta"`
}

// NewMeta stamps the current time. An empty requestID gets a fresh UUID.
func NewMeta(requestID string) Meta {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return Meta{
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func write[M any](w http.ResponseWriter, status int, env Envelope[M]) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes a successful JSON response.
func Success(w http.ResponseWriter, status int, data any, requestID string) {
	write(w, status, Envelope[Meta]{Data: data, Meta: NewMeta(requestID)})
}

// SuccessList writes a successful list JSON response with pagination metadata.
func SuccessList(w http.ResponseWriter, status int, data any, total, page, limit int, requestID string) {
	write(w, status, Envelope[ListMeta]{
		Data: data,
		Meta: ListMeta{Meta: NewMeta(requestID), Total: total, Page: page, Limit: limit},
	})
}

// Err writes an error JSON response.
func Err(w http.ResponseWriter, status int, code string, message string, requestID string) {
	ErrWithDetails(w, status, code, message, nil, requestID)
}

// ErrWithDetails writes an error JSON response with additional details.
func ErrWithDetails(w http.ResponseWriter, status int, code string, message string, details any, requestID string) {
	write(w, status, Envelope[Meta]{
		Error: &Error{Code: code, Message: message, Details: details},
		Meta:  NewMeta(requestID),
	})
}

// Invalid writes a 400 VALIDATION_ERROR carrying per-field details.
func Invalid(w http.ResponseWriter, details any, requestID string) {
	ErrWithDetails(w, http.StatusBadRequest, CodeValidation, "Input validation failed", details, requestID)
}
