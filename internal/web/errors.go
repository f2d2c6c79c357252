package web

// errors.go maps domain errors onto HTTP responses. Validation
// problems in an otherwise well-formed upload map to 422 so clients
// can tell "fix your file" apart from "fix your request".

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Krapic/examhub/internal/exam"
	"github.com/Krapic/examhub/internal/ingest"
	"github.com/Krapic/examhub/internal/logging"
	"github.com/Krapic/examhub/internal/service"
	"github.com/Krapic/examhub/internal/synth"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError logs err and writes the mapped status, code, and
// message. Internal errors are not echoed to the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	writeError(w, r, status, code, message)
}

// mapError translates a domain error into an HTTP status and a
// machine-readable code.
func mapError(err error) (int, string) {
	var (
		formatErr *ingest.FormatError
		schemaErr *ingest.SchemaError
		typeErr   *ingest.TypeError
		rangeErr  *ingest.RangeError
		emptyErr  *ingest.EmptyFieldError
		dupErr    *exam.DuplicateIDError
		capErr    *synth.CapacityError
		limitErr  *service.LimitError
	)

	switch {
	case errors.Is(err, service.ErrNoDataset):
		return http.StatusNotFound, "NO_DATASET"
	case errors.As(err, &formatErr):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT"
	case errors.As(err, &limitErr), errors.As(err, &capErr):
		return http.StatusBadRequest, "COUNT_TOO_LARGE"
	case errors.Is(err, ingest.ErrNoData):
		return http.StatusUnprocessableEntity, "NO_DATA"
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity, "MISSING_COLUMNS"
	case errors.As(err, &typeErr):
		return http.StatusUnprocessableEntity, "INVALID_VALUE"
	case errors.As(err, &rangeErr):
		return http.StatusUnprocessableEntity, "VALUE_OUT_OF_RANGE"
	case errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity, "EMPTY_FIELD"
	case errors.As(err, &dupErr):
		return http.StatusUnprocessableEntity, "DUPLICATE_STUDENT_ID"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// writeError logs and writes a JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", message,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
