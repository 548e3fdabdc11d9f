package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"

	"mentor-backend/pkg/api"
)

type codedError struct {
	err       error
	code      int
	errorType string
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(code int, err error) error {
	return &codedError{err: err, code: code}
}

func CodedErrorf(code int, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code}
}

// ClassifiedErrorf attaches a machine-readable error_type to the response
// body in addition to the status code. Used for classified upstream failures.
func ClassifiedErrorf(code int, errorType, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code, errorType: errorType}
}

func ParseRequest[T any](r *http.Request) (T, error) {
	var data T
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("error parsing request body", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "invalid request format")
	}
	return data, nil
}

func ParseRequestQueryParams[T any](r *http.Request) (T, error) {
	var data T
	if err := r.ParseForm(); err != nil {
		slog.Error("error parsing form", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params")
	}

	err := schema.NewDecoder().Decode(&data, r.Form)
	if err != nil {
		slog.Error("error decoding query params", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params")
	}

	return data, nil
}

func RestHandler(handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			WriteErrorResponse(w, err)
			return
		}

		if res == nil {
			res = struct{}{}
		}

		WriteJsonResponse(w, res)
	}
}

// WriteErrorResponse maps an error to a JSON error body. Non coded errors
// become opaque 500s; their detail stays in the server log.
func WriteErrorResponse(w http.ResponseWriter, err error) {
	var cerr *codedError
	if !errors.As(err, &cerr) {
		slog.Error("received non coded error from endpoint", "error", err)
		writeJsonError(w, http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
		return
	}

	if cerr.code == http.StatusInternalServerError {
		slog.Error("internal server error received in endpoint", "error", err)
	}
	writeJsonError(w, cerr.code, api.ErrorResponse{Message: cerr.Error(), ErrorType: cerr.errorType})
}

func writeJsonError(w http.ResponseWriter, code int, body api.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("error serializing error response body", "error", err)
	}
}

func WriteJsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("error serializing response body", "error", err)
		http.Error(w, fmt.Sprintf("error serializing response body: %v", err), http.StatusInternalServerError)
	}
}

func URLParamInt(r *http.Request, key string) (int64, error) {
	param := chi.URLParam(r, key)

	if len(param) == 0 {
		return 0, CodedErrorf(http.StatusBadRequest, "missing {%v} url parameter", key)
	}

	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, CodedErrorf(http.StatusBadRequest, "invalid conversation ID")
	}

	return id, nil
}
