package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
	"github.com/aliskhannn/mushaf-bot/internal/service"
)

// errInvalidParam marks a query or path parameter that failed validation.
var errInvalidParam = errors.New("invalid parameter")

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError maps service errors to HTTP statuses. Unexpected errors are
// logged and reported without details.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeDetail(w, status, "internal error")
		return
	}

	writeDetail(w, status, err.Error())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errInvalidParam):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrVerseNotFound),
		errors.Is(err, service.ErrNoQuestionsAvailable):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, service.ErrWordTooShort),
		errors.Is(err, service.ErrEmptyAnswer),
		errors.Is(err, entities.ErrInvalidScope),
		errors.Is(err, entities.ErrUnknownQuestionType):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// queryInt reads an integer query parameter within [lo, hi].
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%w: %s must be an integer in %d..%d", errInvalidParam, name, lo, hi)
	}
	return n, nil
}

// optionalInt reads an integer query parameter within [lo, hi]; zero means
// the parameter is absent.
func optionalInt(r *http.Request, name string, lo, hi int) (int, error) {
	if r.URL.Query().Get(name) == "" {
		return 0, nil
	}
	return queryInt(r, name, 0, lo, hi)
}

// queryFloat reads a float query parameter within [lo, hi].
func queryFloat(r *http.Request, name string, def, lo, hi float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < lo || f > hi {
		return 0, fmt.Errorf("%w: %s must be a number in %g..%g", errInvalidParam, name, lo, hi)
	}
	return f, nil
}

func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", errInvalidParam, name)
	}
	return b, nil
}

func pathInt64(raw, name string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errInvalidParam, name)
	}
	return n, nil
}

// params reads query parameters and keeps the first validation error.
type params struct {
	r   *http.Request
	err error
}

func (p *params) Int(name string, def, lo, hi int) int {
	if p.err != nil {
		return 0
	}
	n, err := queryInt(p.r, name, def, lo, hi)
	p.err = err
	return n
}

func (p *params) OptionalInt(name string, lo, hi int) int {
	if p.err != nil {
		return 0
	}
	n, err := optionalInt(p.r, name, lo, hi)
	p.err = err
	return n
}

func (p *params) Float(name string, def, lo, hi float64) float64 {
	if p.err != nil {
		return 0
	}
	f, err := queryFloat(p.r, name, def, lo, hi)
	p.err = err
	return f
}

func (p *params) Bool(name string, def bool) bool {
	if p.err != nil {
		return false
	}
	b, err := queryBool(p.r, name, def)
	p.err = err
	return b
}
