package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/de-tools/port-atlas/pkg/models/api"
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// Error writes err with the status matching its domain sentinel. Unclassified errors
// are logged and reported as 500 without detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		msg = http.StatusText(status)
	}
	JSON(w, r, status, api.Error{Error: msg})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrReportNotFound), errors.Is(err, domain.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSchemaMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Months reads the months query parameter, accepting both repeated values and comma lists.
func Months(r *http.Request) (domain.MonthFilter, error) {
	var codes []string
	for _, v := range r.URL.Query()["months"] {
		codes = append(codes, strings.Split(v, ",")...)
	}
	return domain.ParseMonths(codes)
}

func Scope(r *http.Request, ports []string) (domain.PortScope, error) {
	return domain.ParsePortScope(r.URL.Query().Get("port"), ports)
}

// Int reads an optional integer query parameter.
func Int(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, name)
	}
	return v, nil
}
