package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"caja/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps domain sentinels onto HTTP statuses. Unknown errors
// become an opaque 500 so internals never leak to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidYear),
		errors.Is(err, core.ErrInvalidMethod),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyClient),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrNoItems),
		errors.Is(err, core.ErrWeakPassword),
		errors.Is(err, core.ErrEmailTaken),
		errors.Is(err, core.ErrNameTaken),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, errBadJSON):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s", errBadJSON, err)
	}
	return nil
}

var errBadJSON = errors.New("invalid request body")

// dateParam reads a required YYYY-MM-DD query parameter. A missing or
// malformed value is a client error, never silently today.
func dateParam(r *http.Request, name string) (core.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return core.Date{}, fmt.Errorf("%w: missing %q parameter", core.ErrInvalidDate, name)
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %q is not a valid %s", core.ErrInvalidDate, raw, name)
	}
	return d, nil
}

func rangeParams(r *http.Request) (from, to core.Date, err error) {
	if from, err = dateParam(r, "from"); err != nil {
		return
	}
	to, err = dateParam(r, "to")
	return
}

func yearMonthParams(r *http.Request) (year, month int, err error) {
	q := r.URL.Query()
	year, err = strconv.Atoi(q.Get("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", core.ErrInvalidYear, q.Get("year"))
	}
	month, err = strconv.Atoi(q.Get("month"))
	if err != nil || !core.ValidMonth(month) {
		return 0, 0, fmt.Errorf("%w: %q", core.ErrInvalidMonth, q.Get("month"))
	}
	return year, month, nil
}
