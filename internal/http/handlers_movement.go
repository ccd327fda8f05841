package http

import (
	"fmt"
	"net/http"

	"caja/internal/core"
)

type movementRequest struct {
	Kind        string     `json:"kind"`
	Amount      core.Money `json:"amount"`
	Method      string     `json:"method"`
	Description string     `json:"description"`
	Client      string     `json:"client"`
	Date        string     `json:"date"`
}

func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	kind, err := core.ParseMovementKind(req.Kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	method, err := core.ParseMethod(req.Method)
	if err != nil {
		writeError(w, r, err)
		return
	}

	m := core.Movement{
		UserID:      userID(r),
		Kind:        kind,
		Amount:      req.Amount,
		Method:      method,
		Description: req.Description,
		Client:      req.Client,
	}
	if req.Date != "" {
		d, err := core.ParseDate(req.Date)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %q", core.ErrInvalidDate, req.Date))
			return
		}
		m.Date, _ = core.DayBounds(d, s.cfg.UTCOffset)
	}

	created, err := s.movements.Record(r.Context(), m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleListMovements returns one local day of movements, newest
// first. The date parameter is required.
func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	d, err := dateParam(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	movements, err := s.movements.ListDay(r.Context(), userID(r), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

func (s *Server) handleDeleteMovement(w http.ResponseWriter, r *http.Request) {
	if err := s.movements.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleMovementSummary serves the kind-by-method grid: a single day
// with date=, or a per-day breakdown plus totals with from= and to=.
func (s *Server) handleMovementSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") != "" || q.Get("to") != "" {
		from, to, err := rangeParams(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		summary, err := s.movements.RangeSummary(r.Context(), userID(r), from, to)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
		return
	}

	d, err := dateParam(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := s.movements.DaySummary(r.Context(), userID(r), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
