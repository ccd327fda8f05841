package http

import (
	"fmt"
	"net/http"

	"caja/internal/core"
)

type expenseRequest struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Category    string     `json:"category"`
	Method      string     `json:"method"`
	Date        string     `json:"date"`
}

func (s *Server) expenseFromRequest(r *http.Request, req expenseRequest) (core.Expense, error) {
	e := core.Expense{
		UserID:      userID(r),
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
	}
	method, err := core.ParseMethod(req.Method)
	if err != nil {
		return core.Expense{}, err
	}
	e.Method = method

	if req.Date != "" {
		d, err := core.ParseDate(req.Date)
		if err != nil {
			return core.Expense{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, req.Date)
		}
		e.Date, _ = core.DayBounds(d, s.cfg.UTCOffset)
	}
	return e, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	e, err := s.expenseFromRequest(r, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.expenses.Create(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleListExpenses takes a single local day (date=) or an inclusive
// from/to range.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	var from, to core.Date
	var err error
	if r.URL.Query().Get("date") != "" {
		from, err = dateParam(r, "date")
		to = from
	} else {
		from, to, err = rangeParams(r)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	expenses, err := s.expenses.ListBetween(r.Context(), userID(r), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	e, err := s.expenseFromRequest(r, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e.ID = r.PathValue("id")

	// An update without a date keeps the stored one.
	if e.Date.IsZero() {
		current, err := s.expenses.Get(r.Context(), e.UserID, e.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		e.Date = current.Date
	}

	updated, err := s.expenses.Update(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
