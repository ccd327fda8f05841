package http

import (
	"errors"
	"fmt"
	"net/http"

	"caja/internal/core"
	"caja/internal/services"
	"caja/internal/storage"
)

type createInvoiceRequest struct {
	Client     string             `json:"client"`
	Date       string             `json:"date"`
	Items      []core.InvoiceItem `json:"items"`
	Total      core.Money         `json:"total"`
	AmountPaid core.Money         `json:"amountPaid"`
	Method     string             `json:"method"`
}

type paymentRequest struct {
	Amount core.Money `json:"amount"`
	Method string     `json:"method"`
}

type replaceItemsRequest struct {
	Items []core.InvoiceItem `json:"items"`
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	inv := core.Invoice{
		UserID: userID(r),
		Client: req.Client,
		Items:  req.Items,
		Total:  req.Total,
	}
	if req.Date != "" {
		d, err := core.ParseDate(req.Date)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %q", core.ErrInvalidDate, req.Date))
			return
		}
		inv.Date, _ = core.DayBounds(d, s.cfg.UTCOffset)
	}

	var initial *services.PaymentInput
	if !req.AmountPaid.IsZero() {
		method, err := core.ParseMethod(req.Method)
		if err != nil {
			writeError(w, r, err)
			return
		}
		initial = &services.PaymentInput{Amount: req.AmountPaid, Method: method}
	}

	created, err := s.invoices.Create(r.Context(), inv, initial)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.invoices.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// handleListInvoices accepts an optional single local day (date=) or
// from/to bounds, a client substring and pending=true to keep only
// invoices with a balance due.
func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f storage.InvoiceFilter
	f.Client = q.Get("client")
	f.PendingOnly = q.Get("pending") == "true"

	if q.Get("date") != "" {
		d, err := dateParam(r, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		start, end := core.DayBounds(d, s.cfg.UTCOffset)
		f.From = start.UnixMilli()
		f.To = end.UnixMilli()
	}
	if q.Get("from") != "" {
		from, err := dateParam(r, "from")
		if err != nil {
			writeError(w, r, err)
			return
		}
		start, _ := core.DayBounds(from, s.cfg.UTCOffset)
		f.From = start.UnixMilli()
	}
	if q.Get("to") != "" {
		to, err := dateParam(r, "to")
		if err != nil {
			writeError(w, r, err)
			return
		}
		_, end := core.DayBounds(to, s.cfg.UTCOffset)
		f.To = end.UnixMilli()
	}

	invs, err := s.invoices.List(r.Context(), userID(r), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invs)
}

func (s *Server) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	method, err := core.ParseMethod(req.Method)
	if err != nil {
		writeError(w, r, err)
		return
	}

	inv, err := s.invoices.RecordPayment(r.Context(), userID(r), r.PathValue("id"), services.PaymentInput{
		Amount: req.Amount,
		Method: method,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleReplaceItems(w http.ResponseWriter, r *http.Request) {
	var req replaceItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	inv, err := s.invoices.ReplaceItems(r.Context(), userID(r), r.PathValue("id"), req.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// handleInvoiceDocument renders the plain-text receipt and serves it as
// a download. A missing company profile renders a bare receipt.
func (s *Server) handleInvoiceDocument(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	inv, err := s.invoices.Get(r.Context(), uid, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	company, err := s.company.Get(r.Context(), uid)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		writeError(w, r, err)
		return
	}

	path, err := s.docs.RenderReceipt(inv, company)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("receipt_%s.txt", inv.ID)))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	http.ServeFile(w, r, path)
}
