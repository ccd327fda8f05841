package http

import "net/http"

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	d, err := dateParam(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := s.reports.Daily(r.Context(), userID(r), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRangeReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := s.reports.Range(r.Context(), userID(r), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := s.reports.Monthly(r.Context(), userID(r), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
