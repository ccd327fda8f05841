package http

import "net/http"

type closeRequest struct {
	Year    int  `json:"year"`
	Month   int  `json:"month"`
	Replace bool `json:"replace"`
}

func (s *Server) handleCloseMonth(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	mc, err := s.closes.CloseMonth(r.Context(), userID(r), req.Year, req.Month, req.Replace)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mc)
}

func (s *Server) handleListCloses(w http.ResponseWriter, r *http.Request) {
	closes, err := s.closes.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, closes)
}

func (s *Server) handleClosePreview(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	preview, err := s.closes.Preview(r.Context(), userID(r), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}
