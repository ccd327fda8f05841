package http

import (
	"fmt"
	"io"
	"net/http"

	"caja/internal/core"
)

type companyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Contact string `json:"contact"`
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.company.Get(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleSaveCompany creates the profile on first call and updates it
// afterwards; each user has exactly one.
func (s *Server) handleSaveCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.company.Save(r.Context(), core.Company{
		UserID:  userID(r),
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Contact: req.Contact,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := s.company.Delete(r.Context(), userID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

var errBadImage = fmt.Errorf("%w: logo must be a JPEG, PNG or GIF image", errBadJSON)

// handleUploadLogo accepts a multipart "logo" file, sniffs the real
// content type and stores it under the upload dir.
func (s *Server) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, r, fmt.Errorf("%w: %s", errBadJSON, "invalid multipart form or file too large"))
		return
	}

	file, _, err := r.FormFile("logo")
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: missing logo file", errBadJSON))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ext, ok := imageExtension(data)
	if !ok {
		writeError(w, r, errBadImage)
		return
	}

	path, err := s.company.SetLogo(r.Context(), userID(r), data, ext)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"logoPath": path})
}

func (s *Server) handleDeleteLogo(w http.ResponseWriter, r *http.Request) {
	if err := s.company.RemoveLogo(r.Context(), userID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// imageExtension sniffs the bytes rather than trusting the client's
// filename or declared content type.
func imageExtension(data []byte) (string, bool) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg", true
	case "image/png":
		return ".png", true
	case "image/gif":
		return ".gif", true
	}
	return "", false
}
