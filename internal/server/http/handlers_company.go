package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var in models.CompanyInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	company, err := s.companies.Create(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.Event("company_created")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Company profile created successfully",
		"company": company,
	})
}

func (s *Server) handleGetMyCompany(w http.ResponseWriter, r *http.Request) {
	company, err := s.companies.Mine(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"company": company})
}

func (s *Server) handleUpdateMyCompany(w http.ResponseWriter, r *http.Request) {
	var in models.CompanyInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	company, err := s.companies.UpdateMine(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Company profile updated successfully",
		"company": company,
	})
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	list, err := s.companies.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"companies": list})
}

func (s *Server) handleMyCompanyQR(w http.ResponseWriter, r *http.Request) {
	qr, err := s.companies.QRCode(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.Event("qr_rendered")
	writeJSON(w, http.StatusOK, qr)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid company id")
		return
	}

	company, err := s.companies.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"company": company})
}
