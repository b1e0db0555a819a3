package http

import (
	"net/http"
)

// GetCatalog handles GET /catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Planner.Catalog())
}

// GetCatalogDestinations handles GET /catalog/destinations?category=.
func (s *Server) GetCatalogDestinations(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Planner.Catalog().DestinationsIn(r.URL.Query().Get("category")))
}

// GetCatalogExperiences handles GET /catalog/experiences?category=.
func (s *Server) GetCatalogExperiences(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Planner.Catalog().ExperiencesIn(r.URL.Query().Get("category")))
}

// GetCatalogCurrencies handles GET /catalog/currencies.
func (s *Server) GetCatalogCurrencies(w http.ResponseWriter, r *http.Request) {
	cat := s.Planner.Catalog()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"base":       cat.BaseCurrency,
		"currencies": cat.Currencies,
	})
}
