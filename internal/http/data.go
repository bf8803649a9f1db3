package httpserver

import (
	"net/http"

	"github.com/Clark-Hu/movie-rental/internal/service"
)

type dataResponse struct {
	Movies    int `json:"movies"`
	Customers int `json:"customers"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondUnauthorized(w)
		return
	}
	if err := s.svc.Save(r.Context()); err != nil {
		s.respondServiceError(w, err, "save data")
		return
	}
	s.respondJSON(w, http.StatusOK, s.dataCounts())
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondUnauthorized(w)
		return
	}
	if err := s.svc.Load(r.Context()); err != nil {
		s.respondServiceError(w, err, "load data")
		return
	}
	s.respondJSON(w, http.StatusOK, s.dataCounts())
}

func (s *Server) dataCounts() dataResponse {
	return dataResponse{
		Movies:    len(s.svc.ListMovies(service.MovieFilter{})),
		Customers: len(s.svc.ListCustomers()),
	}
}
