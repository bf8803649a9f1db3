package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movie-rental/internal/domain"
	"github.com/Clark-Hu/movie-rental/internal/pricing"
	"github.com/Clark-Hu/movie-rental/internal/service"
	"github.com/Clark-Hu/movie-rental/internal/store"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type movieCreateRequest struct {
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category"`
	Country     string   `json:"country"`
	Description string   `json:"description"`
	Director    string   `json:"director"`
	Actors      []string `json:"actors"`
}

type movieListResponse struct {
	Items []movieResponse `json:"items"`
}

type movieResponse struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Country     string   `json:"country,omitempty"`
	Description string   `json:"description,omitempty"`
	Director    string   `json:"director,omitempty"`
	Actors      []string `json:"actors"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	filter, err := buildMovieFilter(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	movies := s.svc.ListMovies(filter)
	items := make([]movieResponse, 0, len(movies))
	for _, m := range movies {
		items = append(items, toMovieResponse(m))
	}
	s.respondJSON(w, http.StatusOK, movieListResponse{Items: items})
}

func buildMovieFilter(query url.Values) (service.MovieFilter, error) {
	var filter service.MovieFilter

	if val := strings.TrimSpace(query.Get("director")); val != "" {
		filter.Director = &val
	}
	if val := strings.TrimSpace(query.Get("category")); val != "" {
		category, ok := pricing.LookupCategory(val)
		if !ok {
			return filter, fmt.Errorf("invalid category value")
		}
		filter.Category = &category
	}
	if val := strings.TrimSpace(query.Get("country")); val != "" {
		filter.Country = &val
	}
	if val := strings.TrimSpace(query.Get("actor")); val != "" {
		filter.Actor = &val
	}
	return filter, nil
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondUnauthorized(w)
		return
	}

	var req movieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", validationMessage(err))
		return
	}

	movie, err := s.svc.AddMovie(r.Context(), service.MovieInput{
		Title:       req.Title,
		Category:    req.Category,
		Country:     req.Country,
		Description: req.Description,
		Director:    req.Director,
		Actors:      req.Actors,
	})
	if err != nil {
		s.respondServiceError(w, err, "create movie")
		return
	}

	w.Header().Set("Location", "/movies/"+url.PathEscape(movie.Title()))
	s.respondJSON(w, http.StatusCreated, toMovieResponse(movie))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	title, err := decodePathParam(r, "title")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	movie, err := s.svc.Movie(title)
	if err != nil {
		s.respondServiceError(w, err, "get movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie))
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondUnauthorized(w)
		return
	}
	title, err := decodePathParam(r, "title")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if err := s.svc.RemoveMovie(title); err != nil {
		s.respondServiceError(w, err, "delete movie")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		Title:       movie.Title(),
		Category:    movie.Category().String(),
		Country:     movie.Country(),
		Description: movie.Description(),
		Director:    movie.Director(),
		Actors:      movie.Actors(),
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondUnauthorized(w http.ResponseWriter) {
	s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
}

// respondServiceError maps service and store sentinels onto HTTP statuses.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, store.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrDuplicate):
		s.respondError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, service.ErrIncompleteSnapshot):
		s.respondError(w, http.StatusConflict, "INCOMPLETE_SNAPSHOT", err.Error())
	case errors.Is(err, service.ErrInvalid):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	default:
		s.logger.Printf("%s error: %v", action, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+action)
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

// decodePathParam returns the decoded route parameter. chi matches on RawPath when the
// request carries one, so the value is only unescaped in that case.
func decodePathParam(r *http.Request, key string) (string, error) {
	raw := chi.URLParam(r, key)
	if raw == "" {
		return "", fmt.Errorf("missing %s parameter", key)
	}
	if r.URL.RawPath == "" {
		return raw, nil
	}
	val, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s parameter", key)
	}
	return val, nil
}

func (s *Server) verifyBearer(header string) bool {
	if header == "" {
		return false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token != "" && token == s.cfg.AuthToken
}
