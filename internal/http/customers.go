package httpserver

import (
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/Clark-Hu/movie-rental/internal/domain"
	"github.com/Clark-Hu/movie-rental/internal/report"
	"github.com/Clark-Hu/movie-rental/internal/service"
)

type rentalRequest struct {
	Title string `json:"title" validate:"required"`
	Days  int    `json:"days" validate:"min=1"`
}

type customerCreateRequest struct {
	Name    string          `json:"name" validate:"required"`
	Rentals []rentalRequest `json:"rentals" validate:"dive"`
}

func (r *rentalRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *customerCreateRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	for i := range r.Rentals {
		r.Rentals[i].normalize()
	}
}

type rentalResponse struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Days     int     `json:"days"`
	Price    float64 `json:"price"`
	Points   int     `json:"points"`
}

type customerResponse struct {
	Name        string           `json:"name"`
	Rentals     []rentalResponse `json:"rentals"`
	TotalAmount float64          `json:"totalAmount"`
	TotalPoints int              `json:"totalPoints"`
}

type customerListResponse struct {
	Items []customerResponse `json:"items"`
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers := s.svc.ListCustomers()
	items := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		items = append(items, toCustomerResponse(c))
	}
	s.respondJSON(w, http.StatusOK, customerListResponse{Items: items})
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondUnauthorized(w)
		return
	}

	var req customerCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.normalize()
	if err := validate.Struct(req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", validationMessage(err))
		return
	}
	rentals := make([]service.RentalInput, 0, len(req.Rentals))
	for _, rr := range req.Rentals {
		rentals = append(rentals, service.RentalInput{Title: rr.Title, Days: rr.Days})
	}

	customer, err := s.svc.AddCustomer(req.Name, rentals)
	if err != nil {
		s.respondServiceError(w, err, "create customer")
		return
	}

	w.Header().Set("Location", "/customers/"+url.PathEscape(customer.Name()))
	s.respondJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	name, err := decodePathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	customer, err := s.svc.Customer(name)
	if err != nil {
		s.respondServiceError(w, err, "get customer")
		return
	}
	s.respondJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (s *Server) handleCreateRental(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondUnauthorized(w)
		return
	}
	name, err := decodePathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req rentalRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.normalize()
	if err := validate.Struct(req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", validationMessage(err))
		return
	}

	rental, err := s.svc.RentMovie(name, req.Title, req.Days)
	if err != nil {
		s.respondServiceError(w, err, "create rental")
		return
	}
	s.respondJSON(w, http.StatusCreated, toRentalResponse(rental))
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	name, err := decodePathParam(r, "name")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	format := report.Format(strings.TrimSpace(r.URL.Query().Get("format")))
	statement, err := s.svc.Statement(name, format)
	if err != nil {
		s.respondServiceError(w, err, "render statement")
		return
	}
	w.Header().Set("Content-Type", statement.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(statement.Body))
}

func toCustomerResponse(c *domain.Customer) customerResponse {
	rentals := c.Rentals()
	resp := customerResponse{
		Name:        c.Name(),
		Rentals:     make([]rentalResponse, 0, len(rentals)),
		TotalAmount: roundToCents(c.TotalAmount()),
		TotalPoints: c.TotalPoints(),
	}
	for _, r := range rentals {
		resp.Rentals = append(resp.Rentals, toRentalResponse(r))
	}
	return resp
}

func toRentalResponse(r domain.Rental) rentalResponse {
	return rentalResponse{
		Title:    r.Movie().Title(),
		Category: r.Movie().Category().String(),
		Days:     r.DaysRented(),
		Price:    roundToCents(r.Price()),
		Points:   r.Points(),
	}
}

func roundToCents(value float64) float64 {
	return math.Round(value*100) / 100
}
