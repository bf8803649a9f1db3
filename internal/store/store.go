package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Clark-Hu/movie-rental/internal/domain"
	"github.com/Clark-Hu/movie-rental/internal/pricing"
)

var (
	// ErrIO marks a failed read or write. Nothing is partially written when it is returned from a save.
	ErrIO = errors.New("store: io error")
	// ErrFormat marks a payload that could not be decoded into the domain model.
	ErrFormat = errors.New("store: malformed data")
	// ErrNotFound marks a missing source; it always travels together with ErrIO.
	ErrNotFound = errors.New("not found")
)

// Persister saves and restores the catalog and the customer roster.
// Destinations and sources are opaque names interpreted by the implementation.
type Persister interface {
	SaveMovies(ctx context.Context, destination string, movies []domain.Movie) error
	LoadMovies(ctx context.Context, source string) ([]domain.Movie, error)
	SaveCustomers(ctx context.Context, destination string, customers []*domain.Customer) error
	LoadCustomers(ctx context.Context, source string) ([]*domain.Customer, error)
}

type movieRecord struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Country     string   `json:"countryOfOrigin,omitempty"`
	Description string   `json:"description,omitempty"`
	Director    string   `json:"director,omitempty"`
	Actors      []string `json:"actors"`
}

type rentalRecord struct {
	Movie      movieRecord `json:"movie"`
	DaysRented int         `json:"daysRented"`
}

type customerRecord struct {
	Name    string         `json:"name"`
	Rentals []rentalRecord `json:"rentals"`
}

func toMovieRecord(m domain.Movie) movieRecord {
	return movieRecord{
		Title:       m.Title(),
		Category:    m.Category().String(),
		Country:     m.Country(),
		Description: m.Description(),
		Director:    m.Director(),
		Actors:      m.Actors(),
	}
}

func (r movieRecord) toDomain() (domain.Movie, error) {
	category, ok := pricing.LookupCategory(r.Category)
	if !ok {
		return domain.Movie{}, fmt.Errorf("%w: movie %q has unknown category %q", ErrFormat, r.Title, r.Category)
	}
	return domain.NewMovie(r.Title,
		domain.WithCategory(category),
		domain.WithCountry(r.Country),
		domain.WithDescription(r.Description),
		domain.WithDirector(r.Director),
		domain.WithActors(r.Actors...),
	), nil
}

func toCustomerRecord(c *domain.Customer) customerRecord {
	rentals := c.Rentals()
	rec := customerRecord{Name: c.Name(), Rentals: make([]rentalRecord, 0, len(rentals))}
	for _, r := range rentals {
		rec.Rentals = append(rec.Rentals, rentalRecord{Movie: toMovieRecord(r.Movie()), DaysRented: r.DaysRented()})
	}
	return rec
}

func (r customerRecord) toDomain() (*domain.Customer, error) {
	rentals := make([]domain.Rental, 0, len(r.Rentals))
	for _, rr := range r.Rentals {
		movie, err := rr.Movie.toDomain()
		if err != nil {
			return nil, fmt.Errorf("customer %q: %w", r.Name, err)
		}
		rentals = append(rentals, domain.NewRental(movie, rr.DaysRented))
	}
	return domain.NewCustomer(r.Name, rentals...), nil
}
