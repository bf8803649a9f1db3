package repository

import "github.com/Clark-Hu/movie-rental/internal/domain"

// Repository aggregates the catalog and the customer roster.
type Repository struct {
	Movies    *Catalog
	Customers *Roster
}

// New constructs an empty Repository.
func New() *Repository {
	return &Repository{
		Movies:    NewCatalog(),
		Customers: NewRoster(),
	}
}

// NewWithData seeds both collections with copies of movies and customers.
func NewWithData(movies []domain.Movie, customers []*domain.Customer) *Repository {
	return &Repository{
		Movies:    NewCatalog(movies...),
		Customers: NewRoster(customers...),
	}
}
