package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/movie-rental/internal/domain"
	"github.com/Clark-Hu/movie-rental/internal/pricing"
)

func sampleMovies() []domain.Movie {
	return []domain.Movie{
		domain.NewMovie("Inception",
			domain.WithCategory(pricing.NewRelease),
			domain.WithCountry("USA"),
			domain.WithDescription("A thief who steals secrets through dreams."),
			domain.WithDirector("Christopher Nolan"),
			domain.WithActors("Leonardo DiCaprio", "Elliot Page", "Tom Hardy"),
		),
		domain.NewMovie("Toy Story", domain.WithCategory(pricing.Childrens)),
		// Duplicate title with different fields.
		domain.NewMovie("inception",
			domain.WithCategory(pricing.Thriller),
			domain.WithActors("Tom Hardy"),
		),
		domain.NewMovie("Amélie", domain.WithCategory(pricing.Comedy), domain.WithCountry("France")),
	}
}

func sampleCustomers() []*domain.Customer {
	movies := sampleMovies()
	ann := domain.NewCustomer("Ann")
	ann.RentMovie(movies[0], 3)
	ann.RentMovie(movies[1], 5)
	ann.RentMovie(movies[0], 1)

	bob := domain.NewCustomer("Bob")

	cid := domain.NewCustomer("Cid")
	cid.RentMovie(movies[2], -1)
	cid.RentMovie(movies[3], 0)

	return []*domain.Customer{ann, bob, cid}
}

func requireMoviesEqual(t *testing.T, want, got []domain.Movie) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Truef(t, want[i].Equal(got[i]), "movie %d: want %+v, got %+v", i, want[i], got[i])
	}
}

func requireCustomersEqual(t *testing.T, want, got []*domain.Customer) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Truef(t, want[i].Equal(got[i]), "customer %d (%s) differs", i, want[i].Name())
		assert.InDelta(t, want[i].TotalAmount(), got[i].TotalAmount(), 0.001)
		assert.Equal(t, want[i].TotalPoints(), got[i].TotalPoints())
	}
}
