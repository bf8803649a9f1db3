package domain

import "github.com/Clark-Hu/movie-rental/internal/pricing"

// Rental binds one movie to a rental duration. Days are not validated.
type Rental struct {
	movie      Movie
	daysRented int
}

// NewRental pairs movie with daysRented.
func NewRental(movie Movie, daysRented int) Rental {
	return Rental{movie: movie, daysRented: daysRented}
}

func (r Rental) Movie() Movie    { return r.movie }
func (r Rental) DaysRented() int { return r.daysRented }

// Price applies the movie category's pricing rule.
func (r Rental) Price() float64 {
	return pricing.Price(r.movie.Category(), r.daysRented)
}

// Points applies the movie category's frequent-renter rule.
func (r Rental) Points() int {
	return pricing.Points(r.movie.Category(), r.daysRented)
}

func (r Rental) Equal(other Rental) bool {
	return r.daysRented == other.daysRented && r.movie.Equal(other.movie)
}
