package domain

import (
	"slices"
	"sync"
)

// Customer owns an ordered list of rentals. Totals are derived on every call.
type Customer struct {
	name string

	mu      sync.RWMutex
	rentals []Rental
}

// NewCustomer creates a customer holding a copy of rentals.
func NewCustomer(name string, rentals ...Rental) *Customer {
	return &Customer{name: name, rentals: slices.Clone(rentals)}
}

func (c *Customer) Name() string { return c.name }

// RentMovie appends a new rental. The same movie may be rented any number of times.
func (c *Customer) RentMovie(movie Movie, days int) Rental {
	r := NewRental(movie, days)
	c.mu.Lock()
	c.rentals = append(c.rentals, r)
	c.mu.Unlock()
	return r
}

// Rentals returns a copy of the rentals in the order they were added.
func (c *Customer) Rentals() []Rental {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Rental, len(c.rentals))
	copy(out, c.rentals)
	return out
}

// TotalAmount sums the price of every rental.
func (c *Customer) TotalAmount() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total float64
	for _, r := range c.rentals {
		total += r.Price()
	}
	return total
}

// TotalPoints sums the frequent-renter points of every rental.
func (c *Customer) TotalPoints() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total int
	for _, r := range c.rentals {
		total += r.Points()
	}
	return total
}

// Equal compares names and rentals in order.
func (c *Customer) Equal(other *Customer) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.name != other.name {
		return false
	}
	return slices.EqualFunc(c.Rentals(), other.Rentals(), Rental.Equal)
}
