package repository

import (
	"strings"
	"sync"

	"github.com/Clark-Hu/movie-rental/internal/domain"
)

// Roster is the in-memory customer collection.
type Roster struct {
	mu        sync.RWMutex
	customers []*domain.Customer
}

func NewRoster(customers ...*domain.Customer) *Roster {
	r := &Roster{}
	r.customers = append(r.customers, customers...)
	return r
}

// Add appends customer without checking for an existing name.
func (r *Roster) Add(customer *domain.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = append(r.customers, customer)
}

// AddIfAbsent appends customer unless the name is already taken, ignoring case.
func (r *Roster) AddIfAbsent(customer *domain.Customer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if strings.EqualFold(c.Name(), customer.Name()) {
			return false
		}
	}
	r.customers = append(r.customers, customer)
	return true
}

// FindByName returns the first customer whose name matches case-insensitively.
func (r *Roster) FindByName(name string) (*domain.Customer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if strings.EqualFold(c.Name(), name) {
			return c, true
		}
	}
	return nil, false
}

// List returns a copy of the roster sequence. Customers themselves are shared.
func (r *Roster) List() []*domain.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Customer, len(r.customers))
	copy(out, r.customers)
	return out
}

func (r *Roster) Replace(customers []*domain.Customer) {
	next := make([]*domain.Customer, len(customers))
	copy(next, customers)
	r.mu.Lock()
	r.customers = next
	r.mu.Unlock()
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers)
}
