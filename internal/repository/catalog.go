package repository

import (
	"strings"
	"sync"

	"github.com/Clark-Hu/movie-rental/internal/domain"
	"github.com/Clark-Hu/movie-rental/internal/pricing"
)

// Catalog is the in-memory movie collection. Titles are not forced to be unique;
// lookups resolve duplicates by catalog order.
type Catalog struct {
	mu     sync.RWMutex
	movies []domain.Movie
}

// NewCatalog returns a catalog seeded with a copy of movies.
func NewCatalog(movies ...domain.Movie) *Catalog {
	c := &Catalog{}
	c.movies = append(c.movies, movies...)
	return c
}

// Add appends movie unconditionally. Use AddIfAbsent to keep titles unique.
func (c *Catalog) Add(movie domain.Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies = append(c.movies, movie)
}

// AddIfAbsent appends movie unless a title matching case-insensitively is already
// present. The check and the append share one write lock.
func (c *Catalog) AddIfAbsent(movie domain.Movie) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.movies {
		if strings.EqualFold(m.Title(), movie.Title()) {
			return false
		}
	}
	c.movies = append(c.movies, movie)
	return true
}

// FindByTitle returns the first movie whose title matches case-insensitively.
func (c *Catalog) FindByTitle(title string) (domain.Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.movies {
		if strings.EqualFold(m.Title(), title) {
			return m, true
		}
	}
	return domain.Movie{}, false
}

// FindByDirector matches the director name exactly.
func (c *Catalog) FindByDirector(director string) []domain.Movie {
	return c.filter(func(m domain.Movie) bool { return m.Director() == director })
}

func (c *Catalog) FindByCategory(category pricing.Category) []domain.Movie {
	return c.filter(func(m domain.Movie) bool { return m.Category() == category })
}

// FindByCountry matches the country of origin case-insensitively.
func (c *Catalog) FindByCountry(country string) []domain.Movie {
	return c.filter(func(m domain.Movie) bool { return strings.EqualFold(m.Country(), country) })
}

// FindByActor returns movies whose cast contains actor exactly.
func (c *Catalog) FindByActor(actor string) []domain.Movie {
	return c.filter(func(m domain.Movie) bool { return m.HasActor(actor) })
}

// Remove deletes the first entry equal to movie and reports whether one was found.
func (c *Catalog) Remove(movie domain.Movie) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, m := range c.movies {
		if m.Equal(movie) {
			c.movies = append(c.movies[:i:i], c.movies[i+1:]...)
			return true
		}
	}
	return false
}

// List returns a copy of the catalog in insertion order.
func (c *Catalog) List() []domain.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Movie, len(c.movies))
	copy(out, c.movies)
	return out
}

// Replace swaps the whole catalog for a copy of movies.
func (c *Catalog) Replace(movies []domain.Movie) {
	next := make([]domain.Movie, len(movies))
	copy(next, movies)
	c.mu.Lock()
	c.movies = next
	c.mu.Unlock()
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.movies)
}

func (c *Catalog) filter(match func(domain.Movie) bool) []domain.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Movie, 0)
	for _, m := range c.movies {
		if match(m) {
			out = append(out, m)
		}
	}
	return out
}
