package domain

import (
	"slices"

	"github.com/Clark-Hu/movie-rental/internal/pricing"
)

// Movie is an immutable catalog entry. Build it with NewMovie.
type Movie struct {
	title       string
	category    pricing.Category
	country     string
	description string
	director    string
	actors      []string
}

// MovieOption sets an optional Movie field.
type MovieOption func(*Movie)

// WithCategory sets the pricing category; invalid values are replaced by Regular.
func WithCategory(c pricing.Category) MovieOption {
	return func(m *Movie) { m.category = c }
}

// WithCountry sets the country of origin.
func WithCountry(country string) MovieOption {
	return func(m *Movie) { m.country = country }
}

func WithDescription(description string) MovieOption {
	return func(m *Movie) { m.description = description }
}

func WithDirector(director string) MovieOption {
	return func(m *Movie) { m.director = director }
}

// WithActors sets the cast in billing order. The slice is copied.
func WithActors(actors ...string) MovieOption {
	return func(m *Movie) { m.actors = slices.Clone(actors) }
}

// NewMovie builds a Movie. Nothing is validated beyond defaulting the category.
func NewMovie(title string, opts ...MovieOption) Movie {
	m := Movie{title: title, category: pricing.Regular}
	for _, opt := range opts {
		opt(&m)
	}
	if !m.category.Valid() {
		m.category = pricing.Regular
	}
	if m.actors == nil {
		m.actors = []string{}
	}
	return m
}

func (m Movie) Title() string              { return m.title }
func (m Movie) Category() pricing.Category { return m.category }
func (m Movie) Country() string            { return m.country }
func (m Movie) Description() string        { return m.description }
func (m Movie) Director() string           { return m.director }

// Actors returns a copy of the cast list.
func (m Movie) Actors() []string {
	return slices.Clone(m.actors)
}

// HasActor reports exact membership in the cast list.
func (m Movie) HasActor(actor string) bool {
	return slices.Contains(m.actors, actor)
}

// Equal compares every field, including actor order.
func (m Movie) Equal(other Movie) bool {
	return m.title == other.title &&
		m.category == other.category &&
		m.country == other.country &&
		m.description == other.description &&
		m.director == other.director &&
		slices.Equal(m.actors, other.actors)
}
