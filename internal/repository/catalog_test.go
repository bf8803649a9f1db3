package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Clark-Hu/movie-rental/internal/domain"
	"github.com/Clark-Hu/movie-rental/internal/pricing"
)

type CatalogSuite struct {
	suite.Suite
	catalog *Catalog

	inception domain.Movie
	dunkirk   domain.Movie
	amelie    domain.Movie
	toyStory  domain.Movie
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	s.inception = domain.NewMovie("Inception",
		domain.WithCategory(pricing.NewRelease),
		domain.WithCountry("USA"),
		domain.WithDirector("Christopher Nolan"),
		domain.WithActors("Leonardo DiCaprio", "Elliot Page"),
	)
	s.dunkirk = domain.NewMovie("Dunkirk",
		domain.WithCategory(pricing.Drama),
		domain.WithCountry("UK"),
		domain.WithDirector("Christopher Nolan"),
		domain.WithActors("Fionn Whitehead"),
	)
	s.amelie = domain.NewMovie("Amelie",
		domain.WithCategory(pricing.Comedy),
		domain.WithCountry("France"),
		domain.WithDirector("Jean-Pierre Jeunet"),
		domain.WithActors("Audrey Tautou"),
	)
	s.toyStory = domain.NewMovie("Toy Story",
		domain.WithCategory(pricing.Childrens),
		domain.WithCountry("usa"),
		domain.WithDirector("John Lasseter"),
		domain.WithActors("Tom Hanks", "Tim Allen"),
	)

	s.catalog = NewCatalog()
	for _, m := range []domain.Movie{s.inception, s.dunkirk, s.amelie, s.toyStory} {
		s.catalog.Add(m)
	}
}

func (s *CatalogSuite) titles(movies []domain.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title())
	}
	return out
}

// TestFindByTitle verifies case-insensitive title lookups.
func (s *CatalogSuite) TestFindByTitle() {
	s.Run("matches regardless of case", func() {
		got, ok := s.catalog.FindByTitle("INCEPTION")
		s.Require().True(ok)
		s.True(got.Equal(s.inception))
	})

	s.Run("misses on unknown title", func() {
		_, ok := s.catalog.FindByTitle("Memento")
		s.False(ok)
	})

	s.Run("misses on empty catalog", func() {
		_, ok := NewCatalog().FindByTitle("Inception")
		s.False(ok)
	})

	s.Run("first duplicate wins", func() {
		remake := domain.NewMovie("inception", domain.WithCategory(pricing.Thriller))
		s.catalog.Add(remake)

		got, ok := s.catalog.FindByTitle("Inception")
		s.Require().True(ok)
		s.Equal(pricing.NewRelease, got.Category())
	})
}

// TestFieldLookups verifies the secondary search helpers and their case rules.
func (s *CatalogSuite) TestFieldLookups() {
	s.Run("director is case-sensitive and keeps catalog order", func() {
		s.Equal([]string{"Inception", "Dunkirk"}, s.titles(s.catalog.FindByDirector("Christopher Nolan")))
		s.Empty(s.catalog.FindByDirector("christopher nolan"))
	})

	s.Run("category", func() {
		s.Equal([]string{"Amelie"}, s.titles(s.catalog.FindByCategory(pricing.Comedy)))
		s.Empty(s.catalog.FindByCategory(pricing.Thriller))
	})

	s.Run("country is case-insensitive", func() {
		s.Equal([]string{"Inception", "Toy Story"}, s.titles(s.catalog.FindByCountry("USA")))
		s.Equal([]string{"Amelie"}, s.titles(s.catalog.FindByCountry("france")))
	})

	s.Run("actor is exact membership", func() {
		s.Equal([]string{"Toy Story"}, s.titles(s.catalog.FindByActor("Tim Allen")))
		s.Empty(s.catalog.FindByActor("tim allen"))
		s.Empty(s.catalog.FindByActor("Tim"))
	})

	s.Run("misses return an empty non-nil slice", func() {
		got := s.catalog.FindByDirector("Nobody")
		s.NotNil(got)
		s.Empty(got)
	})
}

// TestRemove verifies structural removal semantics.
func (s *CatalogSuite) TestRemove() {
	s.Run("absent movie leaves the catalog unchanged", func() {
		before := s.catalog.List()
		absent := domain.NewMovie("Inception", domain.WithCategory(pricing.Regular))

		s.False(s.catalog.Remove(absent))
		after := s.catalog.List()
		s.Require().Len(after, len(before))
		for i := range before {
			s.True(before[i].Equal(after[i]))
		}
	})

	s.Run("removes only the first equal entry", func() {
		s.catalog.Add(s.amelie)
		s.Require().Equal(5, s.catalog.Len())

		s.True(s.catalog.Remove(s.amelie))
		s.Equal([]string{"Inception", "Dunkirk", "Toy Story", "Amelie"}, s.titles(s.catalog.List()))
	})
}

// TestList verifies List returns a defensive copy.
func (s *CatalogSuite) TestList() {
	list := s.catalog.List()
	list[0] = s.amelie
	list = append(list, s.amelie)

	s.Equal(4, s.catalog.Len())
	first, _ := s.catalog.FindByTitle("Inception")
	s.True(first.Equal(s.catalog.List()[0]))
}

func (s *CatalogSuite) TestReplace() {
	seed := []domain.Movie{s.amelie}
	s.catalog.Replace(seed)
	seed[0] = s.inception

	s.Equal([]string{"Amelie"}, s.titles(s.catalog.List()))
}

func (s *CatalogSuite) TestConcurrentAdds() {
	catalog := NewCatalog()
	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			catalog.Add(domain.NewMovie(fmt.Sprintf("Movie %d", i)))
			_ = catalog.List()
		}(i)
	}
	wg.Wait()
	s.Equal(workers, catalog.Len())
}

func (s *CatalogSuite) TestAddIfAbsent() {
	s.False(s.catalog.AddIfAbsent(domain.NewMovie("INCEPTION")))
	s.Equal(4, s.catalog.Len())

	heat := domain.NewMovie("Heat")
	s.True(s.catalog.AddIfAbsent(heat))
	s.Equal([]string{"Inception", "Dunkirk", "Amelie", "Toy Story", "Heat"}, s.titles(s.catalog.List()))
}

func (s *CatalogSuite) TestConcurrentAddIfAbsent() {
	catalog := NewCatalog()
	const workers = 16
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if catalog.AddIfAbsent(domain.NewMovie(fmt.Sprintf("Movie %d", i%4))) {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	s.Equal(4, added)
	s.Equal(4, catalog.Len())
}
