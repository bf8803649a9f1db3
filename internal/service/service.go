package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Clark-Hu/movie-rental/internal/domain"
	"github.com/Clark-Hu/movie-rental/internal/metadata"
	"github.com/Clark-Hu/movie-rental/internal/metrics"
	"github.com/Clark-Hu/movie-rental/internal/pricing"
	"github.com/Clark-Hu/movie-rental/internal/report"
	"github.com/Clark-Hu/movie-rental/internal/repository"
	"github.com/Clark-Hu/movie-rental/internal/store"
)

var (
	// ErrNotFound indicates the requested movie or customer does not exist.
	ErrNotFound = errors.New("rental: not found")
	// ErrDuplicate indicates a movie title or customer name is already taken.
	ErrDuplicate = errors.New("rental: already exists")
	// ErrInvalid indicates input the service refuses to act on.
	ErrInvalid = errors.New("rental: invalid input")
	// ErrIncompleteSnapshot indicates only one of the two collections has been saved.
	ErrIncompleteSnapshot = errors.New("rental: incomplete snapshot")
)

const (
	DefaultMoviesSnapshot    = "catalog.json"
	DefaultCustomersSnapshot = "customers.json"
)

// Service runs the catalog and customer operations on top of the repositories.
type Service struct {
	repo      *repository.Repository
	persister store.Persister
	renderers map[report.Format]report.Renderer
	metadata  metadata.Client
	metrics   *metrics.Metrics
	logger    *log.Logger

	moviesSnapshot    string
	customersSnapshot string
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithMetadata enables filling missing movie details on AddMovie.
func WithMetadata(c metadata.Client) Option {
	return func(s *Service) { s.metadata = c }
}

// WithRenderer registers or replaces the statement renderer for format.
func WithRenderer(format report.Format, r report.Renderer) Option {
	return func(s *Service) { s.renderers[format] = r }
}

// WithSnapshotNames sets the destinations used by Save and Load.
func WithSnapshotNames(movies, customers string) Option {
	return func(s *Service) {
		if movies != "" {
			s.moviesSnapshot = movies
		}
		if customers != "" {
			s.customersSnapshot = customers
		}
	}
}

// New constructs a Service. The text and HTML renderers are registered by default.
func New(repo *repository.Repository, persister store.Persister, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		persister: persister,
		renderers: map[report.Format]report.Renderer{
			report.FormatText: report.Text{},
			report.FormatHTML: report.HTML{},
		},
		logger:            log.Default(),
		moviesSnapshot:    DefaultMoviesSnapshot,
		customersSnapshot: DefaultCustomersSnapshot,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.refreshSizes()
	return s
}

// MovieInput carries the fields of a new catalog entry.
type MovieInput struct {
	Title       string
	Category    string
	Country     string
	Description string
	Director    string
	Actors      []string
}

// MovieFilter narrows ListMovies. Set fields are combined with AND.
type MovieFilter struct {
	Director *string
	Category *pricing.Category
	Country  *string
	Actor    *string
}

// RentalInput names a catalog title and a duration.
type RentalInput struct {
	Title string
	Days  int
}

// Statement is a rendered rental report.
type Statement struct {
	Body        string
	ContentType string
}

// ListMovies returns the catalog, narrowed by filter.
func (s *Service) ListMovies(filter MovieFilter) []domain.Movie {
	catalog := s.repo.Movies
	var sets [][]domain.Movie
	if filter.Director != nil {
		sets = append(sets, catalog.FindByDirector(*filter.Director))
	}
	if filter.Category != nil {
		sets = append(sets, catalog.FindByCategory(*filter.Category))
	}
	if filter.Country != nil {
		sets = append(sets, catalog.FindByCountry(*filter.Country))
	}
	if filter.Actor != nil {
		sets = append(sets, catalog.FindByActor(*filter.Actor))
	}
	if len(sets) == 0 {
		return catalog.List()
	}

	result := sets[0]
	for _, next := range sets[1:] {
		result = intersect(result, next)
	}
	return result
}

// Movie looks up a movie by title, ignoring case.
func (s *Service) Movie(title string) (domain.Movie, error) {
	m, ok := s.repo.Movies.FindByTitle(title)
	if !ok {
		return domain.Movie{}, fmt.Errorf("%w: movie %q", ErrNotFound, title)
	}
	return m, nil
}

// AddMovie adds a movie unless the title is already in the catalog. Unknown
// categories fall back to REGULAR. Missing details are filled from the
// metadata client when one is configured.
func (s *Service) AddMovie(ctx context.Context, in MovieInput) (domain.Movie, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Movie{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if _, exists := s.repo.Movies.FindByTitle(title); exists {
		return domain.Movie{}, fmt.Errorf("%w: movie %q", ErrDuplicate, title)
	}

	in = s.enrich(ctx, title, in)
	movie := domain.NewMovie(title,
		domain.WithCategory(pricing.ParseCategory(in.Category)),
		domain.WithCountry(strings.TrimSpace(in.Country)),
		domain.WithDescription(strings.TrimSpace(in.Description)),
		domain.WithDirector(strings.TrimSpace(in.Director)),
		domain.WithActors(cleanActors(in.Actors)...),
	)
	if !s.repo.Movies.AddIfAbsent(movie) {
		return domain.Movie{}, fmt.Errorf("%w: movie %q", ErrDuplicate, title)
	}
	s.refreshSizes()
	s.logger.Printf("service: added movie %q (%s)", movie.Title(), movie.Category())
	return movie, nil
}

// RemoveMovie deletes the movie found by title. Existing rentals keep their copy.
func (s *Service) RemoveMovie(title string) error {
	movie, err := s.Movie(title)
	if err != nil {
		return err
	}
	if !s.repo.Movies.Remove(movie) {
		return fmt.Errorf("%w: movie %q", ErrNotFound, title)
	}
	s.refreshSizes()
	s.logger.Printf("service: removed movie %q", movie.Title())
	return nil
}

func (s *Service) ListCustomers() []*domain.Customer {
	return s.repo.Customers.List()
}

// Customer looks up a customer by name, ignoring case.
func (s *Service) Customer(name string) (*domain.Customer, error) {
	c, ok := s.repo.Customers.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: customer %q", ErrNotFound, name)
	}
	return c, nil
}

// AddCustomer registers a customer with optional initial rentals. Every title must
// resolve before anything is added.
func (s *Service) AddCustomer(name string, rentals []RentalInput) (*domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if _, exists := s.repo.Customers.FindByName(name); exists {
		return nil, fmt.Errorf("%w: customer %q", ErrDuplicate, name)
	}

	resolved := make([]domain.Rental, 0, len(rentals))
	for _, in := range rentals {
		movie, err := s.Movie(in.Title)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, domain.NewRental(movie, in.Days))
	}

	customer := domain.NewCustomer(name, resolved...)
	if !s.repo.Customers.AddIfAbsent(customer) {
		return nil, fmt.Errorf("%w: customer %q", ErrDuplicate, name)
	}
	for _, r := range resolved {
		s.metrics.ObserveRental(r)
	}
	s.refreshSizes()
	s.logger.Printf("service: added customer %q with %d rentals", name, len(resolved))
	return customer, nil
}

// RentMovie records a rental of title for the named customer.
func (s *Service) RentMovie(customerName, title string, days int) (domain.Rental, error) {
	customer, err := s.Customer(customerName)
	if err != nil {
		return domain.Rental{}, err
	}
	movie, err := s.Movie(title)
	if err != nil {
		return domain.Rental{}, err
	}
	rental := customer.RentMovie(movie, days)
	s.metrics.ObserveRental(rental)
	s.logger.Printf("service: %q rented %q for %d days (%.2f, %d points)",
		customer.Name(), movie.Title(), days, rental.Price(), rental.Points())
	return rental, nil
}

// Statement renders the named customer's rentals in format.
func (s *Service) Statement(customerName string, format report.Format) (Statement, error) {
	key := report.Format(strings.ToLower(string(format)))
	if key == "" {
		key = report.FormatText
	}
	renderer, ok := s.renderers[key]
	if !ok {
		return Statement{}, fmt.Errorf("%w: unsupported statement format %q", ErrInvalid, format)
	}
	customer, err := s.Customer(customerName)
	if err != nil {
		return Statement{}, err
	}
	body, err := renderer.Render(customer)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Body: body, ContentType: renderer.ContentType()}, nil
}

// Save writes the catalog and then the roster. Each write is all-or-nothing.
func (s *Service) Save(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.metrics.ObservePersistence("save", start, err) }()

	movies := s.repo.Movies.List()
	if err := s.persister.SaveMovies(ctx, s.moviesSnapshot, movies); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	customers := s.repo.Customers.List()
	if err := s.persister.SaveCustomers(ctx, s.customersSnapshot, customers); err != nil {
		return fmt.Errorf("save customers: %w", err)
	}
	s.logger.Printf("service: saved %d movies and %d customers", len(movies), len(customers))
	return nil
}

// Load reads both collections concurrently and swaps them in only when both decode.
// It wraps store.ErrNotFound only when neither collection has been saved; when just
// one is missing it returns ErrIncompleteSnapshot.
func (s *Service) Load(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.metrics.ObservePersistence("load", start, err) }()

	var (
		movies           []domain.Movie
		customers        []*domain.Customer
		moviesMissing    error
		customersMissing error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies, err = s.persister.LoadMovies(gctx, s.moviesSnapshot)
		switch {
		case errors.Is(err, store.ErrNotFound):
			moviesMissing = fmt.Errorf("load catalog: %w", err)
		case err != nil:
			return fmt.Errorf("load catalog: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		customers, err = s.persister.LoadCustomers(gctx, s.customersSnapshot)
		switch {
		case errors.Is(err, store.ErrNotFound):
			customersMissing = fmt.Errorf("load customers: %w", err)
		case err != nil:
			return fmt.Errorf("load customers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	switch {
	case moviesMissing != nil && customersMissing != nil:
		return errors.Join(moviesMissing, customersMissing)
	case moviesMissing != nil:
		return fmt.Errorf("%w: %v", ErrIncompleteSnapshot, moviesMissing)
	case customersMissing != nil:
		return fmt.Errorf("%w: %v", ErrIncompleteSnapshot, customersMissing)
	}

	s.repo.Movies.Replace(movies)
	s.repo.Customers.Replace(customers)
	s.refreshSizes()
	s.logger.Printf("service: loaded %d movies and %d customers", len(movies), len(customers))
	return nil
}

func (s *Service) enrich(ctx context.Context, title string, in MovieInput) MovieInput {
	if s.metadata == nil {
		return in
	}
	if in.Director != "" && in.Country != "" && in.Description != "" && len(in.Actors) > 0 {
		return in
	}

	details, err := s.metadata.Lookup(ctx, title)
	if err != nil {
		if !errors.Is(err, metadata.ErrNotFound) {
			s.logger.Printf("metadata lookup failed for %s: %v", title, err)
		}
		return in
	}

	in.Director = firstNonBlank(in.Director, details.Director)
	in.Country = firstNonBlank(in.Country, details.Country)
	in.Description = firstNonBlank(in.Description, details.Description)
	if len(cleanActors(in.Actors)) == 0 {
		in.Actors = details.Actors
	}
	return in
}

func (s *Service) refreshSizes() {
	s.metrics.SetCollectionSizes(s.repo.Movies.Len(), s.repo.Customers.Len())
}

func firstNonBlank(primary string, fallback *string) string {
	if strings.TrimSpace(primary) != "" || fallback == nil {
		return primary
	}
	return *fallback
}

func cleanActors(actors []string) []string {
	out := make([]string, 0, len(actors))
	for _, a := range actors {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func intersect(a, b []domain.Movie) []domain.Movie {
	out := make([]domain.Movie, 0, len(a))
	for _, m := range a {
		for _, other := range b {
			if m.Equal(other) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
