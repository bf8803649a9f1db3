package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Clark-Hu/movie-rental/internal/domain"
)

// Metrics tracks rental volume and persistence latency. A nil *Metrics is a no-op.
type Metrics struct {
	RentalsTotal        *prometheus.CounterVec
	RentalRevenue       prometheus.Counter
	RentalPoints        prometheus.Counter
	CatalogMovies       prometheus.Gauge
	RosterCustomers     prometheus.Gauge
	PersistenceDuration *prometheus.HistogramVec
}

// New registers the rental metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RentalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "movierental_rentals_total",
			Help: "Rentals recorded, by movie category",
		}, []string{"category"}),
		RentalRevenue: factory.NewCounter(prometheus.CounterOpts{
			Name: "movierental_rental_revenue_total",
			Help: "Sum of rental prices recorded",
		}),
		RentalPoints: factory.NewCounter(prometheus.CounterOpts{
			Name: "movierental_rental_points_total",
			Help: "Frequent-renter points awarded",
		}),
		CatalogMovies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "movierental_catalog_movies",
			Help: "Movies currently in the catalog",
		}),
		RosterCustomers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "movierental_roster_customers",
			Help: "Customers currently in the roster",
		}),
		PersistenceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "movierental_persistence_duration_seconds",
			Help:    "Duration of save/load calls against the persister",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation", "result"}),
	}
}

// ObserveRental records one rental and what it earned.
func (m *Metrics) ObserveRental(r domain.Rental) {
	if m == nil {
		return
	}
	m.RentalsTotal.WithLabelValues(r.Movie().Category().String()).Inc()
	// Counters reject negative deltas; odd rentals still count but add no revenue.
	if price := r.Price(); price > 0 {
		m.RentalRevenue.Add(price)
	}
	if points := r.Points(); points > 0 {
		m.RentalPoints.Add(float64(points))
	}
}

func (m *Metrics) SetCollectionSizes(movies, customers int) {
	if m == nil {
		return
	}
	m.CatalogMovies.Set(float64(movies))
	m.RosterCustomers.Set(float64(customers))
}

// ObservePersistence records the duration of a save or load that started at start.
func (m *Metrics) ObservePersistence(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.PersistenceDuration.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}

// PoolStats is a point-in-time view of a database connection pool.
type PoolStats struct {
	Acquired int32
	Idle     int32
	Total    int32
	Max      int32
}

// RegisterPool exposes connection pool gauges that call source on every scrape.
func RegisterPool(reg prometheus.Registerer, source func() PoolStats) {
	factory := promauto.With(reg)
	gauge := func(name, help string, pick func(PoolStats) int32) {
		factory.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
			return float64(pick(source()))
		})
	}
	gauge("movierental_store_pool_acquired_connections", "Connections currently checked out of the pool",
		func(s PoolStats) int32 { return s.Acquired })
	gauge("movierental_store_pool_idle_connections", "Idle connections held by the pool",
		func(s PoolStats) int32 { return s.Idle })
	gauge("movierental_store_pool_total_connections", "Connections currently open in the pool",
		func(s PoolStats) int32 { return s.Total })
	gauge("movierental_store_pool_max_connections", "Configured pool size limit",
		func(s PoolStats) int32 { return s.Max })
}
