package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movie-rental/internal/domain"
	"github.com/Clark-Hu/movie-rental/internal/metrics"
)

//go:embed migrations/*.up.sql
var migrationFS embed.FS

const (
	kindMovies    = "movies"
	kindCustomers = "customers"
)

var (
	movieSnapshotColumns    = []string{"snapshot", "position", "title", "category", "country", "description", "director", "actors"}
	customerSnapshotColumns = []string{"snapshot", "position", "name"}
	rentalSnapshotColumns   = []string{"snapshot", "customer_position", "position", "title", "category", "country", "description", "director", "actors", "days_rented"}
)

// Options controls connection-pool behaviour.
type Options struct {
	MaxConns               int32
	MinConns               int32
	MaxConnIdleTime        time.Duration
	MaxConnLifetime        time.Duration
	ConnTimeout            time.Duration
	StatementCacheCapacity int
	Logger                 *log.Logger
}

// Postgres stores named snapshots of the catalog and roster. Each save replaces
// the snapshot of the same name inside a single transaction.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *log.Logger
	opts   Options
}

// NewPostgres initializes a connection pool and validates connectivity with Ping.
func NewPostgres(ctx context.Context, dbURL string, opts Options) (*Postgres, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("store: initializing connection pool (max=%d, min=%d, idle=%s, life=%s, stmt_cache=%d)",
		opts.MaxConns, opts.MinConns, opts.MaxConnIdleTime, opts.MaxConnLifetime, opts.StatementCacheCapacity)

	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.StatementCacheCapacity >= 0 {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
		cfg.ConnConfig.StatementCacheCapacity = opts.StatementCacheCapacity
	}

	connCtx := ctx
	if opts.ConnTimeout > 0 {
		var cancel context.CancelFunc
		connCtx, cancel = context.WithTimeout(ctx, opts.ConnTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(connCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Println("store: database connection established")
	return &Postgres{pool: pool, logger: logger, opts: opts}, nil
}

// NewPostgresWithPool wraps an existing pool; the caller keeps ownership of it.
func NewPostgresWithPool(pool *pgxpool.Pool, logger *log.Logger) *Postgres {
	if logger == nil {
		logger = log.Default()
	}
	return &Postgres{pool: pool, logger: logger, opts: Options{Logger: logger}}
}

// Migrate applies the embedded schema files in name order. They are idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrationFS, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		payload, err := migrationFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := p.pool.Exec(ctx, string(payload)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		p.logger.Printf("store: applied migration %s", name)
	}
	return nil
}

// Close releases database resources.
func (p *Postgres) Close() {
	if p == nil || p.pool == nil {
		return
	}
	p.logger.Println("store: closing connection pool")
	p.pool.Close()
}

// HealthCheck verifies the database is reachable.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return fmt.Errorf("store not initialized")
	}
	checkCtx := ctx
	if p.opts.ConnTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, p.opts.ConnTimeout)
		defer cancel()
	}
	return p.pool.Ping(checkCtx)
}

// PoolStats snapshots the pgxpool counters for metrics.RegisterPool.
func (p *Postgres) PoolStats() metrics.PoolStats {
	if p == nil || p.pool == nil {
		return metrics.PoolStats{}
	}
	st := p.pool.Stat()
	return metrics.PoolStats{
		Acquired: st.AcquiredConns(),
		Idle:     st.IdleConns(),
		Total:    st.TotalConns(),
		Max:      st.MaxConns(),
	}
}

func (p *Postgres) SaveMovies(ctx context.Context, destination string, movies []domain.Movie) error {
	rows := make([][]any, 0, len(movies))
	for i, m := range movies {
		rows = append(rows, []any{destination, i, m.Title(), m.Category().String(), m.Country(), m.Description(), m.Director(), m.Actors()})
	}

	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if err := markSnapshot(ctx, tx, destination, kindMovies); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM movie_snapshots WHERE snapshot = $1`, destination); err != nil {
			return fmt.Errorf("clear movies: %w", err)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"movie_snapshots"}, movieSnapshotColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("copy movies: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save movies %q: %w", ErrIO, destination, err)
	}
	p.logger.Printf("store: saved %d movies to snapshot %q", len(movies), destination)
	return nil
}

func (p *Postgres) LoadMovies(ctx context.Context, source string) ([]domain.Movie, error) {
	var movies []domain.Movie
	err := p.readOnly(ctx, func(tx pgx.Tx) error {
		if err := requireSnapshot(ctx, tx, source, kindMovies); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, `
            SELECT title, category, country, description, director, actors
            FROM movie_snapshots
            WHERE snapshot = $1
            ORDER BY position
        `, source)
		if err != nil {
			return fmt.Errorf("%w: query movies: %w", ErrIO, err)
		}
		defer rows.Close()

		movies = make([]domain.Movie, 0)
		for rows.Next() {
			rec, err := scanMovieRecord(rows)
			if err != nil {
				return fmt.Errorf("%w: scan movie: %w", ErrIO, err)
			}
			m, err := rec.toDomain()
			if err != nil {
				return err
			}
			movies = append(movies, m)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: read movies: %w", ErrIO, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load movies %q: %w", source, err)
	}
	return movies, nil
}

func (p *Postgres) SaveCustomers(ctx context.Context, destination string, customers []*domain.Customer) error {
	customerRows := make([][]any, 0, len(customers))
	rentalRows := make([][]any, 0)
	for i, c := range customers {
		customerRows = append(customerRows, []any{destination, i, c.Name()})
		for j, r := range c.Rentals() {
			m := r.Movie()
			rentalRows = append(rentalRows, []any{
				destination, i, j,
				m.Title(), m.Category().String(), m.Country(), m.Description(), m.Director(), m.Actors(),
				r.DaysRented(),
			})
		}
	}

	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if err := markSnapshot(ctx, tx, destination, kindCustomers); err != nil {
			return err
		}
		// Rentals follow through ON DELETE CASCADE.
		if _, err := tx.Exec(ctx, `DELETE FROM customer_snapshots WHERE snapshot = $1`, destination); err != nil {
			return fmt.Errorf("clear customers: %w", err)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"customer_snapshots"}, customerSnapshotColumns, pgx.CopyFromRows(customerRows)); err != nil {
			return fmt.Errorf("copy customers: %w", err)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"rental_snapshots"}, rentalSnapshotColumns, pgx.CopyFromRows(rentalRows)); err != nil {
			return fmt.Errorf("copy rentals: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save customers %q: %w", ErrIO, destination, err)
	}
	p.logger.Printf("store: saved %d customers (%d rentals) to snapshot %q", len(customers), len(rentalRows), destination)
	return nil
}

func (p *Postgres) LoadCustomers(ctx context.Context, source string) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := p.readOnly(ctx, func(tx pgx.Tx) error {
		if err := requireSnapshot(ctx, tx, source, kindCustomers); err != nil {
			return err
		}

		names, err := loadCustomerNames(ctx, tx, source)
		if err != nil {
			return err
		}
		records := make([]customerRecord, len(names))
		for i, name := range names {
			records[i] = customerRecord{Name: name}
		}

		rows, err := tx.Query(ctx, `
            SELECT customer_position, title, category, country, description, director, actors, days_rented
            FROM rental_snapshots
            WHERE snapshot = $1
            ORDER BY customer_position, position
        `, source)
		if err != nil {
			return fmt.Errorf("%w: query rentals: %w", ErrIO, err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				owner int
				rec   rentalRecord
			)
			if err := rows.Scan(&owner, &rec.Movie.Title, &rec.Movie.Category, &rec.Movie.Country,
				&rec.Movie.Description, &rec.Movie.Director, &rec.Movie.Actors, &rec.DaysRented); err != nil {
				return fmt.Errorf("%w: scan rental: %w", ErrIO, err)
			}
			if owner < 0 || owner >= len(records) {
				return fmt.Errorf("%w: rental references customer position %d", ErrFormat, owner)
			}
			records[owner].Rentals = append(records[owner].Rentals, rec)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: read rentals: %w", ErrIO, err)
		}

		customers = make([]*domain.Customer, 0, len(records))
		for _, rec := range records {
			c, err := rec.toDomain()
			if err != nil {
				return err
			}
			customers = append(customers, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load customers %q: %w", source, err)
	}
	return customers, nil
}

func (p *Postgres) readOnly(ctx context.Context, fn func(pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, p.pool, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func markSnapshot(ctx context.Context, tx pgx.Tx, name, kind string) error {
	const query = `
        INSERT INTO snapshots (name, kind, saved_at)
        VALUES ($1, $2, now())
        ON CONFLICT (name, kind) DO UPDATE SET saved_at = now()
    `
	if _, err := tx.Exec(ctx, query, name, kind); err != nil {
		return fmt.Errorf("mark snapshot: %w", err)
	}
	return nil
}

func requireSnapshot(ctx context.Context, tx pgx.Tx, name, kind string) error {
	var savedAt time.Time
	err := tx.QueryRow(ctx, `SELECT saved_at FROM snapshots WHERE name = $1 AND kind = $2`, name, kind).Scan(&savedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %w", ErrIO, ErrNotFound)
		}
		return fmt.Errorf("%w: lookup snapshot: %w", ErrIO, err)
	}
	return nil
}

func loadCustomerNames(ctx context.Context, tx pgx.Tx, snapshot string) ([]string, error) {
	rows, err := tx.Query(ctx, `SELECT name FROM customer_snapshots WHERE snapshot = $1 ORDER BY position`, snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: query customers: %w", ErrIO, err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: read customers: %w", ErrIO, err)
	}
	return names, nil
}

func scanMovieRecord(row pgx.Row) (movieRecord, error) {
	var rec movieRecord
	err := row.Scan(&rec.Title, &rec.Category, &rec.Country, &rec.Description, &rec.Director, &rec.Actors)
	return rec, err
}

var _ Persister = (*Postgres)(nil)
