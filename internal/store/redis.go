package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Clark-Hu/movie-rental/internal/domain"
)

const redisKeyPrefix = "movierental:snapshot:"

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	Logger      *log.Logger
}

// Redis keeps each collection as one JSON document under a prefixed key. A SET
// replaces the whole document, so a failed save leaves the previous value intact.
type Redis struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		MaxRetries:   opts.MaxRetries,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis %s: %w", ErrIO, opts.Addr, err)
	}
	return NewRedisWithClient(client, opts.Logger), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, logger *log.Logger) *Redis {
	if logger == nil {
		logger = log.Default()
	}
	return &Redis{client: client, logger: logger}
}

func (r *Redis) Close() {
	if r == nil || r.client == nil {
		return
	}
	if err := r.client.Close(); err != nil {
		r.logger.Printf("store: close redis: %v", err)
	}
}

// HealthCheck verifies the server answers PING.
func (r *Redis) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) SaveMovies(ctx context.Context, destination string, movies []domain.Movie) error {
	if err := r.set(ctx, destination, newMoviesDocument(movies)); err != nil {
		return err
	}
	r.logger.Printf("store: saved %d movies to redis key %s", len(movies), redisKey(destination))
	return nil
}

func (r *Redis) LoadMovies(ctx context.Context, source string) ([]domain.Movie, error) {
	var doc moviesDocument
	if err := r.get(ctx, source, &doc); err != nil {
		return nil, err
	}
	movies, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", redisKey(source), err)
	}
	return movies, nil
}

func (r *Redis) SaveCustomers(ctx context.Context, destination string, customers []*domain.Customer) error {
	if err := r.set(ctx, destination, newCustomersDocument(customers)); err != nil {
		return err
	}
	r.logger.Printf("store: saved %d customers to redis key %s", len(customers), redisKey(destination))
	return nil
}

func (r *Redis) LoadCustomers(ctx context.Context, source string) ([]*domain.Customer, error) {
	var doc customersDocument
	if err := r.get(ctx, source, &doc); err != nil {
		return nil, err
	}
	customers, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", redisKey(source), err)
	}
	return customers, nil
}

func (r *Redis) set(ctx context.Context, name string, doc any) error {
	key := redisKey(name)
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrFormat, key, err)
	}
	if err := r.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrIO, key, err)
	}
	return nil
}

func (r *Redis) get(ctx context.Context, name string, doc versioned) error {
	key := redisKey(name)
	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %w: key %s", ErrIO, ErrNotFound, key)
		}
		return fmt.Errorf("%w: get %s: %w", ErrIO, key, err)
	}
	if err := decodeDocument(payload, doc); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func redisKey(name string) string {
	return redisKeyPrefix + name
}

var _ Persister = (*Redis)(nil)
