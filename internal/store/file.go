package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/Clark-Hu/movie-rental/internal/domain"
)

// FileStore keeps each collection in its own JSON file. Relative names resolve against Dir.
type FileStore struct {
	dir    string
	logger *log.Logger
}

// NewFileStore creates dir when missing.
func NewFileStore(dir string, logger *log.Logger) (*FileStore, error) {
	if logger == nil {
		logger = log.Default()
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %w", ErrIO, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Dir is the directory relative names resolve against.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) SaveMovies(ctx context.Context, destination string, movies []domain.Movie) error {
	if err := s.write(ctx, destination, newMoviesDocument(movies)); err != nil {
		return err
	}
	s.logger.Printf("store: saved %d movies to %s", len(movies), s.path(destination))
	return nil
}

func (s *FileStore) LoadMovies(ctx context.Context, source string) ([]domain.Movie, error) {
	var doc moviesDocument
	if err := s.read(ctx, source, &doc); err != nil {
		return nil, err
	}
	movies, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path(source), err)
	}
	return movies, nil
}

func (s *FileStore) SaveCustomers(ctx context.Context, destination string, customers []*domain.Customer) error {
	if err := s.write(ctx, destination, newCustomersDocument(customers)); err != nil {
		return err
	}
	s.logger.Printf("store: saved %d customers to %s", len(customers), s.path(destination))
	return nil
}

func (s *FileStore) LoadCustomers(ctx context.Context, source string) ([]*domain.Customer, error) {
	var doc customersDocument
	if err := s.read(ctx, source, &doc); err != nil {
		return nil, err
	}
	customers, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path(source), err)
	}
	return customers, nil
}

func (s *FileStore) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// write replaces the target through a rename so readers never observe a partial file.
func (s *FileStore) write(ctx context.Context, name string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.path(name)
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrFormat, target, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %w", ErrIO, target, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write %s: %w", ErrIO, target, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync %s: %w", ErrIO, target, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close %s: %w", ErrIO, target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return fmt.Errorf("%w: replace %s: %w", ErrIO, target, err)
	}
	return nil
}

func (s *FileStore) read(ctx context.Context, name string, doc versioned) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	source := s.path(name)
	payload, err := os.ReadFile(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w: %w", ErrIO, ErrNotFound, err)
		}
		return fmt.Errorf("%w: read %s: %w", ErrIO, source, err)
	}
	if err := decodeDocument(payload, doc); err != nil {
		return fmt.Errorf("decode %s: %w", source, err)
	}
	return nil
}

var _ Persister = (*FileStore)(nil)
