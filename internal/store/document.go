package store

import (
	"encoding/json"
	"fmt"

	"github.com/Clark-Hu/movie-rental/internal/domain"
)

const documentVersion = 1

// versioned is implemented by the JSON documents shared by the file and Redis stores.
type versioned interface {
	version() int
}

type moviesDocument struct {
	Version int           `json:"version"`
	Movies  []movieRecord `json:"movies"`
}

type customersDocument struct {
	Version   int              `json:"version"`
	Customers []customerRecord `json:"customers"`
}

func (d *moviesDocument) version() int    { return d.Version }
func (d *customersDocument) version() int { return d.Version }

func newMoviesDocument(movies []domain.Movie) moviesDocument {
	doc := moviesDocument{Version: documentVersion, Movies: make([]movieRecord, 0, len(movies))}
	for _, m := range movies {
		doc.Movies = append(doc.Movies, toMovieRecord(m))
	}
	return doc
}

func (d *moviesDocument) toDomain() ([]domain.Movie, error) {
	movies := make([]domain.Movie, 0, len(d.Movies))
	for _, rec := range d.Movies {
		m, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func newCustomersDocument(customers []*domain.Customer) customersDocument {
	doc := customersDocument{Version: documentVersion, Customers: make([]customerRecord, 0, len(customers))}
	for _, c := range customers {
		doc.Customers = append(doc.Customers, toCustomerRecord(c))
	}
	return doc
}

func (d *customersDocument) toDomain() ([]*domain.Customer, error) {
	customers := make([]*domain.Customer, 0, len(d.Customers))
	for _, rec := range d.Customers {
		c, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// decodeDocument unmarshals payload into doc and rejects unknown versions.
func decodeDocument(payload []byte, doc versioned) error {
	if err := json.Unmarshal(payload, doc); err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if v := doc.version(); v != documentVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrFormat, v)
	}
	return nil
}
