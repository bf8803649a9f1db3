package httpserver

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Clark-Hu/movie-rental/internal/config"
	"github.com/Clark-Hu/movie-rental/internal/service"
	"github.com/Clark-Hu/movie-rental/internal/store"
)

func TestRoundToCents(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"zero", 0, 0},
		{"thirds", 2 + 1.0/3, 2.33},
		{"round-up", 4.005000001, 4.01},
		{"exact", 9, 9},
		{"negative", -1.5, -1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundToCents(tt.value)
			if math.Abs(got-tt.want) > 0.0001 {
				t.Fatalf("roundToCents(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestVerifyBearer(t *testing.T) {
	srv := &Server{cfg: config.Config{AuthToken: "secret"}}

	tests := []struct {
		header string
		want   bool
	}{
		{"Bearer secret", true},
		{"Bearer  secret ", true},
		{"", false},
		{"secret", false},
		{"Basic secret", false},
		{"Bearer other", false},
		{"Bearer ", false},
	}
	for _, tt := range tests {
		if got := srv.verifyBearer(tt.header); got != tt.want {
			t.Fatalf("verifyBearer(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestValidateRequests(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{}
		wantMsg string
	}{
		{"valid rental", rentalRequest{Title: "Heat", Days: 1}, ""},
		{"zero days", rentalRequest{Title: "Heat", Days: 0}, "days must be at least 1"},
		{"blank title", rentalRequest{Days: 2}, "title is required"},
		{"valid customer", customerCreateRequest{Name: "Ann"}, ""},
		{"nested rental", customerCreateRequest{Name: "Ann", Rentals: []rentalRequest{{Title: "Heat", Days: -3}}}, "days must be at least 1"},
		{"missing movie title", movieCreateRequest{Category: "DRAMA"}, "title is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("validate(%+v) unexpected error: %v", tt.req, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("validate(%+v) = nil, want %q", tt.req, tt.wantMsg)
			}
			if got := validationMessage(err); got != tt.wantMsg {
				t.Fatalf("validationMessage = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	srv := &Server{logger: log.New(io.Discard, "", 0)}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"service not found", fmt.Errorf("%w: movie %q", service.ErrNotFound, "Heat"), http.StatusNotFound},
		{"nothing saved", fmt.Errorf("load catalog: %w", store.ErrNotFound), http.StatusNotFound},
		{"duplicate", service.ErrDuplicate, http.StatusConflict},
		{"half-saved snapshot", fmt.Errorf("%w: load customers: missing", service.ErrIncompleteSnapshot), http.StatusConflict},
		{"invalid", service.ErrInvalid, http.StatusUnprocessableEntity},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.respondServiceError(rec, tt.err, "load data")
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
