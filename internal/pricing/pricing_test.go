package pricing

import (
	"math"
	"testing"
)

func TestStrategyTable(t *testing.T) {
	tests := []struct {
		category   Category
		days       int
		wantPrice  float64
		wantPoints int
	}{
		{Regular, 0, 2.0, 1},
		{Regular, 1, 2.0, 1},
		{Regular, 2, 2.0, 1},
		{Regular, 3, 3.5, 1},
		{Regular, 5, 6.5, 1},
		{Regular, 10, 14.0, 1},

		{NewRelease, 0, 0.0, 1},
		{NewRelease, 1, 3.0, 1},
		{NewRelease, 2, 6.0, 2},
		{NewRelease, 3, 9.0, 2},
		{NewRelease, 5, 15.0, 2},
		{NewRelease, 10, 30.0, 2},

		{Childrens, 0, 1.5, 1},
		{Childrens, 1, 1.5, 1},
		{Childrens, 2, 1.5, 1},
		{Childrens, 3, 1.5, 1},
		{Childrens, 5, 4.5, 1},
		{Childrens, 10, 12.0, 1},

		{Drama, 0, 2.5, 1},
		{Drama, 1, 4.0, 1},
		{Drama, 2, 5.5, 2},
		{Drama, 3, 7.0, 2},
		{Drama, 5, 10.0, 2},
		{Drama, 10, 17.5, 2},

		{Comedy, 0, 2.0, 1},
		{Comedy, 1, 4.0, 1},
		{Comedy, 2, 6.0, 1},
		{Comedy, 3, 8.0, 1},
		{Comedy, 5, 12.0, 1},
		{Comedy, 10, 22.0, 1},

		{Thriller, 0, 3.0, 2},
		{Thriller, 1, 5.5, 2},
		{Thriller, 2, 8.0, 1},
		{Thriller, 3, 10.5, 1},
		{Thriller, 5, 15.5, 1},
		{Thriller, 10, 28.0, 1},
	}

	for _, tt := range tests {
		s := For(tt.category)
		if got := s.Price(tt.days); math.Abs(got-tt.wantPrice) > 0.001 {
			t.Errorf("%s price(%d) = %v, want %v", tt.category, tt.days, got, tt.wantPrice)
		}
		if got := s.Points(tt.days); got != tt.wantPoints {
			t.Errorf("%s points(%d) = %d, want %d", tt.category, tt.days, got, tt.wantPoints)
		}
	}
}

func TestNegativeDaysArePriced(t *testing.T) {
	if got := Price(NewRelease, -2); got != -6.0 {
		t.Fatalf("Price(NewRelease, -2) = %v, want -6", got)
	}
	if got := Price(Regular, -5); got != 2.0 {
		t.Fatalf("Price(Regular, -5) = %v, want 2", got)
	}
	if got := Points(Thriller, -1); got != 2 {
		t.Fatalf("Points(Thriller, -1) = %d, want 2", got)
	}
}

func TestForUnknownCategoryFallsBackToRegular(t *testing.T) {
	unknown := Category("DOCUMENTARY")
	if unknown.Valid() {
		t.Fatalf("DOCUMENTARY should not be valid")
	}
	if got := Price(unknown, 5); got != Price(Regular, 5) {
		t.Fatalf("Price(unknown, 5) = %v, want regular price %v", got, Price(Regular, 5))
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"THRILLER", Thriller},
		{"new_release", NewRelease},
		{"  Drama ", Drama},
		{"", Regular},
		{"western", Regular},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.in); got != tt.want {
			t.Errorf("ParseCategory(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, ok := LookupCategory("western"); ok {
		t.Fatalf("LookupCategory(western) should fail")
	}
	if c, ok := LookupCategory("comedy"); !ok || c != Comedy {
		t.Fatalf("LookupCategory(comedy) = %s, %v", c, ok)
	}
}

func TestCategoriesAreAllValid(t *testing.T) {
	if len(Categories) != 6 {
		t.Fatalf("len(Categories) = %d, want 6", len(Categories))
	}
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
}

func BenchmarkPrice(b *testing.B) {
	for i := 0; i < b.N; i++ {
		for _, c := range Categories {
			_ = Price(c, i%14)
			_ = Points(c, i%14)
		}
	}
}
