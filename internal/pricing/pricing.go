package pricing

import "strings"

// Category selects the pricing rule applied to a rental.
type Category string

const (
	Regular    Category = "REGULAR"
	NewRelease Category = "NEW_RELEASE"
	Childrens  Category = "CHILDRENS"
	Drama      Category = "DRAMA"
	Comedy     Category = "COMEDY"
	Thriller   Category = "THRILLER"
)

// Categories lists every category in declaration order.
var Categories = []Category{Regular, NewRelease, Childrens, Drama, Comedy, Thriller}

// Strategy computes the rental price and frequent-renter points for a number of days.
type Strategy struct {
	Price  func(daysRented int) float64
	Points func(daysRented int) int
}

var strategies = map[Category]Strategy{
	Regular: {
		Price: func(d int) float64 {
			return 2.0 + float64(max(0, d-2))*1.5
		},
		Points: flatPoints,
	},
	NewRelease: {
		Price: func(d int) float64 {
			return float64(d) * 3.0
		},
		Points: bonusAfterOneDay,
	},
	Childrens: {
		Price: func(d int) float64 {
			return 1.5 + float64(max(0, d-3))*1.5
		},
		Points: flatPoints,
	},
	Drama: {
		Price: func(d int) float64 {
			return 2.5 + float64(d)*1.5
		},
		Points: bonusAfterOneDay,
	},
	Comedy: {
		Price: func(d int) float64 {
			return 2.0 + float64(d)*2.0
		},
		Points: flatPoints,
	},
	Thriller: {
		Price: func(d int) float64 {
			return 3.0 + float64(d)*2.5
		},
		// Short thriller rentals earn the bonus, not long ones.
		Points: func(d int) int {
			if d < 2 {
				return 2
			}
			return 1
		},
	},
}

func flatPoints(int) int { return 1 }

func bonusAfterOneDay(d int) int {
	if d > 1 {
		return 2
	}
	return 1
}

// For returns the strategy bound to c. Unknown categories price as Regular.
func For(c Category) Strategy {
	if s, ok := strategies[c]; ok {
		return s
	}
	return strategies[Regular]
}

// Price is shorthand for For(c).Price(daysRented).
func Price(c Category, daysRented int) float64 {
	return For(c).Price(daysRented)
}

// Points is shorthand for For(c).Points(daysRented).
func Points(c Category, daysRented int) int {
	return For(c).Points(daysRented)
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	_, ok := strategies[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches s case-insensitively, falling back to Regular for blank or unknown input.
func ParseCategory(s string) Category {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return Regular
}

// LookupCategory is the strict form of ParseCategory.
func LookupCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}
