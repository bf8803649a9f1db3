// Package report renders a customer's rental statement.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/Clark-Hu/movie-rental/internal/domain"
)

// Format names a statement rendering.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Renderer turns a customer's rentals into a statement: a header, one line per
// rental in the order rented, and a footer with the totals.
type Renderer interface {
	Render(c *domain.Customer) (string, error)
	ContentType() string
}

// Text renders a tab-separated plain text statement.
type Text struct{}

func (Text) ContentType() string { return "text/plain; charset=utf-8" }

func (Text) Render(c *domain.Customer) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Rental records for %s\n", c.Name())
	for _, r := range c.Rentals() {
		fmt.Fprintf(&b, "\t%s\t%s\n", r.Movie().Title(), formatAmount(r.Price()))
	}
	fmt.Fprintf(&b, "Amount owed is %s.\n", formatAmount(c.TotalAmount()))
	fmt.Fprintf(&b, "You earned %d points.", c.TotalPoints())
	return b.String(), nil
}

var htmlStatement = template.Must(template.New("statement").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Rental record for {{.Name}}</title>
</head>
<body>
    <h1>Rental record for {{.Name}}</h1>
<ul>
{{- range .Lines}}
<li>{{.Title}} - {{.Amount}}</li>
{{- end}}
</ul>
<p>Amount owed is <strong>{{.Total}}</strong>.</p>
<p>You earned <strong>{{.Points}}</strong> points.</p>
</body>
</html>`))

type htmlLine struct {
	Title  string
	Amount string
}

type htmlView struct {
	Name   string
	Lines  []htmlLine
	Total  string
	Points int
}

// HTML renders a standalone HTML page. Names and titles are escaped.
type HTML struct{}

func (HTML) ContentType() string { return "text/html; charset=utf-8" }

func (HTML) Render(c *domain.Customer) (string, error) {
	rentals := c.Rentals()
	view := htmlView{
		Name:   c.Name(),
		Lines:  make([]htmlLine, 0, len(rentals)),
		Total:  formatAmount(c.TotalAmount()),
		Points: c.TotalPoints(),
	}
	for _, r := range rentals {
		view.Lines = append(view.Lines, htmlLine{Title: r.Movie().Title(), Amount: formatAmount(r.Price())})
	}

	var buf bytes.Buffer
	if err := htmlStatement.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render html statement: %w", err)
	}
	return buf.String(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
