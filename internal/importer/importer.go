// Package importer turns bank statement files into reconciliation candidates.
package importer

import (
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// Line is one parsed statement movement before classification
type Line struct {
	Date        civil.Date
	Description string
	Value       decimal.Decimal // Absolute value
	Kind        domain.MovementKind
}

// Parser converts a bank statement file into Lines
type Parser interface {
	Parse(r io.Reader) ([]Line, error)
	Format() string
}

// Registry holds named parsers
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names in order
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewCSVParser(GenericCSV))
	r.Register(NewCSVParser(BrazilianCSV))
	return r
}
