// Package query evaluates filter, sort and pagination specifications against
// ordered sequences of rows. It knows nothing about the entities it runs on:
// rows expose their columns through Row.Field.
package query

import (
	"slices"
	"strings"

	"github.com/legaltech/case-management/internal/core/domain"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", domain.Invalidf("invalid sort direction %q", s)
}

// Order sorts by exactly one field.
type Order struct {
	Field     string
	Direction Direction
}

// Spec is a validated query specification. The zero Spec matches every row,
// keeps insertion order and does not truncate.
type Spec struct {
	where   Where
	order   *Order
	skip    int
	take    int
	limited bool
}

// Option configures a Spec under construction.
type Option func(*Spec) error

// New builds and validates a Spec.
func New(opts ...Option) (Spec, error) {
	var s Spec
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return Spec{}, err
		}
	}
	return s, nil
}

// Filter appends clauses to the conjunction.
func Filter(clauses ...Clause) Option {
	return func(s *Spec) error {
		w := Where(clauses)
		if err := w.validate(); err != nil {
			return err
		}
		s.where = append(slices.Clip(s.where), clauses...)
		return nil
	}
}

// OrderBy sets the sort field and direction.
func OrderBy(field string, dir Direction) Option {
	return func(s *Spec) error {
		if field == "" {
			return domain.Invalidf("sort field is required")
		}
		if dir != Asc && dir != Desc {
			return domain.Invalidf("invalid sort direction %q", dir)
		}
		s.order = &Order{Field: field, Direction: dir}
		return nil
	}
}

// Skip drops the first n matching rows.
func Skip(n int) Option {
	return func(s *Spec) error {
		if n < 0 {
			return domain.Invalidf("skip must not be negative")
		}
		s.skip = n
		return nil
	}
}

// Take keeps at most n rows after skipping. Take(0) yields no rows.
func Take(n int) Option {
	return func(s *Spec) error {
		if n < 0 {
			return domain.Invalidf("take must not be negative")
		}
		s.take = n
		s.limited = true
		return nil
	}
}

// Where returns the top-level conjunction.
func (s Spec) Where() Where { return slices.Clone(s.where) }

// Order returns the sort order, if any.
func (s Spec) Order() (Order, bool) {
	if s.order == nil {
		return Order{}, false
	}
	return *s.order, true
}

// And returns a copy of s with clauses added to the top-level conjunction.
func (s Spec) And(clauses ...Clause) (Spec, error) {
	if err := Filter(clauses...)(&s); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// WithDefaultOrder returns s ordered by field when no order was given.
func (s Spec) WithDefaultOrder(field string, dir Direction) Spec {
	if s.order == nil {
		s.order = &Order{Field: field, Direction: dir}
	}
	return s
}

// Unpaginated returns s without skip and take, for counting matches.
func (s Spec) Unpaginated() Spec {
	s.skip, s.take, s.limited = 0, 0, false
	return s
}

// Equality returns the literal of the first top-level equality clause on
// field. Stores use it to pick a secondary index; the clause itself is still
// evaluated by Run.
func (s Spec) Equality(field string) (any, bool) {
	for _, c := range s.where {
		if c.Op == OpEquals && c.Field == field {
			return normalize(c.Value), true
		}
	}
	return nil, false
}

// Run filters, sorts and paginates rows according to spec. rows is not
// modified. Sorting is stable.
func Run[T Row](rows []T, spec Spec) []T {
	return Evaluate(rows, spec.predicate, spec.comparator, spec.skip, spec.limit())
}

// Evaluate is the engine behind Run: it derives a predicate and a comparator
// from the given builders and applies skip and take (negative take means
// unlimited) after filtering and sorting.
func Evaluate[T Row](rows []T, predicate func() func(Row) bool, comparator func() func(a, b Row) int, skip, take int) []T {
	match := predicate()
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if match(r) {
			out = append(out, r)
		}
	}
	if less := comparator(); less != nil {
		slices.SortStableFunc(out, func(a, b T) int { return less(a, b) })
	}
	if skip >= len(out) {
		return out[:0]
	}
	out = out[skip:]
	if take >= 0 && take < len(out) {
		out = out[:take]
	}
	return out
}

func (s Spec) predicate() func(Row) bool {
	where := s.where
	return where.matches
}

func (s Spec) comparator() func(a, b Row) int {
	if s.order == nil {
		return nil
	}
	field, desc := s.order.Field, s.order.Direction == Desc
	return func(a, b Row) int {
		va, _ := a.Field(field)
		vb, _ := b.Field(field)
		c := compare(va, vb)
		if desc {
			return -c
		}
		return c
	}
}

func (s Spec) limit() int {
	if !s.limited {
		return -1
	}
	return s.take
}
