package query

import (
	"cmp"
	"reflect"
	"strings"
	"time"

	"github.com/legaltech/case-management/internal/core/domain"
)

// Operator tags a Clause.
type Operator int

const (
	// OpEquals matches rows whose field equals the literal.
	OpEquals Operator = iota
	// OpContains matches string fields containing the literal as a substring.
	OpContains
	// OpOr matches rows satisfying at least one branch.
	OpOr
)

func (o Operator) String() string {
	switch o {
	case OpEquals:
		return "equals"
	case OpContains:
		return "contains"
	case OpOr:
		return "or"
	default:
		return "unknown"
	}
}

// Row is anything the engine can read fields from. A missing field makes
// the clause evaluating it false.
type Row interface {
	Field(name string) (any, bool)
}

// Clause is one condition of a Where. Field and Value are used by OpEquals
// and OpContains, Branches by OpOr.
type Clause struct {
	Field    string
	Op       Operator
	Value    any
	Branches []Where
}

// Where is a conjunction of clauses. The empty Where matches every row.
type Where []Clause

// Eq builds an equality clause.
func Eq(field string, value any) Clause {
	return Clause{Field: field, Op: OpEquals, Value: value}
}

// Contains builds a case-sensitive substring clause.
func Contains(field, substr string) Clause {
	return Clause{Field: field, Op: OpContains, Value: substr}
}

// Or builds a disjunction. Each branch is itself a conjunction. An Or
// without branches matches nothing.
func Or(branches ...Where) Clause {
	return Clause{Op: OpOr, Branches: branches}
}

func (w Where) validate() error {
	for _, c := range w {
		if err := c.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Clause) validate() error {
	switch c.Op {
	case OpEquals:
		if c.Field == "" {
			return domain.Invalidf("equality clause requires a field")
		}
		if !literal(c.Value) {
			return domain.Invalidf("field %q: unsupported literal of type %T", c.Field, c.Value)
		}
	case OpContains:
		if c.Field == "" {
			return domain.Invalidf("contains clause requires a field")
		}
		if _, ok := c.Value.(string); !ok {
			return domain.Invalidf("field %q: contains requires a string, got %T", c.Field, c.Value)
		}
	case OpOr:
		for _, b := range c.Branches {
			if err := b.validate(); err != nil {
				return err
			}
		}
	default:
		return domain.Invalidf("unknown operator %d", int(c.Op))
	}
	return nil
}

func (w Where) matches(r Row) bool {
	for _, c := range w {
		if !c.matches(r) {
			return false
		}
	}
	return true
}

func (c Clause) matches(r Row) bool {
	switch c.Op {
	case OpOr:
		for _, b := range c.Branches {
			if b.matches(r) {
				return true
			}
		}
		return false
	case OpContains:
		v, ok := r.Field(c.Field)
		if !ok {
			return false
		}
		s, ok := normalize(v).(string)
		if !ok {
			return false
		}
		return strings.Contains(s, c.Value.(string))
	default:
		v, ok := r.Field(c.Field)
		if !ok {
			return false
		}
		return equal(v, c.Value)
	}
}

// literal reports whether v is a value the engine knows how to compare.
func literal(v any) bool {
	switch normalize(v).(type) {
	case nil, string, float64, bool, time.Time:
		return true
	}
	return false
}

// normalize folds numeric kinds into float64 and named string types into
// string so that domain enums compare against plain literals.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, string, float64, bool, time.Time:
		return x
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	return v
}

func equal(a, b any) bool {
	a, b = normalize(a), normalize(b)
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}

// rank orders values of different kinds: missing and nil first, then
// booleans, numbers, strings and timestamps.
func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	case time.Time:
		return 4
	default:
		return 5
	}
}

// compare is a total order over normalized values.
func compare(a, b any) int {
	a, b = normalize(a), normalize(b)
	if ra, rb := rank(a), rank(b); ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch x := a.(type) {
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case float64:
		return cmp.Compare(x, b.(float64))
	case string:
		return strings.Compare(x, b.(string))
	case time.Time:
		return x.Compare(b.(time.Time))
	}
	return 0
}
