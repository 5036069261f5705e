package memory

import (
	"cmp"
	"slices"
	"sync"

	"github.com/legaltech/case-management/internal/core/query"
)

type record[T any] struct {
	row T
	seq uint64
}

// index maps one column value to the ids holding it, ordered by insertion.
type index[T any] struct {
	field string
	key   func(T) string
	ids   map[string][]string
}

// table is one collection: rows keyed by id, the insertion order of live
// ids, and secondary indexes on foreign keys and unique columns. Callers hold
// mu; table methods never lock.
type table[T query.Row] struct {
	mu      sync.RWMutex
	seq     uint64
	order   []string
	rows    map[string]record[T]
	indexes []*index[T]
	clone   func(T) T
}

func newTable[T query.Row](clone func(T) T) *table[T] {
	return &table[T]{rows: make(map[string]record[T]), clone: clone}
}

// indexOn registers a secondary index. Must be called before any insert.
func (t *table[T]) indexOn(field string, key func(T) string) *table[T] {
	t.indexes = append(t.indexes, &index[T]{field: field, key: key, ids: make(map[string][]string)})
	return t
}

func (t *table[T]) exists(id string) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *table[T]) get(id string) (T, bool) {
	rec, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(rec.row), true
}

func (t *table[T]) insert(id string, row T) {
	t.seq++
	t.rows[id] = record[T]{row: row, seq: t.seq}
	t.order = append(t.order, id)
	for _, idx := range t.indexes {
		k := idx.key(row)
		idx.ids[k] = append(idx.ids[k], id)
	}
}

// replace swaps the stored row and moves it between index buckets while
// keeping each bucket in insertion order.
func (t *table[T]) replace(id string, row T) {
	old := t.rows[id]
	for _, idx := range t.indexes {
		was, now := idx.key(old.row), idx.key(row)
		if was == now {
			continue
		}
		idx.ids[was] = t.without(idx.ids[was], id)
		if len(idx.ids[was]) == 0 {
			delete(idx.ids, was)
		}
		bucket := idx.ids[now]
		pos, _ := slices.BinarySearchFunc(bucket, old.seq, func(e string, seq uint64) int {
			return cmp.Compare(t.rows[e].seq, seq)
		})
		idx.ids[now] = slices.Insert(bucket, pos, id)
	}
	t.rows[id] = record[T]{row: row, seq: old.seq}
}

func (t *table[T]) remove(id string) {
	rec, ok := t.rows[id]
	if !ok {
		return
	}
	for _, idx := range t.indexes {
		k := idx.key(rec.row)
		idx.ids[k] = t.without(idx.ids[k], id)
		if len(idx.ids[k]) == 0 {
			delete(idx.ids, k)
		}
	}
	t.order = t.without(t.order, id)
	delete(t.rows, id)
}

func (t *table[T]) without(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.clone(t.rows[id].row))
	}
	return out
}

func (t *table[T]) lookup(field string) *index[T] {
	for _, idx := range t.indexes {
		if idx.field == field {
			return idx
		}
	}
	return nil
}

// refs returns the rows whose indexed field equals value, in insertion order.
func (t *table[T]) refs(field, value string) []T {
	idx := t.lookup(field)
	if idx == nil {
		return nil
	}
	ids := idx.ids[value]
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.clone(t.rows[id].row))
	}
	return out
}

func (t *table[T]) countRefs(field, value string) int {
	if idx := t.lookup(field); idx != nil {
		return len(idx.ids[value])
	}
	return 0
}

// candidates narrows the scan for spec through the id or an index when the
// spec pins one of them by equality. Run still evaluates every clause.
func (t *table[T]) candidates(spec query.Spec) []T {
	if v, ok := spec.Equality("id"); ok {
		id, _ := v.(string)
		if row, ok := t.get(id); ok {
			return []T{row}
		}
		return nil
	}
	for _, idx := range t.indexes {
		if v, ok := spec.Equality(idx.field); ok {
			if s, ok := v.(string); ok {
				return t.refs(idx.field, s)
			}
		}
	}
	return t.all()
}

func (t *table[T]) find(spec query.Spec) []T {
	return query.Run(t.candidates(spec), spec)
}

func (t *table[T]) count(spec query.Spec) int {
	return len(query.Run(t.candidates(spec), spec.Unpaginated()))
}
