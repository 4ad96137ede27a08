package repository

import (
	"fmt"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"adminlte-api/internal/domain"
)

type ordering struct {
	field string
	desc  bool
}

// Cursor is a lazy, composable query over one entity table. Every composition method
// returns a new Cursor; nothing reaches the store until a terminal method runs.
// Soft-deleted rows are excluded unless IncludeDeleted is called.
type Cursor[T any] struct {
	db          *gorm.DB
	schema      *schema.Schema
	where       []Predicate
	orders      []ordering
	offset      int
	limit       int
	includes    []string
	withDeleted bool
}

func newCursor[T any](db *gorm.DB, s *schema.Schema) *Cursor[T] {
	return &Cursor[T]{db: db, schema: s, limit: -1}
}

func (c *Cursor[T]) clone() *Cursor[T] {
	next := *c
	next.where = append([]Predicate(nil), c.where...)
	next.orders = append([]ordering(nil), c.orders...)
	next.includes = append([]string(nil), c.includes...)
	return &next
}

// Where narrows the cursor to rows matching p
func (c *Cursor[T]) Where(p Predicate) *Cursor[T] {
	next := c.clone()
	if p != nil {
		next.where = append(next.where, p)
	}
	return next
}

// OrderBy appends an ascending sort on field
func (c *Cursor[T]) OrderBy(field string) *Cursor[T] {
	next := c.clone()
	next.orders = append(next.orders, ordering{field: field})
	return next
}

// OrderByDesc appends a descending sort on field
func (c *Cursor[T]) OrderByDesc(field string) *Cursor[T] {
	next := c.clone()
	next.orders = append(next.orders, ordering{field: field, desc: true})
	return next
}

// Skip skips the first n rows
func (c *Cursor[T]) Skip(n int) *Cursor[T] {
	next := c.clone()
	if n > 0 {
		next.offset = n
	}
	return next
}

// Take limits the cursor to at most n rows
func (c *Cursor[T]) Take(n int) *Cursor[T] {
	next := c.clone()
	if n >= 0 {
		next.limit = n
	}
	return next
}

// Include eagerly loads the named relations (Go field names, dotted for nesting)
func (c *Cursor[T]) Include(relations ...string) *Cursor[T] {
	next := c.clone()
	next.includes = append(next.includes, relations...)
	return next
}

// IncludeDeleted lifts the soft-delete filter
func (c *Cursor[T]) IncludeDeleted() *Cursor[T] {
	next := c.clone()
	next.withDeleted = true
	return next
}

// compose builds the gorm statement. Counting paths skip preloads and, when the
// cursor is not paged, ordering as well.
func (c *Cursor[T]) compose(paged, preload bool) (*gorm.DB, error) {
	tx := c.db.Model(new(T))

	exprs := make([]clause.Expression, 0, len(c.where)+1)
	if !c.withDeleted {
		exprs = append(exprs, clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: domain.ColumnIsDeleted},
			Value:  false,
		})
	}
	for _, p := range c.where {
		expr, err := p.expression(c.schema)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	if len(exprs) > 0 {
		tx = tx.Clauses(clause.Where{Exprs: exprs})
	}

	for _, rel := range c.includes {
		if err := c.checkRelation(rel); err != nil {
			return nil, err
		}
		if !preload {
			continue
		}
		if c.withDeleted {
			tx = tx.Preload(rel)
		} else {
			tx = tx.Preload(rel, domain.ColumnIsDeleted+" = ?", false)
		}
	}

	if !paged {
		return tx, nil
	}

	for _, o := range c.orders {
		col, err := resolveColumn(c.schema, o.field)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: col, Desc: o.desc})
	}
	if c.offset > 0 {
		tx = tx.Offset(c.offset)
	}
	if c.limit >= 0 {
		tx = tx.Limit(c.limit)
	}
	return tx, nil
}

func (c *Cursor[T]) checkRelation(path string) error {
	s := c.schema
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		name := path[start:i]
		rel, ok := s.Relationships.Relations[name]
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownRelation, c.schema.Name, path)
		}
		s = rel.FieldSchema
		start = i + 1
	}
	return nil
}

func (c *Cursor[T]) paged() bool {
	return c.offset > 0 || c.limit >= 0
}

// Session returns the composed statement for projections and aggregates the closed
// composition set does not cover. Use it only inside Query.
func (c *Cursor[T]) Session() (*gorm.DB, error) {
	return c.compose(true, true)
}

// List materializes the cursor
func (c *Cursor[T]) List() ([]*T, error) {
	tx, err := c.compose(true, true)
	if err != nil {
		return nil, err
	}
	var out []*T
	if err := tx.Find(&out).Error; err != nil {
		return nil, translateError(err)
	}
	if out == nil {
		out = []*T{}
	}
	return out, nil
}

// FirstOrDefault returns the first row, or nil when the cursor is empty
func (c *Cursor[T]) FirstOrDefault() (*T, error) {
	list, err := c.Take(1).List()
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// First returns the first row, or ErrNotFound
func (c *Cursor[T]) First() (*T, error) {
	e, err := c.FirstOrDefault()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, c.schema.Table)
	}
	return e, nil
}

// Single returns the only row. Zero rows yields ErrNotFound, more than one ErrAmbiguousMatch.
func (c *Cursor[T]) Single() (*T, error) {
	probe := c
	if c.limit < 0 || c.limit > 2 {
		probe = c.Take(2)
	}
	list, err := probe.List()
	if err != nil {
		return nil, err
	}
	switch len(list) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, c.schema.Table)
	case 1:
		return list[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousMatch, c.schema.Table)
	}
}

// LongCount counts the rows of the cursor. A paged cursor counts the page.
func (c *Cursor[T]) LongCount() (int64, error) {
	var n int64
	if c.paged() {
		page, err := c.compose(true, false)
		if err != nil {
			return 0, err
		}
		page = page.Select(c.schema.Table + "." + domain.ColumnID)
		if err := c.db.Table("(?) AS page", page).Count(&n).Error; err != nil {
			return 0, translateError(err)
		}
		return n, nil
	}

	tx, err := c.compose(false, false)
	if err != nil {
		return 0, err
	}
	if err := tx.Count(&n).Error; err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

// Count is LongCount narrowed to 32 bits; it fails with ErrCountOverflow rather than wrap
func (c *Cursor[T]) Count() (int, error) {
	n, err := c.LongCount()
	if err != nil {
		return 0, err
	}
	return narrowCount(n)
}

// Any reports whether the cursor has at least one row
func (c *Cursor[T]) Any() (bool, error) {
	e, err := c.FirstOrDefault()
	if err != nil {
		return false, err
	}
	return e != nil, nil
}

func narrowCount(n int64) (int, error) {
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d rows", ErrCountOverflow, n)
	}
	return int(n), nil
}
