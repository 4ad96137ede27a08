package repository

import (
	"fmt"

	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Predicate is a boolean condition over entity fields. The set of predicates is closed:
// build them with Eq, Ne, Gt, Gte, Lt, Lte, Like, In, IsNull, NotNull, And, Or and Not.
type Predicate interface {
	expression(s *schema.Schema) (clause.Expression, error)
}

type compareOp int

const (
	opEq compareOp = iota
	opNe
	opGt
	opGte
	opLt
	opLte
	opLike
	opIn
	opIsNull
	opNotNull
)

type comparison struct {
	field  string
	op     compareOp
	value  interface{}
	values []interface{}
}

// Eq matches rows where field equals value
func Eq(field string, value interface{}) Predicate {
	return comparison{field: field, op: opEq, value: value}
}

// Ne matches rows where field differs from value
func Ne(field string, value interface{}) Predicate {
	return comparison{field: field, op: opNe, value: value}
}

// Gt matches rows where field is greater than value
func Gt(field string, value interface{}) Predicate {
	return comparison{field: field, op: opGt, value: value}
}

// Gte matches rows where field is greater than or equal to value
func Gte(field string, value interface{}) Predicate {
	return comparison{field: field, op: opGte, value: value}
}

// Lt matches rows where field is less than value
func Lt(field string, value interface{}) Predicate {
	return comparison{field: field, op: opLt, value: value}
}

// Lte matches rows where field is less than or equal to value
func Lte(field string, value interface{}) Predicate {
	return comparison{field: field, op: opLte, value: value}
}

// Like matches rows where field matches an SQL LIKE pattern
func Like(field, pattern string) Predicate {
	return comparison{field: field, op: opLike, value: pattern}
}

// In matches rows where field is one of values. An empty list matches nothing.
func In(field string, values ...interface{}) Predicate {
	return comparison{field: field, op: opIn, values: values}
}

// IsNull matches rows where field is NULL
func IsNull(field string) Predicate {
	return comparison{field: field, op: opIsNull}
}

// NotNull matches rows where field is not NULL
func NotNull(field string) Predicate {
	return comparison{field: field, op: opNotNull}
}

func (c comparison) expression(s *schema.Schema) (clause.Expression, error) {
	col, err := resolveColumn(s, c.field)
	if err != nil {
		return nil, err
	}
	switch c.op {
	case opEq:
		return clause.Eq{Column: col, Value: c.value}, nil
	case opNe:
		return clause.Neq{Column: col, Value: c.value}, nil
	case opGt:
		return clause.Gt{Column: col, Value: c.value}, nil
	case opGte:
		return clause.Gte{Column: col, Value: c.value}, nil
	case opLt:
		return clause.Lt{Column: col, Value: c.value}, nil
	case opLte:
		return clause.Lte{Column: col, Value: c.value}, nil
	case opLike:
		return clause.Like{Column: col, Value: c.value}, nil
	case opIn:
		if len(c.values) == 0 {
			return clause.Expr{SQL: "1 = 0"}, nil
		}
		return clause.IN{Column: col, Values: c.values}, nil
	case opIsNull:
		return clause.Eq{Column: col, Value: nil}, nil
	case opNotNull:
		return clause.Neq{Column: col, Value: nil}, nil
	}
	return nil, fmt.Errorf("unsupported comparison %d", c.op)
}

type logicalOp int

const (
	opAnd logicalOp = iota
	opOr
	opNot
)

type logical struct {
	op       logicalOp
	children []Predicate
}

// And matches rows satisfying every predicate. No predicates matches everything.
func And(preds ...Predicate) Predicate {
	return logical{op: opAnd, children: preds}
}

// Or matches rows satisfying at least one predicate. No predicates matches nothing.
func Or(preds ...Predicate) Predicate {
	return logical{op: opOr, children: preds}
}

// Not negates p
func Not(p Predicate) Predicate {
	return logical{op: opNot, children: []Predicate{p}}
}

func (l logical) expression(s *schema.Schema) (clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(l.children))
	for _, child := range l.children {
		if child == nil {
			continue
		}
		expr, err := child.expression(s)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	switch l.op {
	case opAnd:
		if len(exprs) == 0 {
			return clause.Expr{SQL: "1 = 1"}, nil
		}
		return clause.And(exprs...), nil
	case opOr:
		if len(exprs) == 0 {
			return clause.Expr{SQL: "1 = 0"}, nil
		}
		// a one-element OrConditions is joined to its neighbours with OR
		if len(exprs) == 1 {
			return exprs[0], nil
		}
		return clause.Or(exprs...), nil
	case opNot:
		if len(exprs) == 0 {
			return clause.Expr{SQL: "1 = 0"}, nil
		}
		// clause.Not negates an AND group term by term
		return clause.Expr{SQL: "NOT (?)", Vars: []interface{}{exprs[0]}}, nil
	}
	return nil, fmt.Errorf("unsupported logical operator %d", l.op)
}

// resolveColumn maps a Go field name or column name onto a quoted column of the current table
func resolveColumn(s *schema.Schema, name string) (clause.Column, error) {
	field := s.LookUpField(name)
	if field == nil || field.DBName == "" {
		return clause.Column{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, s.Name, name)
	}
	return clause.Column{Table: clause.CurrentTable, Name: field.DBName}, nil
}
