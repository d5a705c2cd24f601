package rowstore

import (
	"fmt"
	"reflect"
	"time"
)

type Op string

const (
	OpEq    Op = "eq"
	OpNeq   Op = "neq"
	OpIn    Op = "in"
	OpNotIn Op = "not_in"
)

type Cond struct {
	Column string
	Op     Op
	Value  any
}

// Filter matches rows satisfying every condition in All and, when Any is not
// empty, at least one of the conjunctions in Any.
type Filter struct {
	All []Cond
	Any [][]Cond
}

func Eq(column string, value any) Cond {
	return Cond{Column: column, Op: OpEq, Value: value}
}

func Neq(column string, value any) Cond {
	return Cond{Column: column, Op: OpNeq, Value: value}
}

func In(column string, values ...any) Cond {
	return Cond{Column: column, Op: OpIn, Value: values}
}

func NotIn(column string, values ...any) Cond {
	return Cond{Column: column, Op: OpNotIn, Value: values}
}

func Where(conds ...Cond) Filter {
	return Filter{All: conds}
}

// Or adds one alternative conjunction to the filter.
func (f Filter) Or(conds ...Cond) Filter {
	if len(conds) == 0 {
		return f
	}
	f.Any = append(append([][]Cond(nil), f.Any...), conds)
	return f
}

func (f Filter) And(conds ...Cond) Filter {
	f.All = append(append([]Cond(nil), f.All...), conds...)
	return f
}

func (f Filter) Validate() error {
	for _, c := range f.All {
		if err := c.validate(); err != nil {
			return err
		}
	}
	for _, group := range f.Any {
		if len(group) == 0 {
			return fmt.Errorf("empty alternative in filter")
		}
		for _, c := range group {
			if err := c.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c Cond) validate() error {
	if c.Column == "" {
		return fmt.Errorf("filter column is required")
	}
	switch c.Op {
	case OpEq, OpNeq:
		return nil
	case OpIn, OpNotIn:
		if _, ok := c.Value.([]any); !ok {
			return fmt.Errorf("filter %s on %q expects a value list", c.Op, c.Column)
		}
		return nil
	default:
		return fmt.Errorf("unsupported filter op %q", c.Op)
	}
}

// Match evaluates the filter against a record in memory.
func (f Filter) Match(rec Record) bool {
	for _, c := range f.All {
		if !c.match(rec) {
			return false
		}
	}
	if len(f.Any) == 0 {
		return true
	}
	for _, group := range f.Any {
		ok := true
		for _, c := range group {
			if !c.match(rec) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (c Cond) match(rec Record) bool {
	value := rec[c.Column]
	switch c.Op {
	case OpEq:
		return valuesEqual(value, c.Value)
	case OpNeq:
		return !valuesEqual(value, c.Value)
	case OpIn, OpNotIn:
		list, _ := c.Value.([]any)
		found := false
		for _, candidate := range list {
			if valuesEqual(value, candidate) {
				found = true
				break
			}
		}
		if c.Op == OpIn {
			return found
		}
		return !found
	default:
		return false
	}
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := a.(interface{ Equal(time.Time) bool }); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}
	return reflect.DeepEqual(a, b)
}
