package compute

import (
	"fmt"
	"strings"
)

// Expr is a node in an expression tree.
type Expr interface {
	// Inputs returns the child expressions this node is computed from.
	Inputs() []Expr

	String() string
}

// Symbol is a named leaf standing for a data source. Symbols compare
// by identity: the same *Symbol must be used to build the expression
// and to key the scope.
type Symbol struct {
	Name   string
	Fields []string

	// Resource optionally binds data directly to the symbol. Bound
	// resources are swapped into the scope when Compute starts.
	Resource any
}

// NewSymbol creates an unbound symbol with the given field names.
func NewSymbol(name string, fields ...string) *Symbol {
	return &Symbol{Name: name, Fields: fields}
}

// Bind creates a symbol with data attached. Computing an expression
// over a bound symbol needs no explicit scope.
func Bind(name string, table *Table) *Symbol {
	return &Symbol{Name: name, Fields: table.Fields, Resource: table}
}

func (s *Symbol) Inputs() []Expr { return nil }
func (s *Symbol) String() string { return s.Name }

// Field projects a single column.
type Field struct {
	Child Expr
	Name  string
}

func (f *Field) Inputs() []Expr { return []Expr{f.Child} }
func (f *Field) String() string { return fmt.Sprintf("%s.%s", f.Child, f.Name) }

// Projection narrows a table to the named columns, in order.
type Projection struct {
	Child Expr
	Names []string
}

func (p *Projection) Inputs() []Expr { return []Expr{p.Child} }
func (p *Projection) String() string {
	return fmt.Sprintf("%s[%s]", p.Child, strings.Join(p.Names, ", "))
}

// Filter keeps the rows of Child for which Predicate evaluates true.
// The predicate is a scalar expression over Child's fields.
type Filter struct {
	Child     Expr
	Predicate Expr
}

func (f *Filter) Inputs() []Expr { return []Expr{f.Child} }
func (f *Filter) String() string { return fmt.Sprintf("%s[%s]", f.Child, f.Predicate) }

// Head keeps the first N rows.
type Head struct {
	Child Expr
	N     int
}

func (h *Head) Inputs() []Expr { return []Expr{h.Child} }
func (h *Head) String() string { return fmt.Sprintf("%s.head(%d)", h.Child, h.N) }

// Union concatenates tables with identical fields.
type Union struct {
	Exprs []Expr
}

func (u *Union) Inputs() []Expr { return u.Exprs }
func (u *Union) String() string {
	parts := make([]string, len(u.Exprs))
	for i, e := range u.Exprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("union(%s)", strings.Join(parts, ", "))
}

// Lit is a literal scalar.
type Lit struct {
	Value any
}

func (l *Lit) Inputs() []Expr { return nil }
func (l *Lit) String() string { return fmt.Sprintf("%v", l.Value) }

// Int wraps an integer literal.
func Int(v int64) *Lit { return &Lit{Value: v} }

// Float wraps a floating point literal.
func Float(v float64) *Lit { return &Lit{Value: v} }

// Str wraps a string literal.
func Str(v string) *Lit { return &Lit{Value: v} }

// CmpOp is a comparison operator.
type CmpOp string

const (
	OpEq CmpOp = "=="
	OpNe CmpOp = "!="
	OpLt CmpOp = "<"
	OpLe CmpOp = "<="
	OpGt CmpOp = ">"
	OpGe CmpOp = ">="
)

// Cmp compares two scalar expressions element-wise.
type Cmp struct {
	Op       CmpOp
	Lhs, Rhs Expr
}

func (c *Cmp) Inputs() []Expr { return []Expr{c.Lhs, c.Rhs} }
func (c *Cmp) String() string { return fmt.Sprintf("%s %s %s", c.Lhs, c.Op, c.Rhs) }

// ArithOp is an arithmetic operator.
type ArithOp string

const (
	OpAdd ArithOp = "+"
	OpSub ArithOp = "-"
	OpMul ArithOp = "*"
	OpDiv ArithOp = "/"
)

// Arith combines two scalar expressions element-wise.
type Arith struct {
	Op       ArithOp
	Lhs, Rhs Expr
}

func (a *Arith) Inputs() []Expr { return []Expr{a.Lhs, a.Rhs} }
func (a *Arith) String() string { return fmt.Sprintf("%s %s %s", a.Lhs, a.Op, a.Rhs) }

// Fluent constructors, so expressions read close to their meaning.

// Field projects a column off the symbol.
func (s *Symbol) Field(name string) *Field { return &Field{Child: s, Name: name} }

// Filter keeps the symbol's rows matching the predicate.
func (s *Symbol) Filter(predicate Expr) *Filter { return &Filter{Child: s, Predicate: predicate} }

// Project narrows the symbol to the named columns.
func (s *Symbol) Project(names ...string) *Projection { return &Projection{Child: s, Names: names} }

// Head keeps the symbol's first n rows.
func (s *Symbol) Head(n int) *Head { return &Head{Child: s, N: n} }

// Filter keeps the filtered table's rows matching a further predicate.
func (f *Filter) Filter(predicate Expr) *Filter { return &Filter{Child: f, Predicate: predicate} }

// Field projects a column off the filtered table.
func (f *Filter) Field(name string) *Field { return &Field{Child: f, Name: name} }

// Project narrows the filtered table to the named columns.
func (f *Filter) Project(names ...string) *Projection { return &Projection{Child: f, Names: names} }

// Head keeps the filtered table's first n rows.
func (f *Filter) Head(n int) *Head { return &Head{Child: f, N: n} }

// Comparison helpers on fields.

func (f *Field) Eq(rhs Expr) *Cmp { return &Cmp{Op: OpEq, Lhs: f, Rhs: rhs} }
func (f *Field) Ne(rhs Expr) *Cmp { return &Cmp{Op: OpNe, Lhs: f, Rhs: rhs} }
func (f *Field) Lt(rhs Expr) *Cmp { return &Cmp{Op: OpLt, Lhs: f, Rhs: rhs} }
func (f *Field) Le(rhs Expr) *Cmp { return &Cmp{Op: OpLe, Lhs: f, Rhs: rhs} }
func (f *Field) Gt(rhs Expr) *Cmp { return &Cmp{Op: OpGt, Lhs: f, Rhs: rhs} }
func (f *Field) Ge(rhs Expr) *Cmp { return &Cmp{Op: OpGe, Lhs: f, Rhs: rhs} }

func (f *Field) Add(rhs Expr) *Arith { return &Arith{Op: OpAdd, Lhs: f, Rhs: rhs} }
func (f *Field) Sub(rhs Expr) *Arith { return &Arith{Op: OpSub, Lhs: f, Rhs: rhs} }
func (f *Field) Mul(rhs Expr) *Arith { return &Arith{Op: OpMul, Lhs: f, Rhs: rhs} }
func (f *Field) Div(rhs Expr) *Arith { return &Arith{Op: OpDiv, Lhs: f, Rhs: rhs} }

// Leaves returns the distinct symbols at the leaves of expr, in first
// encounter order.
func Leaves(expr Expr) []*Symbol {
	var out []*Symbol
	seen := make(map[*Symbol]bool)

	var walk func(Expr)
	walk = func(e Expr) {
		if sym, ok := e.(*Symbol); ok {
			if !seen[sym] {
				seen[sym] = true
				out = append(out, sym)
			}
			return
		}
		// Filter predicates sit outside Inputs but still reference symbols.
		if f, ok := e.(*Filter); ok {
			walk(f.Predicate)
		}
		for _, in := range e.Inputs() {
			walk(in)
		}
	}
	walk(expr)
	return out
}
