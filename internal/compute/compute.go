package compute

import "fmt"

// Scope maps symbol leaves to their data.
type Scope map[*Symbol]any

// DownRule is a whole-expression fast path. Given an expression whose
// leaves are all resolved, it may produce the result directly. The
// second return value reports whether the rule applied.
type DownRule func(expr Expr, leaves []any) (any, bool, error)

type options struct {
	preCompute  func(Expr, Scope) Expr
	postCompute func(Expr, any, Scope) any
	optimize    func(Expr) (Expr, error)
	downRules   []DownRule
}

// Option customizes a Compute call.
type Option func(*options)

// WithPreCompute transforms the expression before evaluation starts.
func WithPreCompute(fn func(Expr, Scope) Expr) Option {
	return func(o *options) { o.preCompute = fn }
}

// WithPostCompute transforms the result after evaluation completes.
func WithPostCompute(fn func(Expr, any, Scope) any) Option {
	return func(o *options) { o.postCompute = fn }
}

// WithOptimize rewrites the expression for the bound data. A failing
// optimize is ignored and the original expression is computed.
func WithOptimize(fn func(Expr) (Expr, error)) Option {
	return func(o *options) { o.optimize = fn }
}

// WithDownRule registers a whole-expression fast path.
func WithDownRule(rule DownRule) Option {
	return func(o *options) { o.downRules = append(o.downRules, rule) }
}

// Compute evaluates an expression against the data sources in scope.
// Symbols carrying bound resources are swapped into the scope first.
func Compute(expr Expr, scope Scope, opts ...Option) (any, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	scope = swapResources(expr, scope)

	if o.preCompute != nil {
		expr = o.preCompute(expr, scope)
	}

	if o.optimize != nil {
		if optimized, err := o.optimize(expr); err == nil {
			expr = optimized
		}
	}

	result, err := topToBottom(scope, expr, o.downRules)
	if err != nil {
		return nil, err
	}

	if o.postCompute != nil {
		result = o.postCompute(expr, result, scope)
	}
	return result, nil
}

// ComputeSingle evaluates an expression with exactly one symbol leaf
// against a single data source.
func ComputeSingle(expr Expr, data any, opts ...Option) (any, error) {
	leaves := Leaves(expr)
	if len(leaves) != 1 {
		return nil, fmt.Errorf("expression has %d symbol leaves; pass a scope instead", len(leaves))
	}
	return Compute(expr, Scope{leaves[0]: data}, opts...)
}

// swapResources pushes data bound directly on symbols into the scope,
// leaving explicit scope entries untouched.
func swapResources(expr Expr, scope Scope) Scope {
	out := make(Scope, len(scope))
	for sym, data := range scope {
		out[sym] = data
	}
	for _, sym := range Leaves(expr) {
		if _, ok := out[sym]; !ok && sym.Resource != nil {
			out[sym] = sym.Resource
		}
	}
	return out
}

// topToBottom processes an expression top-down, trying whole-expression
// fast paths, then falling back to computing children bottom-up.
func topToBottom(scope Scope, expr Expr, rules []DownRule) (any, error) {
	if sym, ok := expr.(*Symbol); ok {
		return leafData(scope, sym)
	}

	if len(rules) > 0 {
		leaves := Leaves(expr)
		leafVals := make([]any, 0, len(leaves))
		resolved := true
		for _, sym := range leaves {
			data, ok := scope[sym]
			if !ok {
				resolved = false
				break
			}
			leafVals = append(leafVals, data)
		}
		if resolved {
			for _, rule := range rules {
				result, ok, err := rule(expr, leafVals)
				if err != nil {
					return nil, err
				}
				if ok {
					return result, nil
				}
			}
		}
	}

	children := make([]any, 0, len(expr.Inputs()))
	for _, child := range expr.Inputs() {
		val, err := topToBottom(scope, child, rules)
		if err != nil {
			return nil, err
		}
		children = append(children, val)
	}

	return computeUp(expr, children, scope)
}

// bottomUp processes an expression from the leaves upwards, with no
// fast paths. It is the simple engine topToBottom degrades to.
func bottomUp(scope Scope, expr Expr) (any, error) {
	if sym, ok := expr.(*Symbol); ok {
		return leafData(scope, sym)
	}

	children := make([]any, 0, len(expr.Inputs()))
	for _, child := range expr.Inputs() {
		val, err := bottomUp(scope, child)
		if err != nil {
			return nil, err
		}
		children = append(children, val)
	}

	return computeUp(expr, children, scope)
}

func leafData(scope Scope, sym *Symbol) (any, error) {
	if data, ok := scope[sym]; ok {
		return data, nil
	}
	if sym.Resource != nil {
		return sym.Resource, nil
	}
	return nil, fmt.Errorf("symbol %s is not bound in the scope", sym.Name)
}

// computeUp evaluates a single node from its already computed children.
func computeUp(expr Expr, children []any, scope Scope) (any, error) {
	switch e := expr.(type) {
	case *Lit:
		return e.Value, nil

	case *Field:
		table, ok := children[0].(*Table)
		if !ok {
			return nil, evalError(expr, children[0])
		}
		col, err := table.Column(e.Name)
		if err != nil {
			return nil, err
		}
		rows := make([]Row, len(col))
		for i, v := range col {
			rows[i] = Row{v}
		}
		return NewTable([]string{e.Name}, rows), nil

	case *Projection:
		table, ok := children[0].(*Table)
		if !ok {
			return nil, evalError(expr, children[0])
		}
		idxs := make([]int, len(e.Names))
		for i, name := range e.Names {
			idx, err := table.fieldIndex(name)
			if err != nil {
				return nil, err
			}
			idxs[i] = idx
		}
		rows := make([]Row, len(table.Rows))
		for i, row := range table.Rows {
			out := make(Row, len(idxs))
			for j, idx := range idxs {
				out[j] = row[idx]
			}
			rows[i] = out
		}
		return NewTable(append([]string(nil), e.Names...), rows), nil

	case *Filter:
		table, ok := children[0].(*Table)
		if !ok {
			return nil, evalError(expr, children[0])
		}
		pred, err := RowFunc(e.Predicate, table.Fields)
		if err != nil {
			return nil, err
		}
		var rows []Row
		for _, row := range table.Rows {
			v, err := pred(row)
			if err != nil {
				return nil, err
			}
			keep, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("predicate %s produced %T, want bool", e.Predicate, v)
			}
			if keep {
				rows = append(rows, row)
			}
		}
		return NewTable(table.Fields, rows), nil

	case *Head:
		table, ok := children[0].(*Table)
		if !ok {
			return nil, evalError(expr, children[0])
		}
		n := e.N
		if n < 0 {
			n = 0
		}
		if n > len(table.Rows) {
			n = len(table.Rows)
		}
		return NewTable(table.Fields, table.Rows[:n]), nil

	case *Union:
		if len(children) == 0 {
			return nil, fmt.Errorf("union of no tables")
		}
		first, ok := children[0].(*Table)
		if !ok {
			return nil, evalError(expr, children[0])
		}
		out := NewTable(first.Fields, append([]Row(nil), first.Rows...))
		for _, child := range children[1:] {
			table, ok := child.(*Table)
			if !ok {
				return nil, evalError(expr, child)
			}
			if !sameFields(out.Fields, table.Fields) {
				return nil, fmt.Errorf("union of mismatched fields %v and %v", out.Fields, table.Fields)
			}
			out.Rows = append(out.Rows, table.Rows...)
		}
		return out, nil

	case *Cmp, *Arith:
		return broadcast(expr, children)

	default:
		var sample any
		if len(children) > 0 {
			sample = children[0]
		}
		return nil, evalError(expr, sample)
	}
}

// broadcast applies a comparison or arithmetic node element-wise over
// its evaluated operands: single-column tables broadcast against each
// other and against scalars.
func broadcast(expr Expr, children []any) (any, error) {
	length := -1
	get := make([]func(int) any, len(children))

	for i, child := range children {
		if table, ok := child.(*Table); ok {
			vals, err := table.Values()
			if err != nil {
				return nil, err
			}
			if length >= 0 && length != len(vals) {
				return nil, fmt.Errorf("length mismatch in %s: %d vs %d", expr, length, len(vals))
			}
			length = len(vals)
			get[i] = func(j int) any { return vals[j] }
		} else {
			v := child
			get[i] = func(int) any { return v }
		}
	}

	if length < 0 {
		// Pure scalars
		return applyBinary(expr, children[0], children[1])
	}

	name := expr.String()
	rows := make([]Row, length)
	for j := 0; j < length; j++ {
		v, err := applyBinary(expr, get[0](j), get[1](j))
		if err != nil {
			return nil, err
		}
		rows[j] = Row{v}
	}
	return NewTable([]string{name}, rows), nil
}

func applyBinary(expr Expr, a, b any) (any, error) {
	switch e := expr.(type) {
	case *Cmp:
		return compare(e.Op, a, b)
	case *Arith:
		return arith(e.Op, a, b)
	}
	return nil, evalError(expr, a)
}

// evalError is the terminal "no rule" error: blaze does not know how
// to compute this expression on this data.
func evalError(expr Expr, data any) error {
	return fmt.Errorf("blaze does not know how to compute expression of type %T on data of type %T", expr, data)
}
