package compute

import "fmt"

// RowFunc compiles a scalar expression over the given fields into a
// function applied row by row. Field references resolve by name;
// comparisons and arithmetic combine recursively.
func RowFunc(expr Expr, fields []string) (func(Row) (any, error), error) {
	switch e := expr.(type) {
	case *Lit:
		v := e.Value
		return func(Row) (any, error) { return v, nil }, nil

	case *Field:
		idx := -1
		for i, f := range fields {
			if f == e.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("no field %q in %v", e.Name, fields)
		}
		return func(r Row) (any, error) {
			if idx >= len(r) {
				return nil, fmt.Errorf("row has %d values, field %q needs index %d", len(r), e.Name, idx)
			}
			return r[idx], nil
		}, nil

	case *Cmp:
		lhs, err := RowFunc(e.Lhs, fields)
		if err != nil {
			return nil, err
		}
		rhs, err := RowFunc(e.Rhs, fields)
		if err != nil {
			return nil, err
		}
		op := e.Op
		return func(r Row) (any, error) {
			a, err := lhs(r)
			if err != nil {
				return nil, err
			}
			b, err := rhs(r)
			if err != nil {
				return nil, err
			}
			return compare(op, a, b)
		}, nil

	case *Arith:
		lhs, err := RowFunc(e.Lhs, fields)
		if err != nil {
			return nil, err
		}
		rhs, err := RowFunc(e.Rhs, fields)
		if err != nil {
			return nil, err
		}
		op := e.Op
		return func(r Row) (any, error) {
			a, err := lhs(r)
			if err != nil {
				return nil, err
			}
			b, err := rhs(r)
			if err != nil {
				return nil, err
			}
			return arith(op, a, b)
		}, nil

	default:
		return nil, fmt.Errorf("cannot compile %s (%T) into a row function", expr, expr)
	}
}

// asFloat widens the numeric types rows can carry.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func isInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// compare applies a comparison operator to two scalars. Numbers compare
// numerically across int/float, strings lexically, booleans only for
// equality. Mixed types are an error rather than a coercion.
func compare(op CmpOp, a, b any) (bool, error) {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return compareOrdered(op, fa, fb)
		}
	}

	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return compareOrdered(op, sa, sb)
		}
	}

	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch op {
			case OpEq:
				return ba == bb, nil
			case OpNe:
				return ba != bb, nil
			}
			return false, fmt.Errorf("operator %s not defined for booleans", op)
		}
	}

	return false, fmt.Errorf("cannot compare %T with %T", a, b)
}

func compareOrdered[T int64 | float64 | string](op CmpOp, a, b T) (bool, error) {
	switch op {
	case OpEq:
		return a == b, nil
	case OpNe:
		return a != b, nil
	case OpLt:
		return a < b, nil
	case OpLe:
		return a <= b, nil
	case OpGt:
		return a > b, nil
	case OpGe:
		return a >= b, nil
	}
	return false, fmt.Errorf("unknown comparison operator %q", op)
}

// arith applies an arithmetic operator. Two integers stay integral
// except under division, which always produces a float and rejects a
// zero divisor.
func arith(op ArithOp, a, b any) (any, error) {
	if op != OpDiv {
		if ia, ok := isInt(a); ok {
			if ib, ok := isInt(b); ok {
				switch op {
				case OpAdd:
					return ia + ib, nil
				case OpSub:
					return ia - ib, nil
				case OpMul:
					return ia * ib, nil
				}
			}
		}
	}

	fa, okA := asFloat(a)
	fb, okB := asFloat(b)
	if !okA || !okB {
		return nil, fmt.Errorf("cannot apply %s to %T and %T", op, a, b)
	}

	switch op {
	case OpAdd:
		return fa + fb, nil
	case OpSub:
		return fa - fb, nil
	case OpMul:
		return fa * fb, nil
	case OpDiv:
		if fb == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return fa / fb, nil
	}
	return nil, fmt.Errorf("unknown arithmetic operator %q", op)
}
