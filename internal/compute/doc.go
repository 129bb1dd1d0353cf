// Package compute evaluates table expressions against data sources.
//
// An expression is a tree of operations over Symbol leaves. Data is
// bound to symbols through a Scope (or directly on the symbol), and
// Compute walks the tree: leaves resolve to their data, every other
// node is evaluated from its children. Whole-expression fast paths,
// pre/post hooks and a best-effort optimize step can be registered per
// call.
//
//	t := compute.NewSymbol("t", "name", "balance")
//	deadbeats := t.Filter(t.Field("balance").Lt(compute.Int(0))).Project("name")
//
//	data := compute.NewTable([]string{"name", "balance"}, []compute.Row{
//		{"Alice", int64(100)}, {"Bob", int64(-50)}, {"Charlie", int64(-20)},
//	})
//	result, err := compute.ComputeSingle(deadbeats, data)
//	// result holds the names Bob and Charlie
package compute
