package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blaze-data/blaze/internal/app"
	"github.com/blaze-data/blaze/internal/compute"
	"github.com/blaze-data/blaze/internal/errors"
)

var (
	queryData   string
	queryWhere  string
	querySelect []string
	queryHead   int
	queryFormat string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a filter/project/head query over a data file",
	Long: `Loads a CSV or JSON table and evaluates a small query against it.

The --where clause is "field OP literal", with OP one of
== != < <= > >=. String literals may be quoted.

Examples:
  blaze query --data accounts.csv --where "balance < 0" --select name
  blaze query --data rows.json --head 10`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryData, "data", "d", "", "Data file, CSV or JSON (required)")
	queryCmd.Flags().StringVarP(&queryWhere, "where", "w", "", "Row filter: \"field OP literal\"")
	queryCmd.Flags().StringSliceVarP(&querySelect, "select", "s", nil, "Columns to keep")
	queryCmd.Flags().IntVar(&queryHead, "head", 0, "Keep only the first N rows")
	queryCmd.Flags().StringVarP(&queryFormat, "format", "f", "table", "Output format: table or json")
	queryCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	a := app.Default

	path := queryData
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.Root, path)
	}

	table, err := loadTable(path)
	if err != nil {
		return errors.ComputeError("failed to load data", err)
	}

	sym := compute.Bind("t", table)
	var expr compute.Expr = sym

	if queryWhere != "" {
		pred, err := parseWhere(sym, queryWhere)
		if err != nil {
			return errors.ValidationError(err.Error())
		}
		expr = &compute.Filter{Child: expr, Predicate: pred}
	}

	if len(querySelect) > 0 {
		expr = &compute.Projection{Child: expr, Names: querySelect}
	}

	if queryHead > 0 {
		expr = &compute.Head{Child: expr, N: queryHead}
	}

	result, err := compute.Compute(expr, compute.Scope{})
	if err != nil {
		return errors.ComputeError("query failed", err)
	}

	out, ok := result.(*compute.Table)
	if !ok {
		return errors.ComputeError(fmt.Sprintf("query produced %T, want a table", result), nil)
	}

	return printTable(cmd, out, queryFormat)
}

// loadTable reads a CSV or JSON table. JSON files hold an array of flat
// objects; CSV files carry a header row.
func loadTable(path string) (*compute.Table, error) {
	data, err := app.Default.FS.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return tableFromJSON(data)
	}
	return tableFromCSV(data)
}

func tableFromCSV(data []byte) (*compute.Table, error) {
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	fields := records[0]
	rows := make([]compute.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(compute.Row, len(record))
		for i, cell := range record {
			row[i] = coerceScalar(cell)
		}
		rows = append(rows, row)
	}
	return compute.NewTable(fields, rows), nil
}

func tableFromJSON(data []byte) (*compute.Table, error) {
	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("JSON table is empty")
	}

	// Field order follows the first object's keys, sorted for stability.
	var fields []string
	for key := range objects[0] {
		fields = append(fields, key)
	}
	sort.Strings(fields)

	rows := make([]compute.Row, len(objects))
	for i, obj := range objects {
		row := make(compute.Row, len(fields))
		for j, field := range fields {
			row[j] = normalizeJSONValue(obj[field])
		}
		rows[i] = row
	}
	return compute.NewTable(fields, rows), nil
}

// normalizeJSONValue converts float64 values that are whole numbers
// into int64, so integer columns compare as integers.
func normalizeJSONValue(v any) any {
	if f, ok := v.(float64); ok {
		if f == float64(int64(f)) {
			return int64(f)
		}
	}
	return v
}

// coerceScalar parses a CSV cell into int64, float64, bool, or string.
func coerceScalar(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

var whereOps = map[string]compute.CmpOp{
	"==": compute.OpEq,
	"!=": compute.OpNe,
	"<":  compute.OpLt,
	"<=": compute.OpLe,
	">":  compute.OpGt,
	">=": compute.OpGe,
}

// parseWhere parses a "field OP literal" clause against the symbol.
func parseWhere(sym *compute.Symbol, clause string) (compute.Expr, error) {
	parts := strings.Fields(clause)
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid --where clause %q: want \"field OP literal\"", clause)
	}

	op, ok := whereOps[parts[1]]
	if !ok {
		return nil, fmt.Errorf("unknown operator %q in --where clause", parts[1])
	}

	lit := parts[2]
	var rhs compute.Expr
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		rhs = compute.Int(n)
	} else if f, err := strconv.ParseFloat(lit, 64); err == nil {
		rhs = compute.Float(f)
	} else {
		rhs = compute.Str(strings.Trim(lit, `"'`))
	}

	return &compute.Cmp{Op: op, Lhs: sym.Field(parts[0]), Rhs: rhs}, nil
}

func printTable(cmd *cobra.Command, table *compute.Table, format string) error {
	switch format {
	case "", "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, strings.ToUpper(strings.Join(table.Fields, "\t")))
		for _, row := range table.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = fmt.Sprintf("%v", v)
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		return w.Flush()

	case "json":
		objects := make([]map[string]any, len(table.Rows))
		for i, row := range table.Rows {
			obj := make(map[string]any, len(table.Fields))
			for j, field := range table.Fields {
				obj[field] = row[j]
			}
			objects[i] = obj
		}
		data, err := json.MarshalIndent(objects, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil

	default:
		return errors.ValidationError(fmt.Sprintf("unknown format %q: use table or json", format))
	}
}
