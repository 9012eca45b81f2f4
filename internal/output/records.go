package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Column maps a table header to a key of a Klaviyo record.
type Column struct {
	Header string
	Key    string
}

// Records returns the objects of a decoded response body. v2 list endpoints
// return a bare array; v1 metrics and templates nest it under "data" and
// list members under "records", so field names the wrapper key.
// Non-object entries are skipped.
func Records(data any, field string) []map[string]any {
	list, ok := data.([]any)
	if !ok {
		obj, isObj := data.(map[string]any)
		if !isObj {
			return nil
		}
		list, _ = obj[field].([]any)
	}

	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if record, isObj := item.(map[string]any); isObj {
			records = append(records, record)
		}
	}

	return records
}

// PrintRecords writes one row per record with a cell per column. Terminals
// get an aligned table; pipes get tab-separated lines with a header row.
func PrintRecords(w io.Writer, records []map[string]any, columns []Column, isTTY bool) error {
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Header
	}
	rows := cells(records, columns)

	if !isTTY {
		for _, line := range append([][]string{header}, rows...) {
			if _, err := fmt.Fprintln(w, joinTabs(line)); err != nil {
				return errors.Wrap(err, "failed to write record")
			}
		}
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders:  tw.BorderNone,
			Settings: tw.Settings{Separators: tw.Separators{BetweenColumns: tw.Off, BetweenRows: tw.Off}},
		})),
	)
	table.Header(anySlice(header)...)

	for _, row := range rows {
		if err := table.Append(anySlice(row)...); err != nil {
			return errors.Wrap(err, "failed to add record")
		}
	}

	return errors.Wrap(table.Render(), "failed to render records")
}

func cells(records []map[string]any, columns []Column) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cell(record[col.Key])
		}
		rows = append(rows, row)
	}

	return rows
}

// cell renders a decoded JSON value. Numbers keep their integer form so
// timestamps and counts do not turn into exponents.
func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

var tabSafe = strings.NewReplacer("\t", " ", "\n", " ")

// joinTabs keeps one record per line even when a value holds tabs or newlines.
func joinTabs(line []string) string {
	parts := make([]string, len(line))
	for i, v := range line {
		parts[i] = tabSafe.Replace(v)
	}

	return strings.Join(parts, "\t")
}

func anySlice(line []string) []any {
	out := make([]any, len(line))
	for i, v := range line {
		out[i] = v
	}

	return out
}
