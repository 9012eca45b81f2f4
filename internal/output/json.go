// Package output formats CLI results as JSON, jq-filtered JSON or tables.
package output

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/itchyny/gojq"
)

// PrintJSON pretty-prints v as indented JSON to w.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return errors.Wrap(enc.Encode(v), "failed to encode JSON")
}

// ApplyJQ runs a jq expression against data and writes every result to w.
// data must hold JSON-decoded values (maps, slices, float64, strings, bools).
func ApplyJQ(w io.Writer, data any, expr string) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return errors.Wrap(err, "failed to parse jq expression")
	}

	iter := query.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return errors.Wrap(err, "jq evaluation failed")
		}
		if err := PrintJSON(w, v); err != nil {
			return err
		}
	}
}
