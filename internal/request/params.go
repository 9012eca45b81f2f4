// Package request builds wire-level HTTP requests from API call descriptors.
package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Params is an insertion-ordered parameter mapping.
// The zero value is ready to use.
type Params struct {
	keys   []string
	values map[string]any
}

// NewParams builds Params from alternating key/value arguments.
// It panics if a key is not a string or a value is missing.
func NewParams(kv ...any) Params {
	if len(kv)%2 != 0 {
		panic("request.NewParams: odd number of arguments")
	}

	var p Params
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("request.NewParams: key %v is not a string", kv[i]))
		}
		p.Set(key, kv[i+1])
	}

	return p
}

// Set stores value under key. An existing key keeps its position.
func (p *Params) Set(key string, value any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key.
func (p Params) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Del removes key.
func (p *Params) Del(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (p Params) Len() int {
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (p Params) Range(fn func(key string, value any) bool) {
	for _, k := range p.keys {
		if !fn(k, p.values[k]) {
			return
		}
	}
}

// Clone returns a shallow copy that can be modified independently.
func (p Params) Clone() Params {
	var c Params
	p.Range(func(k string, v any) bool {
		c.Set(k, v)
		return true
	})
	return c
}

// Merge returns a copy of p with every entry of other set on top of it.
func (p Params) Merge(other Params) Params {
	c := p.Clone()
	other.Range(func(k string, v any) bool {
		c.Set(k, v)
		return true
	})
	return c
}

// Map returns the entries as an unordered map.
func (p Params) Map() map[string]any {
	m := make(map[string]any, len(p.keys))
	p.Range(func(k string, v any) bool {
		m[k] = v
		return true
	})
	return m
}

// MarshalJSON encodes p as a JSON object, preserving key order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	var err error
	i := 0
	p.Range(func(k string, v any) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++

		var kb, vb []byte
		if kb, err = marshalNoEscape(k); err != nil {
			return false
		}
		if vb, err = marshalNoEscape(v); err != nil {
			err = errors.Wrapf(err, "failed to encode parameter %q", k)
			return false
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "failed to decode parameters")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("parameters must be a JSON object")
	}

	*p = Params{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return errors.Wrap(err, "failed to decode parameter key")
		}
		key, _ := tok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return errors.Wrapf(err, "failed to decode parameter %q", key)
		}
		p.Set(key, value)
	}

	return nil
}

// Encode URL-encodes p in insertion order.
// Strings are used verbatim, scalars are formatted, slices of scalars become
// repeated keys and any other value is JSON encoded.
func (p Params) Encode() (string, error) {
	var sb strings.Builder
	var err error

	write := func(k, v string) {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(v))
	}

	p.Range(func(k string, v any) bool {
		if s, ok := formatScalar(v); ok {
			write(k, s)
			return true
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			if items, ok := scalarItems(rv); ok {
				for _, item := range items {
					write(k, item)
				}
				return true
			}
		}

		var b []byte
		if b, err = marshalNoEscape(v); err != nil {
			err = errors.Wrapf(err, "failed to encode parameter %q", k)
			return false
		}
		write(k, string(b))
		return true
	})
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}

// Filter returns a copy of params without unset entries: nil values, nil
// pointers, nil slices, nil maps and nil interfaces. Order is preserved.
func Filter(params Params) Params {
	var out Params
	params.Range(func(k string, v any) bool {
		if !isNil(v) {
			out.Set(k, v)
		}
		return true
	})
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func formatScalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case json.Number:
		return val.String(), true
	case fmt.Stringer:
		return val.String(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if !rv.IsNil() {
			return formatScalar(rv.Elem().Interface())
		}
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	default:
	}

	return "", false
}

func scalarItems(rv reflect.Value) ([]string, bool) {
	items := make([]string, 0, rv.Len())
	for i := range rv.Len() {
		s, ok := formatScalar(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		items = append(items, s)
	}
	return items, true
}

// marshalNoEscape encodes v as JSON without HTML escaping.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err //nolint:wrapcheck // callers add parameter context
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
