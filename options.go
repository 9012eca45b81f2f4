package klaviyo

import (
	"net/http"

	"github.com/lexfrei/go-klaviyo/internal/request"
	"github.com/lexfrei/go-klaviyo/internal/response"
)

// Params is an insertion-ordered parameter mapping used for queries and
// form bodies. The zero value is ready to use.
type Params = request.Params

// Result is a successful API response.
type Result = response.Result

// NewParams builds Params from alternating key/value arguments:
//
//	klaviyo.NewParams("count", 50, "sort", "desc")
//
// It panics on an odd number of arguments or a non-string key.
func NewParams(kv ...any) Params {
	return request.NewParams(kv...)
}

// Options carries the optional parts of a private request.
// JSON and Form are mutually exclusive. Nil entries in Query and Form are
// dropped before encoding.
type Options struct {
	Query   Params
	JSON    any
	Form    Params
	Headers http.Header
}

func (o *Options) descriptor(method, path string) request.Descriptor {
	d := request.Descriptor{Method: method, Path: path}
	if o == nil {
		return d
	}

	d.Query = request.Filter(o.Query)
	d.JSON = o.JSON
	d.Form = request.Filter(o.Form)
	d.Headers = o.Headers

	return d
}

// optional returns nil for the zero value of v, so Filter drops it.
func optional[T comparable](v T) any {
	var zero T
	if v == zero {
		return nil
	}
	return v
}

// SinceParams returns the pagination parameter of a timeline request.
// A non-empty uuid (the "next" token of a previous page) wins over since.
func SinceParams(since, uuid string) Params {
	if uuid != "" {
		return NewParams("since", uuid)
	}
	return NewParams("since", optional(since))
}

// filterParams drops unset entries from a payload that is not filtered by the facade.
func filterParams(p Params) Params {
	return request.Filter(p)
}
