package request

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/lexfrei/go-klaviyo/apierror"
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
	contentTypeForm   = "application/x-www-form-urlencoded"
)

// Descriptor is the generic, scheme-independent description of one API call.
// At most one of JSON and Form may be set.
type Descriptor struct {
	Method  string
	Path    string
	Query   Params
	JSON    any
	Form    Params
	Headers http.Header
}

// Clone returns a deep enough copy for an auth scheme to modify.
// The JSON body is shared since schemes never touch it.
func (d Descriptor) Clone() Descriptor {
	c := d
	c.Query = d.Query.Clone()
	c.Form = d.Form.Clone()
	c.Headers = d.Headers.Clone()
	if c.Headers == nil {
		c.Headers = make(http.Header)
	}
	return c
}

// HasBody reports whether d carries a JSON or form body.
func (d Descriptor) HasBody() bool {
	return !isNil(d.JSON) || d.hasForm()
}

func (d Descriptor) hasForm() bool {
	return d.Form.Len() > 0
}

// WireRequest is a fully assembled request ready for the transport.
type WireRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// HTTPRequest converts w into an *http.Request bound to ctx.
func (w *WireRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if w.Body != nil {
		body = bytes.NewReader(w.Body)
	}

	req, err := http.NewRequestWithContext(ctx, w.Method, w.URL, body)
	if err != nil {
		return nil, apierror.Configurationf("invalid request %s %s", w.Method, w.Path())
	}

	if w.Header != nil {
		req.Header = w.Header.Clone()
	}
	return req, nil
}

// Path returns the URL without its query string, safe to print.
func (w *WireRequest) Path() string {
	if i := strings.IndexByte(w.URL, '?'); i >= 0 {
		return w.URL[:i]
	}
	return w.URL
}

// Build assembles a WireRequest for d against baseURL.
func Build(baseURL string, d Descriptor) (*WireRequest, error) {
	hasJSON := !isNil(d.JSON)
	if hasJSON && d.hasForm() {
		return nil, apierror.Configurationf("request to %s sets both a JSON and a form body", d.Path)
	}

	method := d.Method
	if method == "" {
		method = http.MethodGet
	}

	url := strings.TrimRight(baseURL, "/") + NormalizePath(d.Path)
	if d.Query.Len() > 0 {
		query, err := d.Query.Encode()
		if err != nil {
			return nil, apierror.Configurationf("invalid query for %s: %v", d.Path, err)
		}
		url += "?" + query
	}

	header := d.Headers.Clone()
	if header == nil {
		header = make(http.Header)
	}

	w := &WireRequest{Method: method, URL: url, Header: header}

	switch {
	case hasJSON:
		body, err := marshalNoEscape(d.JSON)
		if err != nil {
			return nil, apierror.Configurationf("invalid JSON body for %s: %v", d.Path, err)
		}
		w.Body = body
		header.Add(contentTypeHeader, contentTypeJSON)

	case d.hasForm():
		form, err := d.Form.Encode()
		if err != nil {
			return nil, apierror.Configurationf("invalid form body for %s: %v", d.Path, err)
		}
		w.Body = []byte(form)
		if header.Get(contentTypeHeader) == "" {
			header.Set(contentTypeHeader, contentTypeForm)
		}
	}

	return w, nil
}

// NormalizePath returns path with exactly one leading slash and no
// repeated slashes.
func NormalizePath(path string) string {
	var sb strings.Builder
	sb.Grow(len(path) + 1)
	sb.WriteByte('/')

	prevSlash := true
	for i := range len(path) {
		c := path[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		sb.WriteByte(c)
	}

	return sb.String()
}
