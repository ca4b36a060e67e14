// Lectern: A library and CLI for extracting novel catalogs and chapter indexes.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package network

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Lectern/pkg/engine/parser"
	"Lectern/pkg/engine/parser/html"
	"github.com/tidwall/gjson"
)

// Headers is an ordered-insensitive header set applied to a request
type Headers map[string]string

// Request represents an HTTP request configuration
type Request struct {
	URL     string
	Method  string
	Headers Headers
	Body    []byte

	// Options; zero values fall back to the client's settings
	RateLimit  time.Duration
	Timeout    time.Duration
	MaxRetries int

	// Form data (for POST requests)
	FormData url.Values
}

func (r *Request) bodyReader() io.Reader {
	if r.Body == nil {
		return nil
	}
	return bytes.NewReader(r.Body)
}

// Response represents an HTTP response with lazily parsed content
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte

	// Final URL after redirects; relative links resolve against it
	URL    string
	Method string

	json *gjson.Result
	html *html.Document
}

// JSON validates the body and returns its root
func (r *Response) JSON() (gjson.Result, error) {
	if r.json == nil {
		root, err := parser.JSON(r.Body)
		if err != nil {
			return gjson.Result{}, err
		}
		r.json = &root
	}
	return *r.json, nil
}

// HTML returns the parsed document, resolving links against the response URL
func (r *Response) HTML() (*html.Document, error) {
	if r.html == nil {
		doc, err := html.Parse(r.Body, r.URL)
		if err != nil {
			return nil, err
		}
		r.html = doc
	}
	return r.html, nil
}

// Text returns the response body as a string
func (r *Response) Text() string {
	return string(r.Body)
}

// IsJSON checks if the response declares JSON content
func (r *Response) IsJSON() bool {
	return strings.Contains(r.Headers.Get("Content-Type"), "application/json")
}

// IsSuccess checks if the response indicates success
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RequestBuilder - Builder for creating requests
type RequestBuilder struct {
	req *Request
}

// NewRequest creates a new GET request builder
func NewRequest(url string) *RequestBuilder {
	return &RequestBuilder{
		req: &Request{
			URL:     url,
			Method:  http.MethodGet,
			Headers: make(Headers),
		},
	}
}

// Method sets the HTTP method
func (b *RequestBuilder) Method(method string) *RequestBuilder {
	b.req.Method = method
	return b
}

// Header adds a header
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.req.Headers[key] = value
	return b
}

// Headers adds multiple headers
func (b *RequestBuilder) Headers(headers Headers) *RequestBuilder {
	for k, v := range headers {
		b.req.Headers[k] = v
	}
	return b
}

// Body sets the raw request body
func (b *RequestBuilder) Body(body []byte) *RequestBuilder {
	b.req.Body = body
	return b
}

// Form sets form data and switches the request to POST
func (b *RequestBuilder) Form(data url.Values) *RequestBuilder {
	b.req.FormData = data
	b.req.Method = http.MethodPost
	b.req.Headers["Content-Type"] = "application/x-www-form-urlencoded"
	b.req.Body = []byte(data.Encode())
	return b
}

// RateLimit sets the per-domain interval for this request
func (b *RequestBuilder) RateLimit(delay time.Duration) *RequestBuilder {
	b.req.RateLimit = delay
	return b
}

// Timeout sets the request timeout
func (b *RequestBuilder) Timeout(timeout time.Duration) *RequestBuilder {
	b.req.Timeout = timeout
	return b
}

// Retries sets the maximum number of retries
func (b *RequestBuilder) Retries(retries int) *RequestBuilder {
	b.req.MaxRetries = retries
	return b
}

// Build returns the constructed request
func (b *RequestBuilder) Build() *Request {
	return b.req
}
