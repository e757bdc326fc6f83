package handler

import (
	"encoding/json"
	"maps"
	"net/http"
	"strconv"
)

// Renderer renders itself to an http.ResponseWriter.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Response is a fully buffered HTTP response. Middleware receives it after the
// action ran and may inspect or change it; terminate hooks see the final value.
type Response struct {
	status int
	header http.Header
	body   []byte
}

// NewResponse creates a response with the given body and status.
func NewResponse(body []byte, status int) *Response {
	return &Response{
		status: status,
		header: make(http.Header),
		body:   body,
	}
}

// Text creates a 200 response with text/html content, like Lumen's response() helper.
func Text(content string) *Response {
	return TextWithStatus(content, http.StatusOK)
}

// TextWithStatus creates a text/html response with a custom status code.
func TextWithStatus(content string, status int) *Response {
	resp := NewResponse([]byte(content), status)
	resp.header.Set("Content-Type", "text/html; charset=utf-8")
	return resp
}

// JSON creates a 200 response with v encoded as JSON.
func JSON(v any) (*Response, error) {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates a JSON response with a custom status code.
func JSONWithStatus(v any, status int) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	resp := NewResponse(body, status)
	resp.header.Set("Content-Type", "application/json")
	return resp, nil
}

// Empty creates an empty response with status 204 (No Content).
func Empty() *Response {
	return EmptyWithStatus(http.StatusNoContent)
}

// EmptyWithStatus creates an empty response with a custom status code.
func EmptyWithStatus(status int) *Response {
	return NewResponse(nil, status)
}

// Redirect creates a redirect response with status 302 (Found).
//
// Example:
//
//	return handler.Redirect("/home")
func Redirect(url string) *Response {
	return RedirectWithCode(url, http.StatusFound)
}

// RedirectWithCode creates a redirect response with a specific status code.
// Valid codes are 301, 302, 303, 307 and 308.
func RedirectWithCode(url string, code int) *Response {
	resp := NewResponse(nil, code)
	resp.header.Set("Location", url)
	return resp
}

// StatusCode returns the HTTP status.
func (r *Response) StatusCode() int {
	return r.status
}

// SetStatusCode changes the HTTP status.
func (r *Response) SetStatusCode(status int) *Response {
	r.status = status
	return r
}

// Header returns the response headers. The map may be modified.
func (r *Response) Header() http.Header {
	return r.header
}

// WithHeader sets a header and returns the response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	r.header.Set(key, value)
	return r
}

// Content returns the body as a string.
func (r *Response) Content() string {
	return string(r.body)
}

// Bytes returns the body.
func (r *Response) Bytes() []byte {
	return r.body
}

// SetContent replaces the body.
func (r *Response) SetContent(content string) *Response {
	r.body = []byte(content)
	return r
}

// SetBody replaces the body.
func (r *Response) SetBody(body []byte) *Response {
	r.body = body
	return r
}

// IsRedirect reports whether the response is a 3xx with a Location header.
func (r *Response) IsRedirect() bool {
	return r.status >= 300 && r.status < 400 && r.header.Get("Location") != ""
}

// Render writes headers, status and body to w.
func (r *Response) Render(w http.ResponseWriter, _ *http.Request) error {
	dst := w.Header()
	maps.Copy(dst, r.header)
	if len(r.body) > 0 && dst.Get("Content-Length") == "" {
		dst.Set("Content-Length", strconv.Itoa(len(r.body)))
	}
	w.WriteHeader(r.status)
	if len(r.body) == 0 {
		return nil
	}
	_, err := w.Write(r.body)
	return err
}
