package handler

import (
	"bytes"
	"net/http"
)

// ResponseWriter is an http.ResponseWriter that buffers everything written to it
// so the result can be turned into a *Response.
type ResponseWriter struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

// NewResponseWriter creates an empty buffering writer.
func NewResponseWriter() *ResponseWriter {
	return &ResponseWriter{header: make(http.Header)}
}

func (w *ResponseWriter) Header() http.Header {
	return w.header
}

func (w *ResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
}

func (w *ResponseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(p)
}

// Written reports whether anything (header or body) was written.
func (w *ResponseWriter) Written() bool {
	return w.wroteHeader
}

// Response converts the buffered output into a *Response.
func (w *ResponseWriter) Response() *Response {
	status := w.status
	if !w.wroteHeader {
		status = http.StatusOK
	}
	resp := NewResponse(bytes.Clone(w.body.Bytes()), status)
	resp.header = w.header.Clone()
	return resp
}
