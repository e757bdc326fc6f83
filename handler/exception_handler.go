package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rangka/lumen/pkg/logger"
	"github.com/rangka/lumen/pkg/requestid"
)

// ExceptionHandler reports and renders errors raised by actions and middleware.
type ExceptionHandler interface {
	Report(ctx Context, err error)
	Render(ctx Context, err error) *Response
}

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Message    string
	LogLevel   slog.Level
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// Classify maps err to a status code and a client-safe message.
func Classify(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Message:    ErrInternalServerError.Message(),
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Message()
	}

	// Validation errors win over HTTP errors when both are in the chain
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		info.StatusCode = http.StatusUnprocessableEntity
		info.Message = "The given data was invalid."
	}

	info.LogLevel = determineLogLevel(info.StatusCode)
	return info
}

// validationPayload is the 422 body.
type validationPayload struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

type defaultExceptionHandler struct {
	log   *slog.Logger
	debug bool
}

// NewExceptionHandler creates the default handler. It logs through log and renders
// validation errors as JSON and everything else as plain text. In debug mode the
// raw error message of 5xx errors is exposed in the body.
func NewExceptionHandler(log *slog.Logger, debug bool) ExceptionHandler {
	if log == nil {
		log = slog.Default()
	}
	return &defaultExceptionHandler{log: log, debug: debug}
}

func (h *defaultExceptionHandler) Report(ctx Context, err error) {
	info := Classify(err)
	r := ctx.Request()

	h.log.LogAttrs(r.Context(), info.LogLevel, "request error",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		slog.Int("status_code", info.StatusCode),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("exception_handler"),
	)
}

func (h *defaultExceptionHandler) Render(ctx Context, err error) *Response {
	info := Classify(err)

	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		resp, jsonErr := JSONWithStatus(validationPayload{
			Message: info.Message,
			Errors:  validationErr,
		}, info.StatusCode)
		if jsonErr == nil {
			return resp
		}
	}

	message := info.Message
	if h.debug && info.StatusCode >= http.StatusInternalServerError {
		message = err.Error()
	}
	resp := TextWithStatus(message, info.StatusCode)
	resp.Header().Set("Content-Type", "text/plain; charset=utf-8")

	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusMethodNotAllowed {
		if allow := allowedMethods(err); allow != "" {
			resp.Header().Set("Allow", allow)
		}
	}
	return resp
}

// MethodNotAllowedError carries the methods registered for a path.
type MethodNotAllowedError struct {
	Allowed []string
}

func (e MethodNotAllowedError) Error() string {
	return ErrMethodNotAllowed.Key
}

// Unwrap lets errors.As find the HTTPError.
func (e MethodNotAllowedError) Unwrap() error {
	return ErrMethodNotAllowed
}

func allowedMethods(err error) string {
	var mna MethodNotAllowedError
	if !errors.As(err, &mna) {
		return ""
	}
	return strings.Join(mna.Allowed, ", ")
}
