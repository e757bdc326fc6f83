package validation

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rangka/lumen/handler"
)

// Option configures a Validator.
type Option func(*Validator)

// WithMessages replaces the message renderer.
func WithMessages(fn MessageFunc) Option {
	return func(v *Validator) {
		if fn != nil {
			v.message = fn
		}
	}
}

// WithRule registers a custom rule under tag.
func WithRule(tag string, fn validator.Func) Option {
	return func(v *Validator) {
		if err := v.validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validator is safe for concurrent use once constructed.
type Validator struct {
	validate *validator.Validate
	message  MessageFunc
}

// New creates a Validator. Options that register invalid rules panic.
func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		message:  DefaultMessage,
	}
	v.validate.RegisterTagNameFunc(fieldName)
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var std = New()

// Default returns the package validator used by Validate and Struct.
func Default() *Validator { return std }

// Struct validates s with the package validator.
func Struct(ctx context.Context, s any) error {
	return std.Struct(ctx, s)
}

// Validate checks the request input of ctx with the package validator.
func Validate(ctx handler.Context, rules map[string]string) error {
	return std.Request(ctx.Request(), rules)
}

// Struct validates the tags of s. Failures are returned as handler.ValidationError;
// other errors, such as a non-struct argument, are returned unchanged.
func (v *Validator) Struct(ctx context.Context, s any) error {
	err := v.validate.StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := handler.NewValidationError()
	for _, fe := range verrs {
		out.Add(fe.Field(), v.message(fe.Field(), fe))
	}
	return out
}

// Map validates data against rules keyed by field. Missing fields are
// validated as empty strings.
func (v *Validator) Map(ctx context.Context, data map[string]any, rules map[string]string) error {
	out := handler.NewValidationError()
	for field, rule := range rules {
		value, ok := data[field]
		if !ok || value == nil {
			value = ""
		}
		err := v.validate.VarCtx(ctx, value, rule)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			out.Add(field, v.message(field, fe))
		}
	}
	if out.IsEmpty() {
		return nil
	}
	return out
}

// Request validates the query string and form body of r.
func (v *Validator) Request(r *http.Request, rules map[string]string) error {
	if err := r.ParseForm(); err != nil {
		return handler.NewHTTPError(http.StatusBadRequest, "invalid_form")
	}
	data := make(map[string]any, len(r.Form))
	for key, values := range r.Form {
		if len(values) > 0 {
			data[key] = values[0]
		}
	}
	return v.Map(r.Context(), data, rules)
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}
