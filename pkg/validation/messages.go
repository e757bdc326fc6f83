package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MessageFunc renders the message for a failed rule on field.
type MessageFunc func(field string, fe validator.FieldError) string

// DefaultMessage renders messages such as "The email field is required.".
func DefaultMessage(field string, fe validator.FieldError) string {
	name := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return fmt.Sprintf("The %s field is required.", name)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", name)
	case "url", "http_url":
		return fmt.Sprintf("The %s format is invalid.", name)
	case "uuid", "uuid4":
		return fmt.Sprintf("The %s must be a valid UUID.", name)
	case "min":
		return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s.", name, fe.Param())
	case "len":
		return fmt.Sprintf("The %s must be %s.", name, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("The %s must be greater than %s%s.", name, orEqual(fe.Tag()), fe.Param())
	case "lt", "lte":
		return fmt.Sprintf("The %s must be less than %s%s.", name, orEqual(fe.Tag()), fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	case "numeric", "number":
		return fmt.Sprintf("The %s must be a number.", name)
	case "alpha":
		return fmt.Sprintf("The %s may only contain letters.", name)
	case "alphanum":
		return fmt.Sprintf("The %s may only contain letters and numbers.", name)
	case "boolean":
		return fmt.Sprintf("The %s field must be true or false.", name)
	case "eqfield":
		return fmt.Sprintf("The %s and %s must match.", name, strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("The %s is invalid.", name)
	}
}

func orEqual(tag string) string {
	if strings.HasSuffix(tag, "e") {
		return "or equal to "
	}
	return ""
}
