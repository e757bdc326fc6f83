// Package validation checks structs and request input with go-playground/validator
// and reports failures as handler.ValidationError, which the exception handler
// renders as 422 Unprocessable Entity.
//
// Struct fields are reported under their json tag, falling back to the form tag
// and then the Go field name. Request input rules use the validator tag syntax:
//
//	err := validation.Validate(ctx, map[string]string{
//		"name":  "required",
//		"email": "required,email",
//	})
//	if err != nil {
//		return nil, err
//	}
package validation
