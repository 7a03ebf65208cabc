// internal/app/system/inputval/inputval.go

// Package inputval decodes and validates JSON request bodies. Validation
// rules live as `validate` struct tags on the request types; failures map to
// the InvalidInput error kind with a field-keyed error map the client can
// render next to the offending input.
package inputval

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeAndValidate reads at most maxBytes of the request body into dst,
// rejecting unknown fields, then applies dst's validate tags.
func DecodeAndValidate(r *http.Request, dst any, maxBytes int64) *apierror.Error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierror.Invalid("request body is not valid JSON", nil)
	}
	return Validate(dst)
}

// Validate applies dst's validate tags and converts failures to an
// InvalidInput error.
func Validate(dst any) *apierror.Error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierror.Invalid("request validation failed", nil)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe)] = fieldMessage(fe)
	}
	return apierror.Invalid("validation failed", fields)
}

// fieldName prefers the JSON name over the Go struct field name.
func fieldName(fe validator.FieldError) string {
	// Namespace is like "CreatePostRequest.Title"; keep the leaf, lowered
	// to match the JSON convention used by the request types.
	parts := strings.Split(fe.Namespace(), ".")
	leaf := parts[len(parts)-1]
	return strings.ToLower(leaf)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "too short (minimum " + fe.Param() + ")"
	case "max":
		return "too long (maximum " + fe.Param() + ")"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}
