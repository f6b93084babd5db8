package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/bucketlist-api/internal/api/shared"
	"github.com/phrazzld/bucketlist-api/internal/domain"
)

// schemaField is the key for errors that are not tied to a single field.
const schemaField = "_schema"

// ValidationFailure maps JSON field names to the reasons they were rejected.
// It is rendered as {"error": {field: [messages...]}} with status 400.
type ValidationFailure struct {
	Fields map[string][]string
}

func (v *ValidationFailure) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(v.Fields[k], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationFailure) add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

func newValidationFailure(field, message string) *ValidationFailure {
	vf := &ValidationFailure{}
	vf.add(field, message)
	return vf
}

// decodeAndValidate decodes the JSON body into dst and checks its validate
// tags. Any failure comes back as a *ValidationFailure. An empty body is
// treated as an empty object so that missing fields are reported.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := shared.DecodeJSON(w, r, dst); err != nil && !errors.Is(err, io.EOF) {
		return decodeFailure(err)
	}
	if err := shared.ValidateRequest(dst); err != nil {
		return translateValidationErrors(err)
	}
	return nil
}

func decodeFailure(err error) *ValidationFailure {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = schemaField
		}
		return newValidationFailure(field, typeMessage(typeErr))
	case errors.As(err, &maxErr):
		return newValidationFailure(schemaField, "Request body too large.")
	default:
		return newValidationFailure(schemaField, "Invalid JSON body.")
	}
}

func typeMessage(err *json.UnmarshalTypeError) string {
	if err.Type == nil {
		return "Invalid type."
	}
	switch err.Type.String() {
	case "bool", "*bool":
		return "Not a valid boolean."
	case "string", "*string":
		return "Not a valid string."
	case "int", "int64", "*int", "*int64":
		return "Not a valid integer."
	default:
		return "Invalid input type."
	}
}

func translateValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newValidationFailure(schemaField, "Invalid input.")
	}

	vf := &ValidationFailure{}
	for _, fe := range verrs {
		vf.add(fe.Field(), tagMessage(fe))
	}
	return vf
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return displayName(fe.Field()) + " is required"
	case "notblank":
		return "Field cannot be blank"
	case "max":
		return fmt.Sprintf("Longer than maximum length %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Shorter than minimum length %s.", fe.Param())
	default:
		return "Invalid value."
	}
}

// displayName turns a JSON field name into "Created by" style.
func displayName(field string) string {
	if field == "" {
		return field
	}
	name := strings.ReplaceAll(field, "_", " ")
	return strings.ToUpper(name[:1]) + name[1:]
}

// fromDomainValidation converts a domain validation error into a field failure.
func fromDomainValidation(err error) (*ValidationFailure, bool) {
	var derr *domain.ValidationError
	if !errors.As(err, &derr) {
		return nil, false
	}
	return newValidationFailure(derr.Field, displayName(derr.Field)+" "+derr.Message), true
}
