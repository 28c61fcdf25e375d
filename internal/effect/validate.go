package effect

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError reports one out-of-domain field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level failures. It is returned before
// any engine interaction happens.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the effect against the constrained domain. A nil
// return means both render paths accept the value without further
// checks.
func (e VideoEffect) Validate() error {
	var fields []FieldError

	if !knownType(e.Type) {
		fields = append(fields, FieldError{
			Field:   "type",
			Message: fmt.Sprintf("type must be one of %s", typeList()),
		})
	}

	fields = append(fields, translate(validate.Struct(e.Params))...)

	if e.Params.Easing != "" && !e.Params.Easing.valid() {
		fields = append(fields, FieldError{
			Field:   "easing",
			Message: "easing must be one of linear, ease_in, ease_out, ease_in_out",
		})
	}

	switch e.Type {
	case Zoom:
		if e.Params.Direction != DirIn && e.Params.Direction != DirOut {
			fields = append(fields, FieldError{
				Field:   "direction",
				Message: "direction must be in or out for zoom",
			})
		}
	case Pan:
		switch e.Params.Direction {
		case DirLeft, DirRight, DirUp, DirDown:
		default:
			fields = append(fields, FieldError{
				Field:   "direction",
				Message: "direction must be left, right, up or down for pan",
			})
		}
	}
	// Any other type tolerates a set direction and ignores it.

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Validate checks geometry and encoding ranges.
func (s ExportSettings) Validate() error {
	fields := translate(validate.Struct(s))
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// translate converts validator failures into stable, human-readable
// field messages.
func translate(err error) []FieldError {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	ranges := map[string][2]string{
		"duration":  {"1", "30"},
		"intensity": {"0", "100"},
		"width":     {"100", "3840"},
		"height":    {"100", "2160"},
		"fps":       {"1", "60"},
		"quality":   {"1", "100"},
	}

	var fields []FieldError
	for _, fe := range verrs {
		name := fe.Field()
		switch fe.Tag() {
		case "required":
			fields = append(fields, FieldError{Field: name, Message: name + " is required"})
		case "oneof":
			fields = append(fields, FieldError{
				Field:   name,
				Message: fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", ")),
			})
		case "gte", "lte":
			if r, ok := ranges[name]; ok {
				fields = append(fields, FieldError{
					Field:   name,
					Message: fmt.Sprintf("%s must be between %s and %s", name, r[0], r[1]),
				})
			} else {
				fields = append(fields, FieldError{
					Field:   name,
					Message: fmt.Sprintf("%s is out of range", name),
				})
			}
		default:
			fields = append(fields, FieldError{Field: name, Message: name + " is invalid"})
		}
	}
	return fields
}

func knownType(t Type) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

func typeList() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
