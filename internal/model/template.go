package model

import (
	"errors"
	"fmt"
	"time"
)

// Field input types. The type selects the input affordance in a client form;
// values are carried and rendered as strings regardless of type.
const (
	FieldText   = "text"
	FieldNumber = "number"
	FieldDate   = "date"
)

// Schema validation errors. Handlers map these to an "INVALID_TEMPLATE" response.
var (
	ErrNameRequired   = errors.New("template name is required")
	ErrFieldsRequired = errors.New("template needs at least one field")
	ErrDuplicateField = errors.New("duplicate field name")
)

// FieldDescriptor is one entry in a template's field schema.
type FieldDescriptor struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type,omitempty"`
}

// Template is a named, ordered field schema that drives both form input and
// document rendering. Templates are immutable once created.
type Template struct {
	ID        string            `json:"id"`
	UserID    string            `json:"-"`
	Name      string            `json:"name"`
	Fields    []FieldDescriptor `json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
}

// Validate checks the schema invariants: non-empty name, at least one field,
// field names unique within the template. A template must pass Validate before
// it is saved or used for generation.
func (t *Template) Validate() error {
	if t.Name == "" {
		return ErrNameRequired
	}
	if len(t.Fields) == 0 {
		return ErrFieldsRequired
	}
	seen := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
