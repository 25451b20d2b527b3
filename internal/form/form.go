// Package form binds raw user input to a template's field schema.
package form

import "propdocs/internal/model"

// Values maps field names to entered values. Map order is meaningless;
// consumers iterate template field order.
type Values map[string]string

// Bind produces a complete Values mapping for the template: every field gets
// an entry, with the raw input when present and an empty string otherwise.
// Bind never fails; leaving a field blank is always permitted.
func Bind(tpl *model.Template, raw map[string]string) Values {
	vals := make(Values, len(tpl.Fields))
	for _, f := range tpl.Fields {
		vals[f.Name] = raw[f.Name]
	}
	return vals
}
