// Package fieldtypes is the single source of truth for the supported form
// field types. Other layers (validation, seeding, the builder API) depend on
// it instead of duplicating the type list.
package fieldtypes

import "conecta.church/models"

// Definition describes one field type: how it renders in the builder and
// what a freshly added field of that type looks like.
type Definition struct {
	Type               models.FieldType
	Label              string
	DefaultLabel       string
	DefaultPlaceholder string
	RequiresOptions    bool
}

// ordered matches the builder palette order.
var ordered = []Definition{
	{Type: models.FieldTypeShortText, Label: "Short text", DefaultLabel: "Short answer", DefaultPlaceholder: "Type your answer"},
	{Type: models.FieldTypeLongText, Label: "Paragraph", DefaultLabel: "Long answer", DefaultPlaceholder: "Type your answer"},
	{Type: models.FieldTypeEmail, Label: "Email", DefaultLabel: "Email address", DefaultPlaceholder: "name@example.com"},
	{Type: models.FieldTypeNumber, Label: "Number", DefaultLabel: "Number", DefaultPlaceholder: "0"},
	{Type: models.FieldTypePhone, Label: "Phone", DefaultLabel: "Phone number", DefaultPlaceholder: "(00) 00000-0000"},
	{Type: models.FieldTypeRadio, Label: "Multiple choice", DefaultLabel: "Choose one", RequiresOptions: true},
	{Type: models.FieldTypeCheckbox, Label: "Checkboxes", DefaultLabel: "Choose all that apply", RequiresOptions: true},
	{Type: models.FieldTypeSelect, Label: "Dropdown", DefaultLabel: "Select one", RequiresOptions: true},
}

var byType = func() map[models.FieldType]Definition {
	m := make(map[models.FieldType]Definition, len(ordered))
	for _, d := range ordered {
		m[d.Type] = d
	}
	return m
}()

// All returns the definitions in builder palette order.
func All() []Definition {
	out := make([]Definition, len(ordered))
	copy(out, ordered)
	return out
}

// Lookup returns the definition for a type tag.
func Lookup(t models.FieldType) (Definition, bool) {
	d, ok := byType[t]
	return d, ok
}

// Valid reports whether t is one of the supported type tags.
func Valid(t models.FieldType) bool {
	_, ok := byType[t]
	return ok
}

// RequiresOptions reports whether fields of this type must carry an options
// list. Unknown types require nothing.
func RequiresOptions(t models.FieldType) bool {
	return byType[t].RequiresOptions
}

// DefaultOptions returns the starter options a builder shows when a field of
// an option-bearing type is added, or nil for every other type.
func DefaultOptions(t models.FieldType) []models.FieldOption {
	if !RequiresOptions(t) {
		return nil
	}
	return []models.FieldOption{
		{Label: "Option 1", Value: "option_1", Position: 0},
		{Label: "Option 2", Value: "option_2", Position: 1},
	}
}
