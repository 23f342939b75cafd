package attr

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// JSONSchema renders the field table as a JSON Schema object describing the
// typed attribute values of one node. Properties keep declaration order,
// nullable fields also accept null, and required fields are listed as
// required.
func JSONSchema(s *Schema) *jsonschema.Schema {
	out := &jsonschema.Schema{
		Type:                 "object",
		Title:                s.name,
		Properties:           make(map[string]*jsonschema.Schema, len(s.fields)),
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
	for _, f := range s.fields {
		prop := &jsonschema.Schema{Description: f.Description}
		typ := jsonType(f.Kind)
		if f.Nullable {
			prop.Types = []string{typ, "null"}
		} else {
			prop.Type = typ
			out.Required = append(out.Required, f.Name)
		}
		if f.Kind == KindText && !f.Nullable {
			one := 1
			prop.MinLength = &one
		}
		if f.Min != nil {
			lo := float64(*f.Min)
			prop.Minimum = &lo
		}
		if f.Max != nil {
			hi := float64(*f.Max)
			prop.Maximum = &hi
		}
		out.Properties[f.Name] = prop
		out.PropertyOrder = append(out.PropertyOrder, f.Name)
	}
	return out
}

func jsonType(k Kind) string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	}
	return "string"
}
