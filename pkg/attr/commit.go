package attr

import (
	"fmt"
)

// View is the presentation tuple of one field.
type View struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Value       string `json:"value" yaml:"value"`
	Present     bool   `json:"present" yaml:"present"`
	Nullable    bool   `json:"nullable" yaml:"nullable"`
}

// Input is one (field name, raw text) pair submitted for commit.
type Input struct {
	Name string
	Raw  string
}

// Describe lists v's fields in declaration order with their current values in
// text form. Fields without a value are shown as "".
func Describe(v any) ([]View, error) {
	s, ok := SchemaOf(v)
	if !ok {
		return nil, ErrNotEditable
	}
	views := make([]View, 0, len(s.fields))
	for _, f := range s.fields {
		val, present := f.get(v)
		view := View{
			Name:        f.Name,
			Description: f.Description,
			Kind:        f.Kind,
			Present:     present,
			Nullable:    f.Nullable,
		}
		if present {
			view.Value = Format(f.Kind, val)
		}
		views = append(views, view)
	}
	return views, nil
}

// Blank lists a schema's fields with no values, for rendering a form for a
// node that does not exist yet.
func Blank(s *Schema) []View {
	views := make([]View, 0, len(s.fields))
	for _, f := range s.fields {
		views = append(views, View{
			Name:        f.Name,
			Description: f.Description,
			Kind:        f.Kind,
			Nullable:    f.Nullable,
		})
	}
	return views
}

// Commit validates, coerces and writes every field of v from inputs. A field
// with no matching input is treated as having no input. Nothing is written
// unless every field passes: the first failure in declaration order is
// returned as a *ValidationError or *CoercionError and v is left unchanged.
// When inputs name the same field twice the last one wins.
func Commit(v any, inputs []Input) error {
	s, ok := SchemaOf(v)
	if !ok {
		return ErrNotEditable
	}
	raw := make(map[string]string, len(inputs))
	for _, in := range inputs {
		if _, ok := s.index[in.Name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, in.Name)
		}
		raw[in.Name] = in.Raw
	}
	writes, err := s.plan(func(f Field) (string, bool, bool) {
		r, ok := raw[f.Name]
		return r, ok, true
	})
	if err != nil {
		return err
	}
	s.apply(v, writes)
	return nil
}

// Assign is a partial Commit from text form: only the fields named in values
// are touched, and a nil entry means "no value". Like Commit it writes nothing
// unless every named field passes.
func Assign(v any, values map[string]*string) error {
	s, ok := SchemaOf(v)
	if !ok {
		return ErrNotEditable
	}
	for name := range values {
		if _, ok := s.index[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	writes, err := s.plan(func(f Field) (string, bool, bool) {
		p, named := values[f.Name]
		if !named {
			return "", false, false
		}
		if p == nil {
			return "", false, true
		}
		return *p, true, true
	})
	if err != nil {
		return err
	}
	s.apply(v, writes)
	return nil
}

// Values returns the text form of every field of v, nil for fields without a
// value. It returns nil if v exposes no attributes.
func Values(v any) map[string]*string {
	s, ok := SchemaOf(v)
	if !ok {
		return nil
	}
	out := make(map[string]*string, len(s.fields))
	for _, f := range s.fields {
		val, present := f.get(v)
		if !present {
			out[f.Name] = nil
			continue
		}
		text := Format(f.Kind, val)
		out[f.Name] = &text
	}
	return out
}

// Typed returns the current value of every field of v as its Go value (string,
// int or bool), nil for fields without a value. It returns nil if v exposes no
// attributes.
func Typed(v any) map[string]any {
	s, ok := SchemaOf(v)
	if !ok {
		return nil
	}
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		val, present := f.get(v)
		if !present {
			out[f.Name] = nil
			continue
		}
		out[f.Name] = val
	}
	return out
}

type write struct {
	field Field
	value any
}

// plan validates and coerces every field that input touches. input returns the
// raw text, whether it was given, and whether the field is touched at all.
func (s *Schema) plan(input func(Field) (string, bool, bool)) ([]write, error) {
	var writes []write
	for _, f := range s.fields {
		raw, given, touched := input(f)
		if !touched {
			continue
		}
		if given {
			raw, given = Normalize(raw)
		}
		if !given && !f.Nullable {
			return nil, &ValidationError{Field: f.Name}
		}
		val, err := Coerce(f.Kind, raw, given)
		if err != nil {
			return nil, &CoercionError{Field: f.Name, Kind: f.Kind, Raw: raw, Err: err}
		}
		if err := f.check(val); err != nil {
			return nil, &CoercionError{Field: f.Name, Kind: f.Kind, Raw: raw, Err: err}
		}
		if !f.Kind.supported() {
			continue
		}
		writes = append(writes, write{field: f, value: val})
	}
	return writes, nil
}

func (s *Schema) apply(v any, writes []write) {
	for _, w := range writes {
		w.field.set(v, w.value)
	}
}

func (f Field) check(v any) error {
	i, ok := v.(int)
	if !ok {
		return nil
	}
	if (f.Min != nil && i < *f.Min) || (f.Max != nil && i > *f.Max) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return nil
}
