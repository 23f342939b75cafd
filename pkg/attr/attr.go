// Package attr is the generic attribute engine for node variants. A node
// variant declares its editable fields once, as an ordered table of Field
// descriptors (name, description, kind, nullability and typed accessors).
// The engine lists, validates, coerces and writes those fields without any
// knowledge of the variant's Go type, so adding a variant needs no changes
// here.
//
// Values travel through the engine in text form: what a user typed, what a
// form shows, and what the persistence codec stores. The empty string means
// "no value".
package attr

import (
	"fmt"
)

// Kind is the declared type of a field. The set is closed; adding a kind
// means adding a coercion rule in Coerce and a formatting rule in Format.
type Kind int

const (
	// KindText holds a string.
	KindText Kind = iota + 1
	// KindInteger holds a base-10 signed integer.
	KindInteger
	// KindBoolean holds true or false.
	KindBoolean
)

// String returns the kind's name as shown to users.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k Kind) supported() bool {
	return k == KindText || k == KindInteger || k == KindBoolean
}

// Field describes one editable attribute of a node variant. Build fields with
// the typed constructors (Text, Int, Bool and their Optional forms); the
// accessors they install are only valid for the variant they were built for.
type Field struct {
	Name        string
	Description string
	Kind        Kind
	Nullable    bool

	// Min and Max bound integer values when set.
	Min, Max *int

	// get returns the current value and whether one is present.
	get func(target any) (any, bool)
	// set writes a coerced value; nil clears a nullable field.
	set func(target any, v any)
}

// Text declares a required string field.
func Text[T any](name, description string, ref func(*T) *string) Field {
	return Field{
		Name:        name,
		Description: description,
		Kind:        KindText,
		get: func(target any) (any, bool) {
			s := *ref(target.(*T))
			return s, s != ""
		},
		set: func(target any, v any) {
			s, _ := v.(string)
			*ref(target.(*T)) = s
		},
	}
}

// Int declares a required integer field.
func Int[T any](name, description string, ref func(*T) *int) Field {
	return Field{
		Name:        name,
		Description: description,
		Kind:        KindInteger,
		get: func(target any) (any, bool) {
			return *ref(target.(*T)), true
		},
		set: func(target any, v any) {
			i, _ := v.(int)
			*ref(target.(*T)) = i
		},
	}
}

// Bool declares a required boolean field.
func Bool[T any](name, description string, ref func(*T) *bool) Field {
	return Field{
		Name:        name,
		Description: description,
		Kind:        KindBoolean,
		get: func(target any) (any, bool) {
			return *ref(target.(*T)), true
		},
		set: func(target any, v any) {
			b, _ := v.(bool)
			*ref(target.(*T)) = b
		},
	}
}

// Within bounds an integer field to [lo, hi].
func (f Field) Within(lo, hi int) Field {
	f.Min, f.Max = &lo, &hi
	return f
}

// OptionalText declares a nullable string field.
func OptionalText[T any](name, description string, ref func(*T) **string) Field {
	return optional(name, description, KindText, ref)
}

// OptionalInt declares a nullable integer field.
func OptionalInt[T any](name, description string, ref func(*T) **int) Field {
	return optional(name, description, KindInteger, ref)
}

// OptionalBool declares a nullable boolean field.
func OptionalBool[T any](name, description string, ref func(*T) **bool) Field {
	return optional(name, description, KindBoolean, ref)
}

func optional[T, V any](name, description string, kind Kind, ref func(*T) **V) Field {
	return Field{
		Name:        name,
		Description: description,
		Kind:        kind,
		Nullable:    true,
		get: func(target any) (any, bool) {
			p := *ref(target.(*T))
			if p == nil {
				return nil, false
			}
			return *p, true
		},
		set: func(target any, v any) {
			x, ok := v.(V)
			if !ok {
				*ref(target.(*T)) = nil
				return
			}
			*ref(target.(*T)) = &x
		},
	}
}

// Schema is the ordered field table of one node variant.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
	match  func(any) bool
}

// NewSchema builds the field table for variant T. Fields keep their
// declaration order. It panics on an empty or duplicate field name, which is
// a programming error in the variant's declaration.
func NewSchema[T any](name string, fields ...Field) *Schema {
	s := &Schema{
		name:   name,
		fields: fields,
		index:  make(map[string]int, len(fields)),
		match: func(v any) bool {
			_, ok := v.(*T)
			return ok
		},
	}
	for i, f := range fields {
		if f.Name == "" {
			panic(fmt.Sprintf("attr: schema %q: field %d has no name", name, i))
		}
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("attr: schema %q: duplicate field %q", name, f.Name))
		}
		s.index[f.Name] = i
	}
	return s
}

// Name returns the variant name the schema was declared with.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Editable is implemented by node variants that expose attributes.
// Placeholders do not implement it.
type Editable interface {
	Schema() *Schema
}

// SchemaOf returns v's field table if v exposes editable attributes.
func SchemaOf(v any) (*Schema, bool) {
	e, ok := v.(Editable)
	if !ok {
		return nil, false
	}
	s := e.Schema()
	if s == nil || !s.match(v) {
		return nil, false
	}
	return s, true
}
