package attr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrRequired is matched by every ValidationError.
	ErrRequired = errors.New("attr: value required")

	// ErrCoercion is matched by every CoercionError.
	ErrCoercion = errors.New("attr: cannot convert value")

	// ErrOutOfRange is wrapped by a CoercionError for integers outside a
	// field's bounds.
	ErrOutOfRange = errors.New("attr: value out of range")

	// ErrUnknownField is returned when input names a field the schema does not
	// declare.
	ErrUnknownField = errors.New("attr: unknown field")

	// ErrNotEditable is returned for values that expose no attributes.
	ErrNotEditable = errors.New("attr: value has no editable attributes")
)

// ValidationError reports a non-nullable field left without a value.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("attr: field %q must not be empty", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrRequired
}

// CoercionError reports raw text that does not parse as the field's kind.
type CoercionError struct {
	Field string
	Kind  Kind
	Raw   string
	Err   error
}

func (e *CoercionError) Error() string {
	if errors.Is(e.Err, ErrOutOfRange) {
		return fmt.Sprintf("attr: field %q: %s is out of range", e.Field, e.Raw)
	}
	return fmt.Sprintf("attr: field %q: %q is not a valid %s", e.Field, e.Raw, e.Kind)
}

func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Normalize maps the empty string to "no input".
func Normalize(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	return raw, true
}

// Coerce converts raw text to a value of kind k. An absent input yields
// (nil, nil). Text passes through, integers are parsed base-10 and booleans are
// true only for a case-insensitive "true"; anything else is false and never an
// error. A kind outside the supported set yields (nil, nil).
func Coerce(k Kind, raw string, present bool) (any, error) {
	if !present {
		return nil, nil
	}
	switch k {
	case KindText:
		return raw, nil
	case KindInteger:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		return i, nil
	case KindBoolean:
		return strings.EqualFold(raw, "true"), nil
	}
	return nil, nil
}

// Format returns the text form of a value held by a field of kind k. It is
// the inverse of Coerce for every supported kind.
func Format(k Kind, v any) string {
	if v == nil {
		return ""
	}
	switch k {
	case KindText:
		s, _ := v.(string)
		return s
	case KindInteger:
		if i, ok := v.(int); ok {
			return strconv.Itoa(i)
		}
	case KindBoolean:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b)
		}
	}
	return fmt.Sprint(v)
}
