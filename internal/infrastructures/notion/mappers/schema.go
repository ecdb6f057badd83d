package mappers

import (
	"fmt"

	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion/dto"
)

// Field binds a remote property to a flat record key.
type Field struct {
	Property string
	Key      string
	Kind     Kind
}

// Values is a flat record: strings for text-like kinds, float64 for numbers.
type Values map[string]any

type Schema struct {
	name   string
	fields []Field
	byKey  map[string]Field
}

func NewSchema(name string, fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %s: no fields", name)
	}

	byKey := make(map[string]Field, len(fields))
	props := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := codecs[f.Kind]; !ok {
			return nil, fmt.Errorf("schema %s: field %q: unknown kind %q", name, f.Property, f.Kind)
		}
		if f.Property == "" || f.Key == "" {
			return nil, fmt.Errorf("schema %s: field with empty property or key", name)
		}
		if _, ok := props[f.Property]; ok {
			return nil, fmt.Errorf("schema %s: duplicate property %q", name, f.Property)
		}
		if _, ok := byKey[f.Key]; ok {
			return nil, fmt.Errorf("schema %s: duplicate key %q", name, f.Key)
		}
		props[f.Property] = struct{}{}
		byKey[f.Key] = f
	}

	return &Schema{name: name, fields: fields, byKey: byKey}, nil
}

func MustSchema(name string, fields ...Field) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string {
	return s.name
}

func (s *Schema) Field(key string) (Field, bool) {
	f, ok := s.byKey[key]
	return f, ok
}

// Decode flattens every schema field of props. Properties outside the schema are ignored.
func (s *Schema) Decode(props dto.Properties) (Values, error) {
	values := make(Values, len(s.fields))
	for _, f := range s.fields {
		p, ok := props[f.Property]
		if !ok {
			return nil, &DecodeError{Property: f.Property, Kind: f.Kind, Err: fmt.Errorf("%w: missing", derr.ErrMalformedProperty)}
		}

		v, err := codecs[f.Kind].decode(p)
		if err != nil {
			return nil, &DecodeError{Property: f.Property, Kind: f.Kind, Err: err}
		}
		values[f.Key] = v
	}

	return values, nil
}

// Encode builds properties for the keys present in values only, so a subset makes a patch.
func (s *Schema) Encode(values Values) (dto.Properties, error) {
	props := make(dto.Properties, len(values))
	for key, v := range values {
		f, ok := s.byKey[key]
		if !ok {
			return nil, fmt.Errorf("schema %s: unknown key %q", s.name, key)
		}

		p, err := codecs[f.Kind].encode(v)
		if err != nil {
			return nil, fmt.Errorf("schema %s: encode %q: %w", s.name, key, err)
		}
		props[f.Property] = p
	}

	return props, nil
}

func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

func (v Values) Number(key string) float64 {
	n, _ := v[key].(float64)
	return n
}
