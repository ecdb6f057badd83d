package mappers

import (
	"fmt"
	"time"

	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion/dto"
)

// Kind is the type tag of a remote property.
type Kind string

const (
	KindTitle    Kind = dto.TypeTitle
	KindRichText Kind = dto.TypeRichText
	KindSelect   Kind = dto.TypeSelect
	KindNumber   Kind = dto.TypeNumber
	KindDate     Kind = dto.TypeDate
	KindRelation Kind = dto.TypeRelation
)

const dateLayout = "2006-01-02"

type codec struct {
	decode func(dto.Property) (any, error)
	encode func(any) (dto.Property, error)
}

// codecs is the complete kind table. Schemas refuse any kind missing from it.
var codecs = map[Kind]codec{
	KindTitle:    {decode: decodeTitle, encode: encodeTitle},
	KindRichText: {decode: decodeRichText, encode: encodeRichText},
	KindSelect:   {decode: decodeSelect, encode: encodeSelect},
	KindNumber:   {decode: decodeNumber, encode: encodeNumber},
	KindDate:     {decode: decodeDate, encode: encodeDate},
	KindRelation: {decode: decodeRelation, encode: encodeRelation},
}

// DecodeError names the property that could not be flattened.
type DecodeError struct {
	Property string
	Kind     Kind
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("property %q (%s): %v", e.Property, e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func firstText(texts []dto.RichText) string {
	if len(texts) == 0 {
		return ""
	}
	if texts[0].Text.Content == "" && texts[0].PlainText != "" {
		return texts[0].PlainText
	}
	return texts[0].Text.Content
}

func textValue(content string) []dto.RichText {
	return []dto.RichText{{Text: dto.Text{Content: content}}}
}

func decodeTitle(p dto.Property) (any, error) {
	return firstText(p.Title), nil
}

func decodeRichText(p dto.Property) (any, error) {
	return firstText(p.RichText), nil
}

// decodeSelect maps an unset select to "", the value encodeSelect turns into null.
func decodeSelect(p dto.Property) (any, error) {
	if p.Select == nil {
		return "", nil
	}
	return p.Select.Name, nil
}

func decodeNumber(p dto.Property) (any, error) {
	if p.Number == nil {
		return nil, fmt.Errorf("%w: number is null", derr.ErrMalformedProperty)
	}
	return *p.Number, nil
}

func decodeDate(p dto.Property) (any, error) {
	if p.Date == nil {
		return "", nil
	}
	return NormalizeDate(p.Date.Start)
}

func decodeRelation(p dto.Property) (any, error) {
	if len(p.Relation) == 0 {
		return "", nil
	}
	return p.Relation[0].ID, nil
}

func encodeTitle(v any) (dto.Property, error) {
	s, err := asString(v)
	if err != nil {
		return dto.Property{}, err
	}
	return dto.Property{Type: dto.TypeTitle, Title: textValue(s)}, nil
}

func encodeRichText(v any) (dto.Property, error) {
	s, err := asString(v)
	if err != nil {
		return dto.Property{}, err
	}
	return dto.Property{Type: dto.TypeRichText, RichText: textValue(s)}, nil
}

func encodeSelect(v any) (dto.Property, error) {
	s, err := asString(v)
	if err != nil {
		return dto.Property{}, err
	}
	if s == "" {
		return dto.Property{Type: dto.TypeSelect}, nil
	}
	return dto.Property{Type: dto.TypeSelect, Select: &dto.Select{Name: s}}, nil
}

func encodeNumber(v any) (dto.Property, error) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case int:
		n = float64(x)
	default:
		return dto.Property{}, fmt.Errorf("expected number, got %T", v)
	}
	return dto.Property{Type: dto.TypeNumber, Number: &n}, nil
}

func encodeDate(v any) (dto.Property, error) {
	s, err := asString(v)
	if err != nil {
		return dto.Property{}, err
	}
	if s == "" {
		return dto.Property{Type: dto.TypeDate}, nil
	}
	date, err := NormalizeDate(s)
	if err != nil {
		return dto.Property{}, err
	}
	return dto.Property{Type: dto.TypeDate, Date: &dto.Date{Start: date}}, nil
}

func encodeRelation(v any) (dto.Property, error) {
	s, err := asString(v)
	if err != nil {
		return dto.Property{}, err
	}
	if s == "" {
		return dto.Property{Type: dto.TypeRelation, Relation: []dto.Relation{}}, nil
	}
	return dto.Property{Type: dto.TypeRelation, Relation: []dto.Relation{{ID: s}}}, nil
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

// NormalizeDate accepts a calendar date or an RFC 3339 timestamp and returns YYYY-MM-DD.
func NormalizeDate(value string) (string, error) {
	layouts := []string{
		dateLayout,
		time.RFC3339,
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.Format(dateLayout), nil
		}
	}

	return "", fmt.Errorf("%w: unsupported date format: %q", derr.ErrMalformedProperty, value)
}
