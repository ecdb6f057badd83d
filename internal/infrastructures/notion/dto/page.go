package dto

import "encoding/json"

const (
	TypeTitle    = "title"
	TypeRichText = "rich_text"
	TypeSelect   = "select"
	TypeNumber   = "number"
	TypeDate     = "date"
	TypeRelation = "relation"
)

type Page struct {
	Object     string     `json:"object,omitempty"`
	ID         string     `json:"id"`
	Properties Properties `json:"properties"`
}

type Properties map[string]Property

// Property is one typed value of a page. Only the member named by Type is meaningful.
type Property struct {
	Type     string     `json:"type,omitempty"`
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Select   *Select    `json:"select,omitempty"`
	Number   *float64   `json:"number,omitempty"`
	Date     *Date      `json:"date,omitempty"`
	Relation []Relation `json:"relation,omitempty"`
}

type RichText struct {
	Type      string `json:"type,omitempty"`
	Text      Text   `json:"text"`
	PlainText string `json:"plain_text,omitempty"`
}

type Text struct {
	Content string `json:"content"`
}

type Select struct {
	Name string `json:"name"`
}

type Date struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

type Relation struct {
	ID string `json:"id"`
}

// MarshalJSON writes only the member selected by Type. Empty arrays are kept so the API
// clears the value instead of rejecting an empty property object.
func (p Property) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case TypeTitle:
		return json.Marshal(map[string]any{TypeTitle: nonNilTexts(p.Title)})
	case TypeRichText:
		return json.Marshal(map[string]any{TypeRichText: nonNilTexts(p.RichText)})
	case TypeSelect:
		return json.Marshal(map[string]any{TypeSelect: p.Select})
	case TypeNumber:
		return json.Marshal(map[string]any{TypeNumber: p.Number})
	case TypeDate:
		return json.Marshal(map[string]any{TypeDate: p.Date})
	case TypeRelation:
		relations := p.Relation
		if relations == nil {
			relations = []Relation{}
		}
		return json.Marshal(map[string]any{TypeRelation: relations})
	default:
		type plain Property
		return json.Marshal(plain(p))
	}
}

func nonNilTexts(texts []RichText) []RichText {
	if texts == nil {
		return []RichText{}
	}
	return texts
}
