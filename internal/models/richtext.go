package models

import (
	"encoding/json"
	"fmt"
)

// Rich text run types
const (
	RichTextTypeText    = "text"
	RichTextTypeMention = "mention"
)

// RichText represents one styled run of a block's text content
type RichText struct {
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Mention     *Mention     `json:"mention,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
	Href        string       `json:"href,omitempty"`
}

// Text holds the content of a text run
type Text struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link is the target of a linked text run
type Link struct {
	URL string `json:"url"`
}

// Annotations holds the styling flags of a run
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// Mention references a user, page, database or other object by id.
// On the wire the id lives in a nested object keyed by the mention type:
// {"type": "page", "page": {"id": "..."}}.
type Mention struct {
	Type string
	ID   string
}

// MarshalJSON encodes the mention in Notion's nested shape
func (m Mention) MarshalJSON() ([]byte, error) {
	obj := map[string]interface{}{
		"type": m.Type,
	}
	if m.Type != "" {
		obj[m.Type] = map[string]string{"id": m.ID}
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes a mention, reading the id from the object keyed by its type
func (m *Mention) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse mention: %w", err)
	}

	var mentionType string
	if v, ok := raw["type"]; ok {
		if err := json.Unmarshal(v, &mentionType); err != nil {
			return fmt.Errorf("failed to parse mention type: %w", err)
		}
	}

	// date and template mentions carry no id
	var ref struct {
		ID string `json:"id"`
	}
	if payload, ok := raw[mentionType]; ok {
		_ = json.Unmarshal(payload, &ref)
	}

	m.Type = mentionType
	m.ID = ref.ID
	return nil
}

// LinkURL returns the run's link target, or an empty string when it has none
func (rt RichText) LinkURL() string {
	if rt.Text == nil || rt.Text.Link == nil {
		return ""
	}
	return rt.Text.Link.URL
}

// sanitize drops the "#" placeholder Notion returns for removed links and
// reports whether the run changed
func (rt *RichText) sanitize() bool {
	changed := false
	if rt.Text != nil && rt.Text.Link != nil && isPlaceholderURL(rt.Text.Link.URL) {
		rt.Text.Link = nil
		changed = true
	}
	if rt.Href != "" && isPlaceholderURL(rt.Href) {
		rt.Href = ""
		changed = true
	}
	return changed
}

func isPlaceholderURL(url string) bool {
	return url == "" || url == "#"
}
