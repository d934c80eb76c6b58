package models

import (
	"encoding/json"
	"fmt"
)

// Block types with special handling during transcoding
const (
	BlockTypeParagraph     = "paragraph"
	BlockTypeChildPage     = "child_page"
	BlockTypeChildDatabase = "child_database"
	BlockTypeImage         = "image"
	BlockTypeCallout       = "callout"
	BlockTypeUnsupported   = "unsupported"
	BlockTypeFile          = "file"
	BlockTypeAudio         = "audio"
	BlockTypeLinkPreview   = "link_preview"
)

// Keys that may hold a block's translatable runs, in lookup order
var richTextKeys = []string{"rich_text", "text"}

const (
	keyObject        = "object"
	keyID            = "id"
	keyType          = "type"
	keyHasChildren   = "has_children"
	keyChildBlockIDs = "child_block_ids"
	keyChildren      = "children"
	keyIcon          = "icon"
)

// Kind separates blocks the transcoder understands from opaque ones
type Kind int

const (
	// KindOpaque blocks have no rich text payload and travel as raw JSON
	KindOpaque Kind = iota
	// KindText blocks carry their runs under Content.TextKey
	KindText
)

// Block represents a Notion block.
//
// The payload stored under the key equal to Type is held in Content; any other
// top-level fields returned by the API (timestamps, parent, archived...) are
// kept verbatim in Extra. ParentID is traversal state and is not serialized.
//
// Raw holds the exact bytes the block was decoded from, so opaque blocks can
// be passed through unchanged. Methods that edit the payload clear it.
type Block struct {
	Object      string
	ID          string
	Type        string
	HasChildren bool
	ParentID    string
	ChildIDs    []string
	Content     Content
	Extra       map[string]json.RawMessage
	Raw         json.RawMessage

	// hasChildrenKey records an explicit "has_children": false
	hasChildrenKey bool
}

// Content is the type-specific payload of a block
type Content struct {
	// TextKey is "rich_text" or "text" for text blocks and empty otherwise
	TextKey  string
	RichText []RichText
	Params   map[string]json.RawMessage
	Children []Block
}

// Kind reports whether the block carries translatable runs
func (b Block) Kind() Kind {
	if b.Content.TextKey != "" {
		return KindText
	}
	return KindOpaque
}

// ImageSourceType returns "external" or "file" for image blocks
func (b Block) ImageSourceType() string {
	return b.Content.nestedType(keyType)
}

// CalloutIconType returns the type of the callout's icon, if any
func (b Block) CalloutIconType() string {
	return b.Content.nestedObjectType(keyIcon)
}

// StripIcon removes the icon parameter from the payload
func (b *Block) StripIcon() {
	if _, ok := b.Content.Params[keyIcon]; ok {
		delete(b.Content.Params, keyIcon)
		b.Raw = nil
	}
}

// SanitizeLinks nulls out placeholder links in the block and its children
func (b *Block) SanitizeLinks() {
	for i := range b.Content.RichText {
		if b.Content.RichText[i].sanitize() {
			b.Raw = nil
		}
	}
	for i := range b.Content.Children {
		b.Content.Children[i].SanitizeLinks()
	}
}

// ForAppend returns a copy shaped for the append children API: no ids,
// no read-only fields, nested children converted recursively.
func (b Block) ForAppend() Block {
	out := Block{
		Object: "block",
		Type:   b.Type,
		Content: Content{
			TextKey:  b.Content.TextKey,
			RichText: b.Content.RichText,
			Params:   b.Content.Params,
		},
	}
	for _, child := range b.Content.Children {
		out.Content.Children = append(out.Content.Children, child.ForAppend())
	}
	return out
}

// MarshalJSON encodes the block in Notion's wire shape
func (b Block) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(b.Extra)+6)
	for k, v := range b.Extra {
		out[k] = v
	}

	set := func(key string, v interface{}) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		out[key] = data
		return nil
	}

	if b.Object != "" {
		if err := set(keyObject, b.Object); err != nil {
			return nil, err
		}
	}
	if b.ID != "" {
		if err := set(keyID, b.ID); err != nil {
			return nil, err
		}
	}
	if err := set(keyType, b.Type); err != nil {
		return nil, err
	}
	if b.HasChildren || b.hasChildrenKey {
		if err := set(keyHasChildren, b.HasChildren); err != nil {
			return nil, err
		}
	}
	if len(b.ChildIDs) > 0 {
		if err := set(keyChildBlockIDs, b.ChildIDs); err != nil {
			return nil, err
		}
	}
	if b.Type != "" {
		content, err := b.Content.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out[b.Type] = content
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a block from Notion's wire shape
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse block: %w", err)
	}

	var decoded Block
	take := func(key string, dst interface{}) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("failed to parse block %s: %w", key, err)
		}
		return nil
	}

	if err := take(keyObject, &decoded.Object); err != nil {
		return err
	}
	if err := take(keyID, &decoded.ID); err != nil {
		return err
	}
	if err := take(keyType, &decoded.Type); err != nil {
		return err
	}
	_, decoded.hasChildrenKey = raw[keyHasChildren]
	if err := take(keyHasChildren, &decoded.HasChildren); err != nil {
		return err
	}
	if v, ok := raw[keyChildBlockIDs]; ok {
		delete(raw, keyChildBlockIDs)
		ids, err := ParseIDList(v)
		if err != nil {
			return err
		}
		decoded.ChildIDs = ids
	}

	if decoded.Type != "" {
		if payload, ok := raw[decoded.Type]; ok {
			delete(raw, decoded.Type)
			if err := decoded.Content.UnmarshalJSON(payload); err != nil {
				return fmt.Errorf("failed to parse %s payload: %w", decoded.Type, err)
			}
		}
	}

	if len(raw) > 0 {
		decoded.Extra = raw
	}
	decoded.Raw = append(json.RawMessage(nil), data...)

	*b = decoded
	return nil
}

// MarshalJSON encodes the payload, putting runs back under TextKey
func (c Content) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(c.Params)+2)
	for k, v := range c.Params {
		out[k] = v
	}
	if c.TextKey != "" {
		runs := c.RichText
		if runs == nil {
			runs = []RichText{}
		}
		data, err := json.Marshal(runs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", c.TextKey, err)
		}
		out[c.TextKey] = data
	}
	if len(c.Children) > 0 {
		data, err := json.Marshal(c.Children)
		if err != nil {
			return nil, fmt.Errorf("failed to encode children: %w", err)
		}
		out[keyChildren] = data
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits a payload into runs, nested children and parameters
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var decoded Content
	for _, key := range richTextKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var runs []RichText
		// a "text" key that is not a run list is an ordinary parameter
		if err := json.Unmarshal(v, &runs); err != nil {
			continue
		}
		delete(raw, key)
		decoded.TextKey = key
		if len(runs) > 0 {
			decoded.RichText = runs
		}
		break
	}

	if v, ok := raw[keyChildren]; ok {
		var children []Block
		if err := json.Unmarshal(v, &children); err == nil {
			delete(raw, keyChildren)
			if len(children) > 0 {
				decoded.Children = children
			}
		}
	}

	if len(raw) > 0 {
		decoded.Params = raw
	}

	*c = decoded
	return nil
}

func (c Content) nestedType(key string) string {
	v, ok := c.Params[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

func (c Content) nestedObjectType(key string) string {
	v, ok := c.Params[key]
	if !ok {
		return ""
	}
	var obj struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(v, &obj); err != nil {
		return ""
	}
	return obj.Type
}

// ParseIDList decodes a list of block ids stored either as a JSON array or as
// a JSON string holding an encoded array.
func ParseIDList(data []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		return nonEmpty(ids), nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, fmt.Errorf("failed to parse block id list: %w", err)
	}
	if encoded == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(encoded), &ids); err != nil {
		return nil, fmt.Errorf("failed to parse encoded block id list: %w", err)
	}
	return nonEmpty(ids), nil
}

func nonEmpty(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return ids
}
