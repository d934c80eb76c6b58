package htmlcodec

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bb-io/notion-html/internal/logger"
	"github.com/bb-io/notion-html/internal/models"
)

// Page id marker names. The first is written, both are recognized.
const (
	MetaPageID       = "blackbird-page-id"
	legacyMetaPageID = "page-id"
)

// Block div attributes
const (
	attrType           = "data-type"
	attrBlockID        = "data-block-id"
	attrContentParams  = "data-content-params"
	attrChildBlockIDs  = "data-child-block-ids"
	attrRichTextKey    = "data-rich-text-key"
	attrUntranslatable = "data-untranslatable"

	typeUntranslatable = "untranslatable"
	defaultRichTextKey = "rich_text"
)

// Serializer turns a flattened block tree into an HTML document
type Serializer struct {
	policy Policy
}

// NewSerializer creates a Serializer applying the given policy
func NewSerializer(policy Policy) *Serializer {
	return &Serializer{policy: policy}
}

// Serialize writes the blocks of a page as HTML.
//
// Blocks are expected in the order produced by the fetcher, each parent
// listing its direct children in ChildIDs. Every block that no other written
// block lists as a child becomes a top-level div; children are nested inside
// their parent's div.
func (s *Serializer) Serialize(pageID string, blocks []models.Block) (string, error) {
	kept := make([]models.Block, 0, len(blocks))
	for _, b := range blocks {
		if s.policy.Skips(b) {
			logger.Debug("Skipping untranslatable block", map[string]interface{}{
				"block_id": b.ID,
				"type":     b.Type,
			})
			continue
		}
		s.policy.prepare(&b)
		kept = append(kept, b)
	}

	index := make(map[string]*models.Block, len(kept))
	referenced := make(map[string]bool)
	for i := range kept {
		b := &kept[i]
		if b.ID != "" {
			index[b.ID] = b
		}
		for _, id := range b.ChildIDs {
			if id != b.ID {
				referenced[id] = true
			}
		}
	}

	doc, body := newDocument(pageID)
	w := &treeWriter{index: index, written: make(map[string]bool)}
	for i := range kept {
		b := &kept[i]
		if b.ID != "" && referenced[b.ID] {
			continue
		}
		div, err := w.write(b)
		if err != nil {
			return "", err
		}
		body.AppendChild(div)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", errors.Wrap(err, "failed to render html")
	}
	return buf.String(), nil
}

// treeWriter renders blocks depth-first, writing each block at most once
type treeWriter struct {
	index   map[string]*models.Block
	written map[string]bool
}

func (w *treeWriter) write(b *models.Block) (*html.Node, error) {
	if b.ID != "" {
		w.written[b.ID] = true
	}

	div, err := blockNode(b)
	if err != nil {
		return nil, err
	}

	for _, id := range b.ChildIDs {
		child, ok := w.index[id]
		if !ok || w.written[id] {
			continue
		}
		node, err := w.write(child)
		if err != nil {
			return nil, err
		}
		div.AppendChild(node)
	}

	return div, nil
}

func blockNode(b *models.Block) (*html.Node, error) {
	div := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}

	if b.Kind() == models.KindOpaque {
		raw := b.Raw
		if raw == nil {
			var err error
			if raw, err = json.Marshal(b); err != nil {
				return nil, errors.Wrapf(err, "failed to encode block %s", b.ID)
			}
		}
		setAttr(div, attrType, typeUntranslatable)
		setAttr(div, attrUntranslatable, string(raw))
		if err := setChildIDs(div, b); err != nil {
			return nil, err
		}
		return div, nil
	}

	params := b.Content.Params
	if params == nil {
		params = map[string]json.RawMessage{}
	}
	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode content params of block %s", b.ID)
	}

	setAttr(div, attrType, b.Type)
	setAttr(div, attrContentParams, string(rawParams))
	if b.ID != "" {
		setAttr(div, attrBlockID, b.ID)
	}
	if err := setChildIDs(div, b); err != nil {
		return nil, err
	}
	if b.Content.TextKey != defaultRichTextKey {
		setAttr(div, attrRichTextKey, b.Content.TextKey)
	}

	for _, run := range b.Content.RichText {
		div.AppendChild(EncodeRun(run))
	}

	return div, nil
}

func setChildIDs(div *html.Node, b *models.Block) error {
	if len(b.ChildIDs) == 0 {
		return nil
	}
	rawIDs, err := json.Marshal(b.ChildIDs)
	if err != nil {
		return errors.Wrapf(err, "failed to encode child ids of block %s", b.ID)
	}
	setAttr(div, attrChildBlockIDs, string(rawIDs))
	return nil
}

func newDocument(pageID string) (doc, body *html.Node) {
	doc = &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Html, Data: "html"}
	head := &html.Node{Type: html.ElementNode, DataAtom: atom.Head, Data: "head"}
	body = &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}

	marker := &html.Node{Type: html.ElementNode, DataAtom: atom.Meta, Data: "meta"}
	setAttr(marker, "name", MetaPageID)
	setAttr(marker, "content", pageID)
	head.AppendChild(marker)

	charset := &html.Node{Type: html.ElementNode, DataAtom: atom.Meta, Data: "meta"}
	setAttr(charset, "charset", "utf-8")
	head.AppendChild(charset)

	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)

	return doc, body
}
