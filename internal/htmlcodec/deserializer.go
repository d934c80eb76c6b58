package htmlcodec

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/bb-io/notion-html/internal/models"
)

// ErrMalformedHTML is returned when a document cannot be mapped back to blocks
var ErrMalformedHTML = errors.New("malformed html")

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedHTML, format, args...)
}

// Deserialize parses a document produced by Serialize (possibly with edited
// text) into blocks ready for the append children API.
//
// Nesting is rebuilt from the child id lists: every listed child that is found
// in the document is attached to the first parent that lists it, and only
// blocks nobody lists are returned. Ids that cannot be found are skipped.
// Returned top-level blocks carry no id.
func Deserialize(document string) ([]models.Block, error) {
	if !hasBody(document) {
		return nil, malformed("document has no body")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse html")
	}

	var decoded []*models.Block
	var walkErr error
	doc.Find("body").First().Children().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if _, ok := s.Attr(attrType); !ok {
			walkErr = malformed("unexpected top-level <%s> element", goquery.NodeName(s))
			return false
		}
		walkErr = decodeTree(s, &decoded)
		return walkErr == nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return assemble(decoded), nil
}

// ExtractPageID returns the page id recorded in the document head
func ExtractPageID(document string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", false
	}

	for _, name := range []string{MetaPageID, legacyMetaPageID} {
		content, ok := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
		if ok && content != "" {
			return content, true
		}
	}
	return "", false
}

// decodeTree decodes a block div and, in document order, the block divs nested in it
func decodeTree(s *goquery.Selection, out *[]*models.Block) error {
	b, err := decodeBlock(s)
	if err != nil {
		return err
	}
	*out = append(*out, b)

	var nestedErr error
	s.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		if _, ok := child.Attr(attrType); !ok {
			return true
		}
		nestedErr = decodeTree(child, out)
		return nestedErr == nil
	})
	return nestedErr
}

func decodeBlock(s *goquery.Selection) (*models.Block, error) {
	blockType, _ := s.Attr(attrType)
	if blockType == "" {
		return nil, malformed("block element without %s", attrType)
	}

	if blockType == typeUntranslatable {
		raw, ok := s.Attr(attrUntranslatable)
		if !ok {
			return nil, malformed("untranslatable block without %s", attrUntranslatable)
		}
		var b models.Block
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, malformed("invalid untranslatable block: %v", err)
		}
		if err := decodeChildIDs(s, &b); err != nil {
			return nil, err
		}
		return &b, nil
	}

	b := &models.Block{
		Object: "block",
		Type:   blockType,
		Content: models.Content{
			TextKey: defaultRichTextKey,
		},
	}
	b.ID, _ = s.Attr(attrBlockID)

	if key, ok := s.Attr(attrRichTextKey); ok && key != "" {
		b.Content.TextKey = key
	}

	if raw, ok := s.Attr(attrContentParams); ok && raw != "" {
		var params map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return nil, malformed("invalid %s on block %q: %v", attrContentParams, b.ID, err)
		}
		if len(params) > 0 {
			b.Content.Params = params
		}
	}

	if err := decodeChildIDs(s, b); err != nil {
		return nil, err
	}

	s.Children().Each(func(_ int, child *goquery.Selection) {
		if _, nested := child.Attr(attrType); nested {
			return
		}
		b.Content.RichText = append(b.Content.RichText, DecodeRun(child))
	})

	return b, nil
}

// decodeChildIDs reads the child id list attribute, overriding any list
// carried in an untranslatable payload
func decodeChildIDs(s *goquery.Selection, b *models.Block) error {
	raw, ok := s.Attr(attrChildBlockIDs)
	if !ok || raw == "" {
		return nil
	}
	ids, err := models.ParseIDList([]byte(raw))
	if err != nil {
		return malformed("invalid %s on block %q: %v", attrChildBlockIDs, b.ID, err)
	}
	b.ChildIDs = ids
	return nil
}

// assemble attaches children to their parents and returns the roots
func assemble(decoded []*models.Block) []models.Block {
	index := make(map[string]*models.Block, len(decoded))
	referenced := make(map[string]bool)
	for _, b := range decoded {
		if b.ID != "" {
			if _, dup := index[b.ID]; !dup {
				index[b.ID] = b
			}
		}
		for _, id := range b.ChildIDs {
			if id != b.ID {
				referenced[id] = true
			}
		}
	}

	r := &resolver{
		index:      index,
		processed:  make(map[string]bool),
		assigned:   make(map[string]bool),
		inProgress: make(map[string]bool),
	}
	for _, b := range decoded {
		r.resolve(b)
	}

	roots := make([]models.Block, 0, len(decoded))
	for _, b := range decoded {
		if b.ID != "" && referenced[b.ID] {
			continue
		}
		root := *b
		root.ID = ""
		root.ChildIDs = nil
		roots = append(roots, root)
	}
	return roots
}

// resolver expands child id lists into nested children. A block is expanded
// at most once and attached to at most one parent.
type resolver struct {
	index      map[string]*models.Block
	processed  map[string]bool
	assigned   map[string]bool
	inProgress map[string]bool
}

func (r *resolver) resolve(b *models.Block) {
	if b.ID != "" {
		if r.processed[b.ID] {
			return
		}
		r.processed[b.ID] = true
		r.inProgress[b.ID] = true
		defer delete(r.inProgress, b.ID)
	}

	for _, id := range b.ChildIDs {
		child, ok := r.index[id]
		if !ok || id == b.ID || r.assigned[id] || r.inProgress[id] {
			continue
		}
		r.assigned[id] = true
		r.resolve(child)
		b.Content.Children = append(b.Content.Children, *child)
	}
	b.ChildIDs = nil
}

func hasBody(document string) bool {
	z := html.NewTokenizer(strings.NewReader(document))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "body" {
				return true
			}
		}
	}
}
