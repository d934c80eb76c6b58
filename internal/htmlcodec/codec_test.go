package htmlcodec

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bb-io/notion-html/internal/models"
)

func textBlock(id, blockType, content string, childIDs ...string) models.Block {
	return models.Block{
		Object:      "block",
		ID:          id,
		Type:        blockType,
		HasChildren: len(childIDs) > 0,
		ChildIDs:    childIDs,
		Content: models.Content{
			TextKey:  "rich_text",
			RichText: []models.RichText{{Type: "text", Text: &models.Text{Content: content}}},
			Params:   map[string]json.RawMessage{"color": json.RawMessage(`"default"`)},
		},
	}
}

func parseBlock(t *testing.T, raw string) models.Block {
	t.Helper()
	var b models.Block
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	return b
}

func parseDocument(t *testing.T, document string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	require.NoError(t, err)
	return doc
}

func serialize(t *testing.T, pageID string, blocks []models.Block) string {
	t.Helper()
	document, err := NewSerializer(DefaultPolicy()).Serialize(pageID, blocks)
	require.NoError(t, err)
	return document
}

func TestSerializeScenario(t *testing.T) {
	blocks := []models.Block{
		textBlock("b1", "paragraph", "Parent text", "b2"),
		textBlock("b2", "paragraph", "Child text"),
	}

	document := serialize(t, "P1", blocks)
	doc := parseDocument(t, document)

	pageID, ok := doc.Find(`head meta`).First().Attr("content")
	require.True(t, ok)
	assert.Equal(t, "P1", pageID)

	top := doc.Find("body").Children()
	require.Equal(t, 1, top.Length())
	id, _ := top.Attr("data-block-id")
	assert.Equal(t, "b1", id)
	childIDs, _ := top.Attr("data-child-block-ids")
	assert.Equal(t, `["b2"]`, childIDs)
	params, _ := top.Attr("data-content-params")
	assert.JSONEq(t, `{"color":"default"}`, params)

	runs := top.ChildrenFiltered("p")
	require.Equal(t, 1, runs.Length())
	assert.Equal(t, "Parent text", runs.Text())
	assert.Equal(t, 0, doc.Find(`body > div[data-block-id="b2"]`).Length())
	assert.Equal(t, 1, top.Find(`div[data-block-id="b2"]`).Length())

	imported, err := Deserialize(document)
	require.NoError(t, err)
	require.Len(t, imported, 1)

	root := imported[0]
	assert.Empty(t, root.ID)
	assert.Empty(t, root.ChildIDs)
	assert.Equal(t, "Parent text", root.Content.RichText[0].Text.Content)
	require.Len(t, root.Content.Children, 1)
	assert.Equal(t, "b2", root.Content.Children[0].ID)
	assert.Equal(t, "Child text", root.Content.Children[0].Content.RichText[0].Text.Content)
}

func TestRoundTripTextBlocks(t *testing.T) {
	heading := textBlock("h1", "heading_1", "Title")
	heading.Content.Params["is_toggleable"] = json.RawMessage(`false`)

	quote := textBlock("q1", "quote", "First ")
	quote.Content.RichText = append(quote.Content.RichText, models.RichText{
		Type: "text",
		Text: &models.Text{Content: "second line\nwith <markup> & entities"},
	})

	blocks := []models.Block{
		heading,
		textBlock("p1", "paragraph", "Hello world"),
		quote,
		textBlock("p2", "bulleted_list_item", "  spaced  "),
	}

	imported, err := Deserialize(serialize(t, "page", blocks))
	require.NoError(t, err)

	expected := make([]models.Block, len(blocks))
	for i, b := range blocks {
		b.ID = ""
		expected[i] = b
	}
	assert.Equal(t, expected, imported)
}

func TestRoundTripUntranslatable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "Minimal divider",
			raw:  `{"created_time":"2022-11-14T11:52:00.000Z","divider":{},"object":"block","type":"divider"}`,
		},
		{
			name: "Explicit false flags in API order",
			raw:  `{"object":"block","type":"divider","has_children":false,"archived":false,"divider":{}}`,
		},
		{
			name: "Full API payload",
			raw: `{"object":"block","id":"9bc30ad4-9373-46a5-84ab-0a7845ee52e6","parent":{"type":"page_id","page_id":"59833787-2cf9-4fdf-8782-e53db20768a5"},` +
				`"created_time":"2022-03-01T19:05:00.000Z","last_edited_time":"2022-07-06T19:41:00.000Z","has_children":false,"archived":false,` +
				`"type":"equation","equation":{"expression":"e=mc^2"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := parseBlock(t, tt.raw)

			document := serialize(t, "page", []models.Block{block})
			doc := parseDocument(t, document)
			payload, ok := doc.Find(`div[data-type="untranslatable"]`).Attr("data-untranslatable")
			require.True(t, ok)
			assert.Equal(t, tt.raw, payload)

			imported, err := Deserialize(document)
			require.NoError(t, err)
			require.Len(t, imported, 1)

			assert.Equal(t, tt.raw, string(imported[0].Raw))
			assert.Equal(t, block.Type, imported[0].Type)
			assert.Equal(t, block.Extra, imported[0].Extra)
			assert.Equal(t, block.Content, imported[0].Content)

			if block.ID == "" {
				out, err := json.Marshal(imported[0])
				require.NoError(t, err)
				assert.JSONEq(t, tt.raw, string(out))
			}
		})
	}
}

func TestUntranslatableEditedBlockIsReencoded(t *testing.T) {
	callout := parseBlock(t, `{"object":"block","id":"co","type":"callout","callout":{"icon":{"type":"file","file":{"url":"https://s3/icon.png"}},"color":"gray_background"}}`)

	doc := parseDocument(t, serialize(t, "page", []models.Block{callout}))
	payload, ok := doc.Find(`div[data-type="untranslatable"]`).Attr("data-untranslatable")
	require.True(t, ok)
	assert.NotContains(t, payload, "icon")
	assert.Contains(t, payload, "gray_background")
}

func TestRoundTripUntranslatableWithChildren(t *testing.T) {
	table := parseBlock(t, `{"object":"block","id":"t1","type":"table","table":{"table_width":2,"has_column_header":false}}`)
	table.ChildIDs = []string{"c1"}
	child := textBlock("c1", "paragraph", "inside")

	imported, err := Deserialize(serialize(t, "page", []models.Block{table, child}))
	require.NoError(t, err)
	require.Len(t, imported, 1)

	assert.Equal(t, "table", imported[0].Type)
	assert.Empty(t, imported[0].ID)
	assert.Equal(t, []models.Block{child}, imported[0].Content.Children)
	assert.JSONEq(t, `2`, string(imported[0].Content.Params["table_width"]))
}

func TestNestingReconstruction(t *testing.T) {
	parent := textBlock("p", "toggle", "Parent", "c1", "c2")
	c1 := textBlock("c1", "paragraph", "One")
	c2 := textBlock("c2", "paragraph", "Two", "g1")
	g1 := textBlock("g1", "paragraph", "Grandchild")

	imported, err := Deserialize(serialize(t, "page", []models.Block{parent, c1, g1, c2}))
	require.NoError(t, err)
	require.Len(t, imported, 1)

	children := imported[0].Content.Children
	require.Len(t, children, 2)
	assert.Equal(t, c1, children[0])
	assert.Equal(t, "c2", children[1].ID)
	assert.Empty(t, children[1].ChildIDs)
	assert.Equal(t, []models.Block{g1}, children[1].Content.Children)
}

func TestSerializeSkipsUntranslatableTypes(t *testing.T) {
	callout := parseBlock(t, `{"object":"block","id":"co","type":"callout","callout":{"rich_text":[{"type":"text","text":{"content":"Note"}}],"icon":{"type":"file","file":{"url":"https://s3/icon.png"}},"color":"gray_background"}}`)

	blocks := []models.Block{
		parseBlock(t, `{"object":"block","id":"cp","type":"child_page","has_children":true,"child_page":{"title":"Sub"},"child_block_ids":["sub1"]}`),
		textBlock("sub1", "paragraph", "Sub page content"),
		parseBlock(t, `{"object":"block","id":"f","type":"file","file":{"type":"file","caption":[]}}`),
		parseBlock(t, `{"object":"block","id":"a","type":"audio","audio":{"type":"external"}}`),
		parseBlock(t, `{"object":"block","id":"lp","type":"link_preview","link_preview":{"url":"https://x"}}`),
		parseBlock(t, `{"object":"block","id":"u","type":"unsupported","unsupported":{}}`),
		parseBlock(t, `{"object":"block","id":"img1","type":"image","image":{"type":"file","file":{"url":"https://s3/a.png"}}}`),
		parseBlock(t, `{"object":"block","id":"img2","type":"image","image":{"type":"external","external":{"url":"https://x/b.png"}}}`),
		callout,
	}

	document := serialize(t, "page", blocks)
	doc := parseDocument(t, document)

	top := doc.Find("body").Children()
	require.Equal(t, 3, top.Length())

	// children of a skipped child page become top-level blocks
	id, _ := top.Eq(0).Attr("data-block-id")
	assert.Equal(t, "sub1", id)

	blockType, _ := top.Eq(1).Attr("data-type")
	assert.Equal(t, "untranslatable", blockType)
	raw, _ := top.Eq(1).Attr("data-untranslatable")
	assert.Contains(t, raw, `"img2"`)

	params, _ := top.Eq(2).Attr("data-content-params")
	assert.JSONEq(t, `{"color":"gray_background"}`, params)

	assert.Contains(t, callout.Content.Params, "icon", "input block must not be modified")
}

func TestSerializeCustomPolicy(t *testing.T) {
	blocks := []models.Block{
		textBlock("p1", "paragraph", "kept"),
		textBlock("q1", "quote", "dropped"),
		parseBlock(t, `{"object":"block","id":"img","type":"image","image":{"type":"file","file":{"url":"u"}}}`),
	}

	policy := NewPolicy([]string{"quote"}, false, false)
	document, err := NewSerializer(policy).Serialize("page", blocks)
	require.NoError(t, err)

	doc := parseDocument(t, document)
	assert.Equal(t, 2, doc.Find("body").Children().Length())
	assert.Equal(t, 0, doc.Find(`div[data-block-id="q1"]`).Length())
}

func TestSerializeLegacyTextKey(t *testing.T) {
	todo := parseBlock(t, `{"object":"block","id":"td","type":"to_do","to_do":{"text":[{"type":"text","text":{"content":"task"}}],"checked":true}}`)

	imported, err := Deserialize(serialize(t, "page", []models.Block{todo}))
	require.NoError(t, err)
	require.Len(t, imported, 1)

	assert.Equal(t, "text", imported[0].Content.TextKey)
	assert.JSONEq(t, `true`, string(imported[0].Content.Params["checked"]))
	assert.Equal(t, "task", imported[0].Content.RichText[0].Text.Content)
}

func TestLinkSanitization(t *testing.T) {
	block := parseBlock(t, `{"object":"block","id":"p","type":"paragraph","paragraph":{"rich_text":[{"type":"text","text":{"content":"was a link","link":{"url":"#"}},"plain_text":"was a link","href":"#"}]}}`)
	block.SanitizeLinks()

	document := serialize(t, "page", []models.Block{block})
	assert.NotContains(t, document, "href")

	imported, err := Deserialize(document)
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Nil(t, imported[0].Content.RichText[0].Text.Link)
}

func TestSerializeKeepsInputOrder(t *testing.T) {
	blocks := []models.Block{
		textBlock("c", "paragraph", "3"),
		textBlock("a", "paragraph", "1"),
		textBlock("b", "paragraph", "2"),
	}

	doc := parseDocument(t, serialize(t, "page", blocks))

	var ids []string
	doc.Find("body > div").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-block-id")
		ids = append(ids, id)
	})
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
