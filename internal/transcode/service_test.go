package transcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bb-io/notion-html/internal/appender"
	"github.com/bb-io/notion-html/internal/htmlcodec"
	"github.com/bb-io/notion-html/internal/models"
)

// fakeNotion serves children from memory and records writes
type fakeNotion struct {
	children    map[string][]models.Block
	blocks      map[string]models.Block
	databases   map[string]json.RawMessage
	rows        map[string][]models.Page
	appended    [][]models.Block
	deleted     []string
	childrenErr error
	appendErr   error
	calls       int
}

func newFakeNotion() *fakeNotion {
	return &fakeNotion{
		children:  make(map[string][]models.Block),
		blocks:    make(map[string]models.Block),
		databases: make(map[string]json.RawMessage),
		rows:      make(map[string][]models.Page),
	}
}

func (f *fakeNotion) GetChildren(_ context.Context, blockID, _ string) ([]models.Block, string, error) {
	f.calls++
	if f.childrenErr != nil {
		return nil, "", f.childrenErr
	}
	return f.children[blockID], "", nil
}

func (f *fakeNotion) GetBlock(_ context.Context, blockID string) (models.Block, error) {
	f.calls++
	if b, ok := f.blocks[blockID]; ok {
		return b, nil
	}
	return models.Block{}, fmt.Errorf("unexpected GetBlock(%s)", blockID)
}

func (f *fakeNotion) GetDatabase(_ context.Context, databaseID string) (json.RawMessage, error) {
	f.calls++
	if raw, ok := f.databases[databaseID]; ok {
		return raw, nil
	}
	return nil, fmt.Errorf("unexpected GetDatabase(%s)", databaseID)
}

func (f *fakeNotion) QueryDatabasePages(_ context.Context, databaseID, _ string) ([]models.Page, string, error) {
	f.calls++
	if pages, ok := f.rows[databaseID]; ok {
		return pages, "", nil
	}
	return nil, "", fmt.Errorf("unexpected QueryDatabasePages(%s)", databaseID)
}

func (f *fakeNotion) AppendChildren(_ context.Context, _ string, blocks []models.Block) error {
	f.calls++
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, blocks)
	return nil
}

func (f *fakeNotion) DeleteBlock(_ context.Context, blockID string) error {
	f.calls++
	f.deleted = append(f.deleted, blockID)
	return nil
}

func text(id, content string, hasChildren bool) models.Block {
	return models.Block{
		Object:      "block",
		ID:          id,
		Type:        "paragraph",
		HasChildren: hasChildren,
		Content: models.Content{
			TextKey:  "rich_text",
			RichText: []models.RichText{{Type: "text", Text: &models.Text{Content: content}}},
		},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source := newFakeNotion()
	source.children["page"] = []models.Block{
		text("b1", "Parent text", true),
		{Object: "block", ID: "sub", Type: models.BlockTypeChildPage, HasChildren: true},
		text("b3", "Closing", false),
	}
	source.children["b1"] = []models.Block{text("b2", "Child text", false)}

	svc := New(source, htmlcodec.DefaultPolicy())

	document, err := svc.Export(context.Background(), "page", ExportOptions{})
	require.NoError(t, err)
	assert.Contains(t, document, `<meta name="blackbird-page-id" content="page"/>`)
	assert.NotContains(t, document, `"sub"`)

	target := newFakeNotion()
	result, err := New(target, htmlcodec.DefaultPolicy()).Import(context.Background(), "", document, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, "page", result.PageID)
	assert.Equal(t, 2, result.Appended)
	assert.NotEmpty(t, result.OperationID)

	require.Len(t, target.appended, 1)
	roots := target.appended[0]
	require.Len(t, roots, 2)
	assert.Equal(t, "Parent text", roots[0].Content.RichText[0].Text.Content)
	require.Len(t, roots[0].Content.Children, 1)
	assert.Equal(t, "Child text", roots[0].Content.Children[0].Content.RichText[0].Text.Content)
	assert.Equal(t, "Closing", roots[1].Content.RichText[0].Text.Content)
}

func TestImportPageID(t *testing.T) {
	document := `<!DOCTYPE html><html><head><meta name="blackbird-page-id" content="from-doc"/></head><body><div data-type="paragraph"><p>x</p></div></body></html>`

	tests := []struct {
		name     string
		pageID   string
		document string
		expected string
		err      error
	}{
		{name: "Explicit id wins", pageID: "explicit", document: document, expected: "explicit"},
		{name: "Id from document", document: document, expected: "from-doc"},
		{name: "No id anywhere", document: `<html><body></body></html>`, err: ErrNoPageID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newFakeNotion()
			result, err := New(target, htmlcodec.DefaultPolicy()).Import(context.Background(), tt.pageID, tt.document, ImportOptions{})
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Zero(t, target.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.PageID)
		})
	}
}

func TestImportMalformedMakesNoCalls(t *testing.T) {
	target := newFakeNotion()

	_, err := New(target, htmlcodec.DefaultPolicy()).Import(context.Background(), "page", `<html><head></head><body><p>stray</p></body></html>`, ImportOptions{Replace: true})
	assert.ErrorIs(t, err, htmlcodec.ErrMalformedHTML)
	assert.Zero(t, target.calls)
}

func TestImportReplace(t *testing.T) {
	target := newFakeNotion()
	target.children["page"] = []models.Block{
		text("old1", "old", false),
		{Object: "block", ID: "sub", Type: models.BlockTypeChildPage},
		{Object: "block", ID: "db", Type: models.BlockTypeChildDatabase},
		text("old2", "old", false),
	}

	document := `<html><head></head><body><div data-type="paragraph"><p>new</p></div></body></html>`
	result, err := New(target, htmlcodec.DefaultPolicy()).Import(context.Background(), "page", document, ImportOptions{Replace: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"old1", "old2"}, target.deleted)
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, 1, result.Appended)
}

func TestImportAppendFailure(t *testing.T) {
	errRejected := errors.New("validation_error")
	target := newFakeNotion()
	target.appendErr = errRejected

	document := `<html><head></head><body><div data-type="paragraph"><p>x</p></div></body></html>`
	result, err := New(target, htmlcodec.DefaultPolicy()).Import(context.Background(), "page", document, ImportOptions{})
	assert.ErrorIs(t, err, errRejected)

	var chunkErr *appender.ChunkError
	assert.ErrorAs(t, err, &chunkErr)
	require.NotNil(t, result)
	assert.Zero(t, result.Appended)
}

func TestImportReplaceListFailure(t *testing.T) {
	errUnauthorized := errors.New("unauthorized")
	target := newFakeNotion()
	target.childrenErr = errUnauthorized

	document := `<html><head></head><body><div data-type="paragraph"><p>x</p></div></body></html>`
	result, err := New(target, htmlcodec.DefaultPolicy()).Import(context.Background(), "page-42", document, ImportOptions{Replace: true})
	assert.ErrorIs(t, err, errUnauthorized)
	assert.Contains(t, err.Error(), "failed to list blocks of page page-42")

	require.NotNil(t, result)
	assert.Zero(t, result.Deleted)
	assert.Zero(t, result.Appended)
	assert.Empty(t, target.appended)
}

// With the default policy the database and its row pages are skipped, so the
// rows' content is written as top-level blocks and lands in the parent page on
// import.
func TestDatabaseRowsFlattenIntoParentPage(t *testing.T) {
	source := newFakeNotion()
	source.children["page"] = []models.Block{
		text("intro", "Intro", false),
		{Object: "block", ID: "db1", Type: models.BlockTypeChildDatabase},
	}
	source.databases["db1"] = json.RawMessage(`{"object":"database","id":"db1","title":[]}`)
	source.rows["db1"] = []models.Page{{Object: "page", ID: "row1"}}
	source.blocks["row1"] = models.Block{Object: "block", ID: "row1", Type: models.BlockTypeChildPage, HasChildren: true}
	source.children["row1"] = []models.Block{text("r1", "Row text", false)}

	document, err := New(source, htmlcodec.DefaultPolicy()).Export(context.Background(), "page", ExportOptions{IncludeChildDatabases: true})
	require.NoError(t, err)
	assert.NotContains(t, document, `data-type="child_database"`)
	assert.NotContains(t, document, `data-type="child_page"`)

	target := newFakeNotion()
	result, err := New(target, htmlcodec.DefaultPolicy()).Import(context.Background(), "", document, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "page", result.PageID)

	require.Len(t, target.appended, 1)
	roots := target.appended[0]
	require.Len(t, roots, 2)
	assert.Equal(t, "Intro", roots[0].Content.RichText[0].Text.Content)
	assert.Equal(t, "Row text", roots[1].Content.RichText[0].Text.Content)
}
