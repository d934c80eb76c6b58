package transcode

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bb-io/notion-html/internal/appender"
	"github.com/bb-io/notion-html/internal/blocktree"
	"github.com/bb-io/notion-html/internal/htmlcodec"
	"github.com/bb-io/notion-html/internal/logger"
	"github.com/bb-io/notion-html/internal/models"
)

// ErrNoPageID is returned by Import when neither the caller nor the document
// names the target page
var ErrNoPageID = errors.New("no page id given and none found in the document")

// Notion is the part of the Notion API used by exports and imports
type Notion interface {
	blocktree.Source
	appender.ChildrenAppender
	DeleteBlock(ctx context.Context, blockID string) error
}

// ExportOptions controls which nested content is exported
type ExportOptions struct {
	IncludeChildPages     bool
	IncludeChildDatabases bool
}

// ImportOptions controls how imported blocks are written
type ImportOptions struct {
	// Replace archives the page's existing top-level blocks before appending.
	// Child pages and child databases are left in place.
	Replace bool
}

// ImportResult summarizes an import
type ImportResult struct {
	OperationID string
	PageID      string
	Deleted     int
	Appended    int
}

// Service exports Notion pages to HTML and imports HTML back into pages
type Service struct {
	notion     Notion
	fetcher    *blocktree.Fetcher
	serializer *htmlcodec.Serializer
	appender   *appender.Appender
}

// New creates a service talking to Notion through client
func New(client Notion, policy htmlcodec.Policy) *Service {
	return &Service{
		notion:     client,
		fetcher:    blocktree.NewFetcher(client),
		serializer: htmlcodec.NewSerializer(policy),
		appender:   appender.New(client),
	}
}

// Export fetches the full block tree of pageID and returns it as HTML
func (s *Service) Export(ctx context.Context, pageID string, opts ExportOptions) (string, error) {
	fields := map[string]interface{}{
		"operation_id": uuid.NewString(),
		"page_id":      pageID,
	}
	logger.Info("Exporting page", fields)

	blocks, err := s.fetcher.FetchAll(ctx, pageID, blocktree.Options(opts))
	if err != nil {
		logger.Error("Failed to fetch page blocks", err, fields)
		return "", fmt.Errorf("failed to fetch blocks of page %s: %w", pageID, err)
	}

	document, err := s.serializer.Serialize(pageID, blocks)
	if err != nil {
		logger.Error("Failed to serialize page", err, fields)
		return "", fmt.Errorf("failed to serialize page %s: %w", pageID, err)
	}

	fields["blocks"] = len(blocks)
	logger.Info("Exported page", fields)
	return document, nil
}

// Import appends the blocks of an HTML document to a page. An empty pageID
// falls back to the page id recorded in the document. The document is fully
// parsed before any request is made.
//
// When an append fails part way, the returned result counts the blocks that
// were written before the failure.
func (s *Service) Import(ctx context.Context, pageID, document string, opts ImportOptions) (*ImportResult, error) {
	if pageID == "" {
		id, ok := htmlcodec.ExtractPageID(document)
		if !ok {
			return nil, ErrNoPageID
		}
		pageID = id
	}

	result := &ImportResult{
		OperationID: uuid.NewString(),
		PageID:      pageID,
	}
	fields := map[string]interface{}{
		"operation_id": result.OperationID,
		"page_id":      pageID,
	}

	blocks, err := htmlcodec.Deserialize(document)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	fields["blocks"] = len(blocks)
	logger.Info("Importing page", fields)

	if opts.Replace {
		deleted, err := s.clear(ctx, pageID)
		result.Deleted = deleted
		if err != nil {
			logger.Error("Failed to clear page", err, fields)
			return result, fmt.Errorf("failed to clear page %s: %w", pageID, err)
		}
	}

	appended, err := s.appender.Append(ctx, pageID, blocks)
	result.Appended = appended
	if err != nil {
		fields["appended"] = appended
		logger.Error("Failed to append blocks", err, fields)
		return result, fmt.Errorf("failed to append blocks to page %s: %w", pageID, err)
	}

	logger.Info("Imported page", map[string]interface{}{
		"operation_id": result.OperationID,
		"page_id":      pageID,
		"appended":     result.Appended,
		"deleted":      result.Deleted,
	})
	return result, nil
}

// clear archives the page's top-level blocks, keeping child pages and databases
func (s *Service) clear(ctx context.Context, pageID string) (int, error) {
	var ids []string
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		blocks, next, err := s.notion.GetChildren(ctx, pageID, cursor)
		if err != nil {
			return 0, fmt.Errorf("failed to list blocks of page %s: %w", pageID, err)
		}
		for _, b := range blocks {
			if b.Type == models.BlockTypeChildPage || b.Type == models.BlockTypeChildDatabase {
				continue
			}
			ids = append(ids, b.ID)
		}
		if next == "" {
			break
		}
		cursor = next
	}

	deleted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if err := s.notion.DeleteBlock(ctx, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
