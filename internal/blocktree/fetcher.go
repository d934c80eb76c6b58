package blocktree

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bb-io/notion-html/internal/logger"
	"github.com/bb-io/notion-html/internal/models"
)

// extraDatabase is the Extra key holding a child database's own JSON
const extraDatabase = "database"

// Options controls which nested content is expanded
type Options struct {
	IncludeChildPages     bool
	IncludeChildDatabases bool
}

// Fetcher walks a block's subtree through a Source
type Fetcher struct {
	source Source
}

// NewFetcher creates a fetcher reading from source
func NewFetcher(source Source) *Fetcher {
	return &Fetcher{source: source}
}

// traversal is the state owned by a single FetchAll call
type traversal struct {
	source  Source
	opts    Options
	tree    *tree
	visited map[string]bool
}

// FetchAll returns every block below blockID as a flat list in reading order:
// each block is immediately followed by its descendants, and blocks with
// nested content list their direct children in ChildIDs.
//
// Child databases are replaced in place by a block carrying the database JSON
// whose children are one child_page block per row, each followed by that
// page's own content. Network calls are made one at a time and the first
// failure aborts the walk.
func (f *Fetcher) FetchAll(ctx context.Context, blockID string, opts Options) ([]models.Block, error) {
	tr := &traversal{
		source:  f.source,
		opts:    opts,
		tree:    newTree(),
		visited: map[string]bool{blockID: true},
	}

	if err := tr.fetchChildren(ctx, rootHandle, blockID); err != nil {
		return nil, err
	}

	blocks := tr.tree.flatten()
	logger.Debug("Fetched block tree", map[string]interface{}{
		"block_id": blockID,
		"blocks":   len(blocks),
	})
	return blocks, nil
}

func (tr *traversal) fetchChildren(ctx context.Context, parent int, blockID string) error {
	blocks, err := tr.listChildren(ctx, blockID)
	if err != nil {
		return err
	}

	for _, b := range blocks {
		if !tr.include(b) {
			continue
		}

		b.ParentID = blockID
		b.SanitizeLinks()
		h := tr.tree.add(parent, b)

		switch {
		case b.Type == models.BlockTypeChildDatabase:
			if err := tr.expandDatabase(ctx, h); err != nil {
				return err
			}
		case b.HasChildren:
			if err := tr.descend(ctx, h, b.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// descend fetches the subtree of a block once per traversal
func (tr *traversal) descend(ctx context.Context, h int, blockID string) error {
	if tr.visited[blockID] {
		logger.Warn("Block already expanded, skipping", map[string]interface{}{
			"block_id": blockID,
		})
		return nil
	}
	tr.visited[blockID] = true
	return tr.fetchChildren(ctx, h, blockID)
}

func (tr *traversal) include(b models.Block) bool {
	switch b.Type {
	case models.BlockTypeChildPage:
		return tr.opts.IncludeChildPages
	case models.BlockTypeChildDatabase:
		return tr.opts.IncludeChildDatabases
	}
	return true
}

func (tr *traversal) listChildren(ctx context.Context, blockID string) ([]models.Block, error) {
	var all []models.Block
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		blocks, next, err := tr.source.GetChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to get children of block %s: %w", blockID, err)
		}
		all = append(all, blocks...)

		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// expandDatabase attaches the database JSON to the placeholder block at h and
// adds one child_page block per row under it
func (tr *traversal) expandDatabase(ctx context.Context, h int) error {
	databaseID := tr.tree.nodes[h].ID

	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := tr.source.GetDatabase(ctx, databaseID)
	if err != nil {
		return fmt.Errorf("failed to get database %s: %w", databaseID, err)
	}

	db := &tr.tree.nodes[h]
	extra := make(map[string]json.RawMessage, len(db.Extra)+1)
	for k, v := range db.Extra {
		extra[k] = v
	}
	extra[extraDatabase] = raw
	db.Extra = extra
	db.Raw = nil

	pages, err := tr.listPages(ctx, databaseID)
	if err != nil {
		return err
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pageBlock, err := tr.source.GetBlock(ctx, page.ID)
		if err != nil {
			return fmt.Errorf("failed to get page block %s in database %s: %w", page.ID, databaseID, err)
		}
		if pageBlock.ID == "" {
			pageBlock.ID = page.ID
			pageBlock.Raw = nil
		}
		if pageBlock.Type != models.BlockTypeChildPage {
			pageBlock.Type = models.BlockTypeChildPage
			pageBlock.Raw = nil
		}
		pageBlock.ParentID = databaseID
		pageBlock.SanitizeLinks()

		ph := tr.tree.add(h, pageBlock)
		if err := tr.descend(ctx, ph, pageBlock.ID); err != nil {
			return err
		}
	}

	logger.Debug("Expanded child database", map[string]interface{}{
		"database_id": databaseID,
		"pages":       len(pages),
	})
	return nil
}

func (tr *traversal) listPages(ctx context.Context, databaseID string) ([]models.Page, error) {
	var all []models.Page
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pages, next, err := tr.source.QueryDatabasePages(ctx, databaseID, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to query database %s: %w", databaseID, err)
		}
		all = append(all, pages...)

		if next == "" {
			return all, nil
		}
		cursor = next
	}
}
