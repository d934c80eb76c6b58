package blocktree

import (
	"context"
	"encoding/json"

	"github.com/bb-io/notion-html/internal/models"
)

//go:generate mockgen -source=source.go -destination=mock_blocktree/mock_blocktree.go -package=mock_blocktree

// Source is the read side of the Notion API used while walking a page.
// Cursor arguments are empty for the first page; an empty returned cursor
// means there are no more pages.
type Source interface {
	GetChildren(ctx context.Context, blockID, cursor string) ([]models.Block, string, error)
	GetBlock(ctx context.Context, blockID string) (models.Block, error)
	GetDatabase(ctx context.Context, databaseID string) (json.RawMessage, error)
	QueryDatabasePages(ctx context.Context, databaseID, cursor string) ([]models.Page, string, error)
}
