package appender

import (
	"context"
	"fmt"

	"github.com/bb-io/notion-html/internal/logger"
	"github.com/bb-io/notion-html/internal/models"
)

// MaxChunkSize is the largest number of blocks Notion accepts per append request
const MaxChunkSize = 100

//go:generate mockgen -source=appender.go -destination=mock_appender/mock_appender.go -package=mock_appender

// ChildrenAppender appends blocks as children of a block in one request
type ChildrenAppender interface {
	AppendChildren(ctx context.Context, blockID string, blocks []models.Block) error
}

// ChunkError reports the chunk that failed. Chunks before Index were applied.
type ChunkError struct {
	Index   int
	BlockID string
	Err     error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("failed to append chunk %d to block %s: %v", e.Index, e.BlockID, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// Appender splits large appends into requests Notion accepts
type Appender struct {
	target    ChildrenAppender
	chunkSize int
}

// New creates an appender sending chunks of MaxChunkSize blocks to target
func New(target ChildrenAppender) *Appender {
	return &Appender{target: target, chunkSize: MaxChunkSize}
}

// Append sends blocks to blockID in order, one chunk at a time, and returns the
// number of blocks appended. The first failed chunk stops the append; chunks
// already sent are not rolled back. Cancelling ctx prevents further chunks but
// does not interrupt the request in flight.
func (a *Appender) Append(ctx context.Context, blockID string, blocks []models.Block) (int, error) {
	appended := 0
	for index, start := 0, 0; start < len(blocks); index, start = index+1, start+a.chunkSize {
		if err := ctx.Err(); err != nil {
			return appended, err
		}

		end := start + a.chunkSize
		if end > len(blocks) {
			end = len(blocks)
		}
		chunk := blocks[start:end]

		if err := a.target.AppendChildren(context.WithoutCancel(ctx), blockID, chunk); err != nil {
			return appended, &ChunkError{Index: index, BlockID: blockID, Err: err}
		}
		appended += len(chunk)

		logger.Debug("Appended chunk", map[string]interface{}{
			"block_id": blockID,
			"chunk":    index,
			"blocks":   len(chunk),
		})
	}
	return appended, nil
}
