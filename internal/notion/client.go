package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/bb-io/notion-html/internal/logger"
	"github.com/bb-io/notion-html/internal/models"
)

// pageSize is the largest page size the Notion API accepts
const pageSize = 100

// Client wraps the Notion API client
type Client struct {
	client NotionClient
}

// New creates a new Notion client authenticated with apiKey
func New(apiKey string) (*Client, error) {
	return NewWithTransport(apiKey, http.DefaultTransport)
}

// NewWithTransport creates a Notion client sending requests through base
func NewWithTransport(apiKey string, base http.RoundTripper) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("notion api key is not set")
	}

	httpClient := &http.Client{Transport: &captureTransport{base: base}}
	notionClient := notionapi.NewClient(notionapi.Token(apiKey), notionapi.WithHTTPClient(httpClient))
	return NewFromClient(newNotionClientAdapter(notionClient)), nil
}

// NewFromClient creates a client on top of an existing NotionClient
func NewFromClient(client NotionClient) *Client {
	return &Client{client: client}
}

// GetChildren returns one page of a block's children and the cursor of the
// next page, which is empty on the last page
func (c *Client) GetChildren(ctx context.Context, blockID, cursor string) ([]models.Block, string, error) {
	logger.Debug("Fetching block children", map[string]interface{}{
		"block_id": blockID,
		"cursor":   cursor,
	})

	ctx, captured := withCapture(ctx)
	resp, err := c.client.Block().GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    pageSize,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get block children: %w", err)
	}

	var blocks []models.Block
	if captured.body != nil {
		var page struct {
			Results []models.Block `json:"results"`
		}
		if err := json.Unmarshal(captured.body, &page); err != nil {
			return nil, "", fmt.Errorf("failed to decode block children: %w", err)
		}
		blocks = page.Results
	} else {
		blocks = make([]models.Block, 0, len(resp.Results))
		for _, result := range resp.Results {
			b, err := toModel(result)
			if err != nil {
				return nil, "", err
			}
			blocks = append(blocks, b)
		}
	}

	for _, b := range blocks {
		if err := validate(b); err != nil {
			return nil, "", err
		}
	}

	next := ""
	if resp.HasMore {
		next = string(resp.NextCursor)
	}
	return blocks, next, nil
}

// GetBlock retrieves a single block. Page ids are accepted and return the
// page's child_page block.
func (c *Client) GetBlock(ctx context.Context, blockID string) (models.Block, error) {
	ctx, captured := withCapture(ctx)
	result, err := c.client.Block().Get(ctx, notionapi.BlockID(blockID))
	if err != nil {
		return models.Block{}, fmt.Errorf("failed to get block: %w", err)
	}

	var b models.Block
	if captured.body != nil {
		if err := json.Unmarshal(captured.body, &b); err != nil {
			return models.Block{}, fmt.Errorf("failed to decode block: %w", err)
		}
	} else if b, err = toModel(result); err != nil {
		return models.Block{}, err
	}

	if err := validate(b); err != nil {
		return models.Block{}, err
	}
	return b, nil
}

// GetDatabase returns the database object as JSON
func (c *Client) GetDatabase(ctx context.Context, databaseID string) (json.RawMessage, error) {
	db, err := c.client.Database().Get(ctx, notionapi.DatabaseID(databaseID))
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}

	raw, err := json.Marshal(db)
	if err != nil {
		return nil, fmt.Errorf("failed to encode database: %w", err)
	}
	return raw, nil
}

// QueryDatabasePages returns one page of database rows and the next cursor
func (c *Client) QueryDatabasePages(ctx context.Context, databaseID, cursor string) ([]models.Page, string, error) {
	logger.Debug("Querying database", map[string]interface{}{
		"database_id": databaseID,
		"cursor":      cursor,
	})

	resp, err := c.client.Database().Query(ctx, notionapi.DatabaseID(databaseID), &notionapi.DatabaseQueryRequest{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    pageSize,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to query database: %w", err)
	}

	pages := make([]models.Page, 0, len(resp.Results))
	for _, p := range resp.Results {
		pages = append(pages, models.Page{
			Object:   string(p.Object),
			ID:       string(p.ID),
			URL:      p.URL,
			Archived: p.Archived,
		})
	}

	next := ""
	if resp.HasMore {
		next = string(resp.NextCursor)
	}
	return pages, next, nil
}

// AppendChildren appends blocks under blockID in a single request
func (c *Client) AppendChildren(ctx context.Context, blockID string, blocks []models.Block) error {
	children, err := toNotionBlocks(blocks)
	if err != nil {
		return err
	}

	_, err = c.client.Block().AppendChildren(ctx, notionapi.BlockID(blockID), &notionapi.AppendBlockChildrenRequest{
		Children: children,
	})
	if err != nil {
		return fmt.Errorf("failed to append children: %w", err)
	}

	logger.Debug("Appended block children", map[string]interface{}{
		"block_id": blockID,
		"blocks":   len(blocks),
	})
	return nil
}

// DeleteBlock archives a block
func (c *Client) DeleteBlock(ctx context.Context, blockID string) error {
	if _, err := c.client.Block().Delete(ctx, notionapi.BlockID(blockID)); err != nil {
		return fmt.Errorf("failed to delete block %s: %w", blockID, err)
	}
	return nil
}

// toModel converts a typed notionapi block through its JSON form. Block types
// notionapi does not model come back without id or type.
func toModel(block notionapi.Block) (models.Block, error) {
	data, err := json.Marshal(block)
	if err != nil {
		return models.Block{}, fmt.Errorf("failed to encode block: %w", err)
	}

	var b models.Block
	if err := json.Unmarshal(data, &b); err != nil {
		return models.Block{}, fmt.Errorf("failed to decode block: %w", err)
	}
	return b, nil
}

func toNotionBlocks(blocks []models.Block) (notionapi.Blocks, error) {
	payload := make([]models.Block, len(blocks))
	if err := requireTypes(blocks); err != nil {
		return nil, err
	}
	for i, b := range blocks {
		payload[i] = b.ForAppend()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blocks: %w", err)
	}

	var children notionapi.Blocks
	if err := json.Unmarshal(data, &children); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}
	for i, child := range children {
		if string(child.GetType()) != payload[i].Type {
			return nil, fmt.Errorf("block type %q cannot be appended by the API client", payload[i].Type)
		}
	}
	return children, nil
}

// validate rejects blocks that lost their identity on the way in
func validate(b models.Block) error {
	if b.ID == "" || b.Type == "" {
		return fmt.Errorf("received block without id or type (id=%q, type=%q)", b.ID, b.Type)
	}
	return nil
}

// requireTypes walks blocks and their nested children, since notionapi cannot
// decode a block without a type
func requireTypes(blocks []models.Block) error {
	for i, b := range blocks {
		if b.Type == "" {
			return fmt.Errorf("block %d (id=%q) has no type", i, b.ID)
		}
		if err := requireTypes(b.Content.Children); err != nil {
			return err
		}
	}
	return nil
}
