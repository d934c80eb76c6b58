package htmlcodec

import (
	"encoding/json"

	"github.com/bb-io/notion-html/internal/models"
)

// Policy decides which blocks are left out of the exported document
type Policy struct {
	skipTypes          map[string]bool
	skipUploadedImages bool
	stripFileIcons     bool
}

// NewPolicy builds a policy from a list of skipped block types and the
// image and callout icon rules.
func NewPolicy(skipTypes []string, skipUploadedImages, stripFileIcons bool) Policy {
	p := Policy{
		skipTypes:          make(map[string]bool, len(skipTypes)),
		skipUploadedImages: skipUploadedImages,
		stripFileIcons:     stripFileIcons,
	}
	for _, t := range skipTypes {
		p.skipTypes[t] = true
	}
	return p
}

// DefaultSkipTypes returns the block types left out of exports by default
func DefaultSkipTypes() []string {
	return []string{
		models.BlockTypeChildPage,
		models.BlockTypeChildDatabase,
		models.BlockTypeUnsupported,
		models.BlockTypeFile,
		models.BlockTypeAudio,
		models.BlockTypeLinkPreview,
	}
}

// DefaultPolicy skips child pages and databases, unsupported and file-backed
// blocks, and uploaded images.
func DefaultPolicy() Policy {
	return NewPolicy(DefaultSkipTypes(), true, true)
}

// Skips reports whether the block is never written to HTML
func (p Policy) Skips(b models.Block) bool {
	if p.skipTypes[b.Type] {
		return true
	}
	// uploaded files live behind expiring URLs
	if p.skipUploadedImages && b.Type == models.BlockTypeImage && b.ImageSourceType() != "external" {
		return true
	}
	return false
}

// prepare applies in-place adjustments to a block that is going to be written
func (p Policy) prepare(b *models.Block) {
	if p.stripFileIcons && b.Type == models.BlockTypeCallout && b.CalloutIconType() == "file" {
		// the params map is shared with the caller's block
		params := make(map[string]json.RawMessage, len(b.Content.Params))
		for k, v := range b.Content.Params {
			params[k] = v
		}
		b.Content.Params = params
		b.StripIcon()
	}
}
