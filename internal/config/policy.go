package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bb-io/notion-html/internal/htmlcodec"
)

// BlockPolicy lists the block shapes that are kept out of the exported HTML.
// Notion's block type set changes over time, so the list is data rather than code.
type BlockPolicy struct {
	SkipTypes          []string `yaml:"skip_types"`
	SkipUploadedImages bool     `yaml:"skip_uploaded_images"`
	StripFileIcons     bool     `yaml:"strip_file_icons"`
}

// DefaultBlockPolicy returns the policy used when no file is configured
func DefaultBlockPolicy() *BlockPolicy {
	return &BlockPolicy{
		SkipTypes:          htmlcodec.DefaultSkipTypes(),
		SkipUploadedImages: true,
		StripFileIcons:     true,
	}
}

// Policy converts the file settings into the policy the codec applies
func (p *BlockPolicy) Policy() htmlcodec.Policy {
	return htmlcodec.NewPolicy(p.SkipTypes, p.SkipUploadedImages, p.StripFileIcons)
}

// LoadBlockPolicy reads a YAML policy file. Keys absent from the file keep
// their default values; an empty path yields the defaults.
func LoadBlockPolicy(path string) (*BlockPolicy, error) {
	policy := DefaultBlockPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open block policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML block policy: %w", err)
	}

	return policy, nil
}
