package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bb-io/notion-html/internal/config"
	"github.com/bb-io/notion-html/internal/logger"
	"github.com/bb-io/notion-html/internal/notion"
	"github.com/bb-io/notion-html/internal/transcode"
)

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:          "notion-html",
		Short:        "Round-trip Notion pages through HTML",
		Long:         `Export Notion pages as HTML documents for translation and import the translated documents back as blocks.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")

	cmd.AddCommand(newExportCmd(&envFile))
	cmd.AddCommand(newImportCmd(&envFile))
	cmd.AddCommand(newPageIDCmd())

	return cmd
}

// setup loads the configuration and builds the transcoding service. Logs go to
// logOut so that --output - leaves stdout to the document.
func setup(envFile string, logOut io.Writer) (*config.Config, *transcode.Service, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetOutput(logOut)

	blockPolicy, err := config.LoadBlockPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, nil, err
	}

	client, err := notion.New(cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Notion client: %w", err)
	}

	return cfg, transcode.New(client, blockPolicy.Policy()), nil
}
