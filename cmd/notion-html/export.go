package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bb-io/notion-html/internal/logger"
	"github.com/bb-io/notion-html/internal/transcode"
)

func newExportCmd(envFile *string) *cobra.Command {
	var (
		output string
		opts   transcode.ExportOptions
	)

	cmd := &cobra.Command{
		Use:   "export <page-id>",
		Short: "Export a page as HTML",
		Long:  "Fetch every block of a page and write it as an HTML document. Use --output - to write to stdout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := setup(*envFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			pageID := args[0]
			document, err := svc.Export(cmd.Context(), pageID, opts)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), document)
				return err
			}

			if output == "" {
				if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				output = filepath.Join(cfg.OutputDir, pageID+".html")
			}

			if err := os.WriteFile(output, []byte(document), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			logger.Info("Saved export", map[string]interface{}{
				"page_id":  pageID,
				"filepath": output,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <OUTPUT_DIR>/<page-id>.html, - for stdout)")
	cmd.Flags().BoolVar(&opts.IncludeChildPages, "include-child-pages", false, "Descend into child pages")
	cmd.Flags().BoolVar(&opts.IncludeChildDatabases, "include-child-databases", false, "Expand child databases into their pages")

	return cmd
}
