package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bb-io/notion-html/internal/transcode"
)

func newImportCmd(envFile *string) *cobra.Command {
	var (
		pageID string
		opts   transcode.ImportOptions
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Append the blocks of an HTML document to a page",
		Long:  "Parse an exported (and possibly translated) HTML document and append its blocks to a page. The page id defaults to the one recorded in the document.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			_, svc, err := setup(*envFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, err := svc.Import(cmd.Context(), pageID, string(data), opts)
			if result != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "page %s: %d blocks appended, %d deleted\n", result.PageID, result.Appended, result.Deleted)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&pageID, "page-id", "", "Target page (default: page id recorded in the document)")
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "Archive the page's existing blocks before importing")

	return cmd
}
