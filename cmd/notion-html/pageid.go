package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bb-io/notion-html/internal/htmlcodec"
)

var errNoPageMarker = errors.New("document has no page id marker")

func newPageIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "page-id <file>",
		Short: "Print the page id recorded in an HTML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			id, ok := htmlcodec.ExtractPageID(string(data))
			if !ok {
				return errNoPageMarker
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
}
