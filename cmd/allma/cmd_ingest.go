package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"allma-client/internal/app"
	"allma-client/internal/service"
)

// ingestCmd uploads documents to the backend knowledge base
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Upload documents to the knowledge base",
	Long: `Upload one or more documents to the assistant backend for retrieval.

Each file is sent on its own; a failed file is reported and the rest continue.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs := make([]service.Document, 0, len(args))
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}
			docs = append(docs, service.Document{Name: filepath.Base(path), Size: info.Size(), Content: f})
		}

		return withApp(func(ctx context.Context, a *app.App) error {
			failed := 0
			for _, r := range a.Documents.Ingest(ctx, docs) {
				if r.Success {
					fmt.Fprintf(cmd.OutOrStdout(), "ok    %s (%d chunks)\n", r.Name, r.ChunksCreated)
					continue
				}
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "error %s: %s\n", r.Name, r.Error)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(docs))
			}
			return nil
		})
	},
}
