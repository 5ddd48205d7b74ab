package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var rebuildIndex bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the page index and report what it holds",
	Long: `Load the configured pages and make sure the vector index is current.

The stored index is reused when the pages and the embedding model are
unchanged. Use --rebuild to embed every chunk again.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&rebuildIndex, "rebuild", false, "rebuild the index even if it is current")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, _, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer closePipeline(p)

	if err := prepareIndex(ctx, cmd, p, rebuildIndex); err != nil {
		return err
	}

	sources, err := p.Index.Sources(ctx)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		cmd.Println("No pages indexed.")
		return nil
	}

	cmd.Println()
	cmd.Println("Indexed pages:")
	cmd.Println()
	total := 0
	for _, s := range sources {
		cmd.Printf("  %s\n", s.URL)
		if s.Title != "" {
			cmd.Printf("    Title:  %s\n", s.Title)
		}
		cmd.Printf("    Chunks: %d\n", s.ChunkCount)
		total += s.ChunkCount
	}
	cmd.Println()
	cmd.Printf("Total: %d pages, %d chunks\n", len(sources), total)
	return nil
}
