package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/link"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/pipeline"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/worker"
)

var (
	linkOut     string
	linkTimeout time.Duration
)

// linkCmd represents the link command
var linkCmd = &cobra.Command{
	Use:   "link <dir>",
	Short: "Verify a directory of payloads and resolve people across documents",
	Long: `Link runs the full pipeline over a directory of extraction payloads,
then resolves verified mentions into canonical people:
- Mentions within a document are clustered by normalized name
- Clusters are compared pairwise inside blocking buckets
- Scores at or above the auto-merge threshold merge
- Scores in the review band are queued, never merged silently
- Conflicting national ids keep clusters apart regardless of names

The result is written as JSON: canonical people with stable upsert keys,
plus the pending-merge review queue.

Example:
  peoplex link ./extractions --out canonical.json`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)

	linkCmd.Flags().StringVar(&linkOut, "out", "canonical.json", "output JSON path for linking results")
	linkCmd.Flags().DurationVar(&linkTimeout, "timeout", 10*time.Minute, "total timeout for verification and linking")
	linkCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: from config)")
	linkCmd.Flags().StringVar(&spotterBackend, "spotter", "", "completeness backend (heuristic, llm, none)")
}

func runLink(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), linkTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySpotterFlags(cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	results, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return err
	}
	sortResults(results)

	// Verification ran in parallel; the reduction below is single-threaded
	// and deterministic.
	linker := link.NewLinker(cfg.Linking, p.Aggregator())
	failed := 0
	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s (passage %d): %v\n", result.DocID, result.PassageID, result.Error)
			continue
		}
		doc := result.Document
		clusters := linker.ClusterDocument(doc.Report.DocID, doc.Report.PassageID, doc.People)
		linker.Add(clusters...)
	}

	linked, err := linker.Commit(ctx)
	if err != nil {
		return fmt.Errorf("commit linking batch: %w", err)
	}

	renderer := p.Renderer()
	if err := renderer.RenderJSON(linked, linkOut); err != nil {
		return err
	}
	renderer.RenderLinkSummary(linked)
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d documents failed verification and were excluded from linking\n", failed)
	}
	fmt.Printf("Linking result written to %s\n", linkOut)
	return nil
}
