package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/pipeline"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	summaryJSON  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Verify a directory of extraction payloads in parallel",
	Long: `Batch verifies every *.json payload under a directory:
- Documents are validated concurrently with a fixed worker pool
- A failed document is reported and skipped; the batch continues
- Individual reports are written per document
- Aggregate counters are printed at the end

Example:
  peoplex batch ./extractions
  peoplex batch ./extractions --concurrency 8 --output-dir ./reports
  peoplex batch ./extractions --summary-json batch.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./peoplex-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&summaryJSON, "summary-json", "", "write the aggregate batch summary as JSON")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&spotterBackend, "spotter", "", "completeness backend (heuristic, llm, none)")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider for the spotter (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name for the spotter")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySpotterFlags(cfg)
	cfg.Output.IncludeFooter = !noFooter
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Verifying payloads in %s with %d workers\n", dir, cfg.Concurrency.Workers)

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	results, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return err
	}
	sortResults(results)

	renderer := p.Renderer()
	summary := &model.BatchSummary{GeneratedAt: time.Now().UTC()}
	failed := 0

	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s (passage %d): %v\n", result.DocID, result.PassageID, result.Error)
			continue
		}

		report := result.Document.Report
		summary.Add(report)

		slug := reportSlug(report.DocID, report.PassageID)
		if err := renderer.RenderJSON(report, filepath.Join(outputDir, slug+".json")); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write JSON: %v\n", result.DocID, err)
			continue
		}
		if err := renderer.RenderMarkdown(report, filepath.Join(outputDir, slug+".md")); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write Markdown: %v\n", result.DocID, err)
			continue
		}
		if verbose {
			renderer.RenderSummary(report)
		}
	}

	renderer.RenderBatchSummary(summary, failed)
	fmt.Printf("Reports written to %s\n", outputDir)

	if summaryJSON != "" {
		if err := renderer.RenderJSON(summary, summaryJSON); err != nil {
			return err
		}
	}
	return nil
}

// sortResults orders pool output by document for stable report listings.
func sortResults(results []*worker.ValidateResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].DocID != results[j].DocID {
			return results[i].DocID < results[j].DocID
		}
		return results[i].PassageID < results[j].PassageID
	})
}

// reportSlug builds a filesystem-safe report name from doc and passage ids.
func reportSlug(docID string, passageID int) string {
	slug := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		case ' ':
			return '-'
		}
		return r
	}, docID)
	if len(slug) > 100 {
		slug = slug[:100]
	}
	return fmt.Sprintf("%s_p%d", slug, passageID)
}
