package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/pipeline"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/worker"
)

var (
	outJSON        string
	outMD          string
	verifyTimeout  time.Duration
	noFooter       bool
	spotterBackend string
	llmProvider    string
	llmModel       string
	strict         bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <payload.json>",
	Short: "Verify one extraction payload against its source passage",
	Long: `Verify checks a single extraction payload:
- Ground every claimed span verbatim at its claimed offsets
- Flag hallucinations, shifted positions, and schema violations
- Check law-article citations and monetary amounts
- Score field and entity confidence
- Run a completeness pass for people the extractor missed

Example:
  peoplex verify extraction.json
  peoplex verify extraction.json --json report.json --md report.md
  peoplex verify extraction.json --spotter llm --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown report path")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 2*time.Minute, "overall verification timeout")
	verifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	verifyCmd.Flags().StringVar(&spotterBackend, "spotter", "", "completeness backend (heuristic, llm, none)")
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider for the spotter (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name for the spotter")
	verifyCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when critical issues or errors are found")
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySpotterFlags(cfg)
	cfg.Output.IncludeFooter = !noFooter

	payload, err := worker.ReadPayloadFromFile(path)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := p.ValidateDocument(ctx, payload)
	if err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}

	renderer := p.Renderer()
	if outJSON != "" {
		if err := renderer.RenderJSON(result.Report, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result.Report, outMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", outMD)
		}
	}
	renderer.RenderSummary(result.Report)

	if strict && (result.Report.Summary.CriticalIssues > 0 || result.Report.Summary.Errors > 0) {
		return fmt.Errorf("%d critical issues and %d errors found",
			result.Report.Summary.CriticalIssues, result.Report.Summary.Errors)
	}
	return nil
}

// applySpotterFlags lets flags override file/env spotter settings.
func applySpotterFlags(cfg *model.Config) {
	if spotterBackend != "" {
		cfg.Spotter.Backend = spotterBackend
	}
	if llmProvider != "" {
		cfg.LLM.Provider = strings.ToLower(llmProvider)
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
}
