// Package pipeline orchestrates the verification stages for one document:
// issue detection, confidence aggregation, provenance, and the completeness
// pass.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/cache"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/completeness"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/confidence"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/llm"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/provenance"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/verify"
)

// Pipeline runs the full verification pass over extraction payloads.
type Pipeline struct {
	detector   *verify.Detector
	aggregator *confidence.Aggregator
	checker    *completeness.Checker
	builder    *provenance.Builder
	renderer   *Renderer
	config     *model.Config
}

// NewPipeline wires a pipeline from configuration. The completeness backend
// is chosen here: heuristic by default, model-backed when configured, or
// none.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	spotter, err := buildSpotter(cfg)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build spotter")
	}

	var checker *completeness.Checker
	if spotter != nil {
		checker = completeness.NewChecker(spotter, cfg.Verify.SnippetPad)
	}

	return &Pipeline{
		detector:   verify.NewDetector(cfg.Verify),
		aggregator: confidence.NewAggregator(cfg.Confidence),
		checker:    checker,
		builder:    provenance.NewBuilder(),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		config:     cfg,
	}, nil
}

// Aggregator exposes the confidence aggregator so linking shares the same
// blending rules.
func (p *Pipeline) Aggregator() *confidence.Aggregator {
	return p.aggregator
}

// Renderer exposes the report renderer.
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

func buildSpotter(cfg *model.Config) (completeness.Spotter, error) {
	switch cfg.Spotter.Backend {
	case "", "heuristic":
		return completeness.NewHeuristicSpotter(), nil

	case "none":
		return nil, nil

	case "llm":
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, eris.New("spotter backend is llm but no provider is configured")
		}

		var c cache.Cache
		if cfg.Cache.Enabled {
			if cfg.Cache.Dir != "" {
				c = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
			} else {
				c = cache.NewMemoryCache(cfg.Cache.TTL)
			}
		}
		limiter := llm.NewLimiter(cfg.Spotter.RequestsPerSecond, cfg.Spotter.Burst)
		return completeness.NewLLMSpotter(provider, cfg.LLM.Model, c, limiter), nil

	default:
		return nil, eris.Errorf("unknown spotter backend: %s (supported: heuristic, llm, none)", cfg.Spotter.Backend)
	}
}

// DocumentResult is the complete verification outcome for one payload.
type DocumentResult struct {
	Report *model.ValidationReport
	People []model.VerifiedPerson
}

// ErrEmptyPassage marks payloads whose passage carries no text. Nothing can
// be grounded against an empty buffer, so the document fails outright
// instead of producing a report where every claim is out of bounds.
var ErrEmptyPassage = eris.New("pipeline: empty passage text")

// ValidateDocument checks one payload end to end: grounding and issue
// detection, confidence scoring, provenance attachment, then the
// completeness pass. A completeness failure downgrades to a warning; the
// second pass annotates, it never blocks a report.
func (p *Pipeline) ValidateDocument(ctx context.Context, payload *model.DocumentPayload) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if payload.Passage.Text == "" {
		return nil, eris.Wrapf(ErrEmptyPassage, "doc %q passage %d",
			payload.Passage.DocID, payload.Passage.PassageID)
	}

	report, survivors := p.detector.Check(payload)

	for i := range survivors {
		p.aggregator.Score(&survivors[i])
		p.builder.Attach(&payload.Passage, &survivors[i])
	}
	report.People = survivors

	if p.checker != nil {
		missing, err := p.checker.FindMissing(ctx, &payload.Passage, payload.People)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			zap.L().Warn("pipeline: completeness pass failed",
				zap.String("doc_id", payload.Passage.DocID),
				zap.Error(err))
		} else {
			completeness.Annotate(report, missing)
		}
	}

	return &DocumentResult{Report: report, People: survivors}, nil
}
