package completeness

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/cache"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/llm"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
)

// LLMSpotter backs the completeness pass with a second model call. Responses
// are cached by (provider, model, passage, known names) and rate-limited per
// backend. Candidates come back without offsets; the checker resolves and
// grounds them by substring search.
type LLMSpotter struct {
	provider llm.Provider
	model    string
	cache    cache.Cache
	limiter  *llm.Limiter
}

// NewLLMSpotter wires a model-backed spotter. cache and limiter may be nil.
func NewLLMSpotter(provider llm.Provider, model string, c cache.Cache, limiter *llm.Limiter) *LLMSpotter {
	return &LLMSpotter{
		provider: provider,
		model:    model,
		cache:    c,
		limiter:  limiter,
	}
}

// SpotNames asks the model for missed person names.
func (s *LLMSpotter) SpotNames(ctx context.Context, passage *model.Passage, knownNames []string) ([]Candidate, error) {
	key := cache.SpotKey(s.provider.Name(), s.model, passage.Text, knownNames)

	if s.cache != nil {
		if data, found := s.cache.Get(key); found {
			var names []string
			if err := json.Unmarshal(data, &names); err == nil {
				return candidatesFromNames(names), nil
			}
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.provider.Name()); err != nil {
			return nil, eris.Wrap(err, "completeness: rate limit wait")
		}
	}

	resp, err := s.provider.SpotMissing(ctx, llm.SpotRequest{
		PassageText: passage.Text,
		KnownNames:  knownNames,
		Model:       s.model,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "completeness: %s spot pass", s.provider.Name())
	}

	zap.L().Debug("completeness: model pass finished",
		zap.String("provider", s.provider.Name()),
		zap.String("doc_id", passage.DocID),
		zap.Int("names", len(resp.MissingNames)),
		zap.Int("tokens", resp.TokensUsed))

	if s.cache != nil {
		if data, err := json.Marshal(resp.MissingNames); err == nil {
			_ = s.cache.Set(key, data, 0)
		}
	}

	return candidatesFromNames(resp.MissingNames), nil
}

func candidatesFromNames(names []string) []Candidate {
	candidates := make([]Candidate, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, Candidate{Name: name, Start: -1, End: -1})
	}
	return candidates
}
