package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/pipeline"
)

// Validator verifies one document payload.
type Validator interface {
	ValidateDocument(ctx context.Context, payload *model.DocumentPayload) (*pipeline.DocumentResult, error)
}

// ValidateJob verifies a single document payload.
type ValidateJob struct {
	Payload   *model.DocumentPayload
	Validator Validator
}

// Execute runs the validation job.
func (j *ValidateJob) Execute(ctx context.Context) Result {
	result, err := j.Validator.ValidateDocument(ctx, j.Payload)
	if err != nil {
		return &ValidateResult{
			DocID:     j.Payload.Passage.DocID,
			PassageID: j.Payload.Passage.PassageID,
			Error:     err,
		}
	}
	return &ValidateResult{
		DocID:     j.Payload.Passage.DocID,
		PassageID: j.Payload.Passage.PassageID,
		Document:  result,
	}
}

// ValidateResult is the outcome of one document validation.
type ValidateResult struct {
	DocID     string
	PassageID int
	Document  *pipeline.DocumentResult
	Error     error
}

// Err returns the document-level failure, if any.
func (r *ValidateResult) Err() error {
	return r.Error
}

// BatchProcessor validates many payloads concurrently. A failed document
// yields a result with its error; it never stops the batch.
type BatchProcessor struct {
	validator   Validator
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(validator Validator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		validator:   validator,
		concurrency: concurrency,
	}
}

// ProcessPayloads validates payloads on the pool and returns one result per
// completed document.
func (b *BatchProcessor) ProcessPayloads(ctx context.Context, payloads []*model.DocumentPayload) []*ValidateResult {
	if len(payloads) == 0 {
		return []*ValidateResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, payload := range payloads {
		pool.Submit(&ValidateJob{Payload: payload, Validator: b.validator})
	}

	results := pool.Wait()
	out := make([]*ValidateResult, len(results))
	for i, result := range results {
		out[i] = result.(*ValidateResult)
	}
	return out
}

// ProcessDir loads every payload file under dir and validates them.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*ValidateResult, error) {
	payloads, err := ReadPayloadsFromDir(dir)
	if err != nil {
		return nil, eris.Wrap(err, "worker: read payload dir")
	}
	return b.ProcessPayloads(ctx, payloads), nil
}

// ReadPayloadFromFile loads one extraction payload.
func ReadPayloadFromFile(path string) (*model.DocumentPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "worker: read payload %s", path)
	}

	var payload model.DocumentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, eris.Wrapf(err, "worker: decode payload %s", path)
	}
	payload.SourceFile = path
	return &payload, nil
}

// ReadPayloadsFromDir loads all *.json payloads under dir in stable name
// order. Unreadable files are skipped with an error only if nothing loads.
func ReadPayloadsFromDir(dir string) ([]*model.DocumentPayload, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "worker: read dir %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var payloads []*model.DocumentPayload
	var firstErr error
	for _, name := range names {
		payload, err := ReadPayloadFromFile(filepath.Join(dir, name))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		payloads = append(payloads, payload)
	}
	if len(payloads) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return payloads, nil
}
