package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/pipeline"
)

type stubValidator struct {
	failDoc string
}

func (s *stubValidator) ValidateDocument(_ context.Context, payload *model.DocumentPayload) (*pipeline.DocumentResult, error) {
	if payload.Passage.DocID == s.failDoc {
		return nil, eris.New("validation blew up")
	}
	return &pipeline.DocumentResult{
		Report: &model.ValidationReport{
			DocID:     payload.Passage.DocID,
			PassageID: payload.Passage.PassageID,
		},
	}, nil
}

func writePayload(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadPayloadFromFile(t *testing.T) {
	dir := t.TempDir()
	writePayload(t, dir, "a.json", `{"passage": {"doc_id": "doc-a", "passage_id": 3, "text": "x"}}`)

	payload, err := ReadPayloadFromFile(filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatalf("ReadPayloadFromFile: %v", err)
	}
	if payload.Passage.DocID != "doc-a" || payload.Passage.PassageID != 3 {
		t.Errorf("payload = %+v", payload.Passage)
	}
	if payload.SourceFile == "" {
		t.Error("source file should be recorded")
	}
}

func TestReadPayloadsFromDir_SkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writePayload(t, dir, "good.json", `{"passage": {"doc_id": "doc-a", "text": "x"}}`)
	writePayload(t, dir, "broken.json", `{not json`)
	writePayload(t, dir, "ignored.txt", `not a payload`)

	payloads, err := ReadPayloadsFromDir(dir)
	if err != nil {
		t.Fatalf("ReadPayloadsFromDir: %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(payloads))
	}
	if payloads[0].Passage.DocID != "doc-a" {
		t.Errorf("wrong payload loaded: %+v", payloads[0].Passage)
	}
}

func TestReadPayloadsFromDir_AllBadIsError(t *testing.T) {
	dir := t.TempDir()
	writePayload(t, dir, "broken.json", `{not json`)

	if _, err := ReadPayloadsFromDir(dir); err == nil {
		t.Fatal("expected error when nothing loads")
	}
}

func TestBatchProcessor_FailureIsolated(t *testing.T) {
	dir := t.TempDir()
	writePayload(t, dir, "a.json", `{"passage": {"doc_id": "doc-a", "text": "x"}}`)
	writePayload(t, dir, "b.json", `{"passage": {"doc_id": "doc-b", "text": "x"}}`)
	writePayload(t, dir, "c.json", `{"passage": {"doc_id": "doc-c", "text": "x"}}`)

	processor := NewBatchProcessor(&stubValidator{failDoc: "doc-b"}, 2)
	results, err := processor.ProcessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDir: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	failures := 0
	for _, r := range results {
		if r.Err() != nil {
			failures++
			if r.DocID != "doc-b" {
				t.Errorf("wrong document failed: %s", r.DocID)
			}
		} else if r.Document == nil {
			t.Errorf("successful result for %s missing document", r.DocID)
		}
	}
	if failures != 1 {
		t.Errorf("got %d failures, want 1", failures)
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	processor := NewBatchProcessor(&stubValidator{}, 2)
	results := processor.ProcessPayloads(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results for empty input, got %d", len(results))
	}
}
