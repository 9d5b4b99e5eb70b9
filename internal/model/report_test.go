package model

import "testing"

func TestValidationReport_AddIssueKeepsCountersConsistent(t *testing.T) {
	r := &ValidationReport{}

	r.AddIssue(ValidationIssue{Type: IssueHallucination, Severity: SeverityCritical})
	r.AddIssue(ValidationIssue{Type: IssueWrongPosition, Severity: SeverityError})
	r.AddIssue(ValidationIssue{Type: IssueMissingEntity, Severity: SeverityWarning})
	r.AddIssue(ValidationIssue{Type: IssueSchemaViolation, Severity: SeverityError})
	r.AddIssue(ValidationIssue{Type: IssueWrongLawArticle, Severity: SeverityError})

	if r.Summary.TotalIssuesFound != 5 {
		t.Errorf("total = %d, want 5", r.Summary.TotalIssuesFound)
	}
	if r.Summary.CriticalIssues != 1 || r.Summary.Errors != 3 || r.Summary.Warnings != 1 {
		t.Errorf("severity counters wrong: %+v", r.Summary)
	}
	if r.Summary.Hallucinations != 1 || r.Summary.WrongPositions != 1 ||
		r.Summary.MissingEntities != 1 || r.Summary.SchemaViolations != 1 ||
		r.Summary.WrongLawArticles != 1 {
		t.Errorf("type counters wrong: %+v", r.Summary)
	}
	if len(r.Issues) != 5 {
		t.Errorf("issues = %d, want 5", len(r.Issues))
	}
}

func TestBatchSummary_AddIsAdditive(t *testing.T) {
	a := &ValidationReport{Summary: ValidationSummary{TotalPeopleExtracted: 2}}
	a.AddIssue(ValidationIssue{Type: IssueHallucination, Severity: SeverityCritical})
	a.AddIssue(ValidationIssue{Type: IssueWrongPosition, Severity: SeverityError})

	b := &ValidationReport{Summary: ValidationSummary{TotalPeopleExtracted: 3}}
	b.AddIssue(ValidationIssue{Type: IssueMissingEntity, Severity: SeverityWarning})

	clean := &ValidationReport{Summary: ValidationSummary{TotalPeopleExtracted: 1}}

	var batch BatchSummary
	batch.Add(a)
	batch.Add(b)
	batch.Add(clean)

	if batch.TotalFiles != 3 {
		t.Errorf("total files = %d, want 3", batch.TotalFiles)
	}
	if batch.TotalFilesWithIssue != 2 {
		t.Errorf("files with issues = %d, want 2", batch.TotalFilesWithIssue)
	}
	if batch.TotalIssues != 3 {
		t.Errorf("total issues = %d, want 3", batch.TotalIssues)
	}
	if batch.TotalPeople != 6 {
		t.Errorf("total people = %d, want 6", batch.TotalPeople)
	}
	if batch.CriticalIssues != 1 || batch.Errors != 1 || batch.Warnings != 1 {
		t.Errorf("severity counters wrong: %+v", batch)
	}
	if batch.Hallucinations != 1 || batch.WrongPositions != 1 || batch.MissingEntities != 1 {
		t.Errorf("type counters wrong: %+v", batch)
	}
}

func TestSpan_Absent(t *testing.T) {
	if !AbsentSpan().Absent() {
		t.Error("sentinel should be absent")
	}
	if (Span{Text: "x", Start: 0, End: 1}).Absent() {
		t.Error("claimed span should not be absent")
	}
	if !(Span{Text: "x", Start: -1, End: 5}).Absent() {
		t.Error("half-sentinel span should be absent")
	}
}

func TestDetectorConfidence_IndexedFallback(t *testing.T) {
	p := &ExtractedPerson{FieldConfidence: map[string]float64{
		"phones":    0.9,
		"phones[1]": 0.7,
	}}

	if got := p.DetectorConfidence("phones[1]"); got != 0.7 {
		t.Errorf("exact indexed confidence = %v, want 0.7", got)
	}
	// Unindexed fallback for paths the extractor scored per-field.
	if got := p.DetectorConfidence("phones[0]"); got != 0.9 {
		t.Errorf("fallback confidence = %v, want 0.9", got)
	}
	if got := p.DetectorConfidence("national_id"); got != 0.5 {
		t.Errorf("missing confidence = %v, want default 0.5", got)
	}
}

func TestRoleAndPredicateSets(t *testing.T) {
	if !RoleSuspect.Valid() || !RoleOther.Valid() {
		t.Error("allowed roles should validate")
	}
	if RoleLabel("bystander").Valid() {
		t.Error("unknown role should not validate")
	}
	if !PredicateArrested.Valid() {
		t.Error("allowed predicate should validate")
	}
	if ActionPredicate("kidnapped").Valid() {
		t.Error("unknown predicate should not validate")
	}
}
