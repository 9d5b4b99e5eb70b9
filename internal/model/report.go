package model

import "time"

// IssueType classifies a validation finding.
type IssueType string

const (
	IssueHallucination        IssueType = "hallucination"
	IssueWrongPosition        IssueType = "wrong_position"
	IssueMissingEntity        IssueType = "missing_entity"
	IssueSchemaViolation      IssueType = "schema_violation"
	IssueWrongLawArticle      IssueType = "wrong_law_article"
	IssueIncompleteExtraction IssueType = "incomplete_extraction"
)

// Severity is the four-level triage taxonomy for issues.
type Severity string

const (
	SeverityCritical Severity = "critical" // hallucinations, fabricated data
	SeverityError    Severity = "error"    // wrong positions, incorrect data
	SeverityWarning  Severity = "warning"  // potential issues, edge cases
	SeverityInfo     Severity = "info"     // suggestions, completeness notes
)

// ValidationIssue is a single finding against one extraction.
type ValidationIssue struct {
	Type        IssueType `json:"type"`
	Severity    Severity  `json:"severity"`
	PersonName  string    `json:"person_name,omitempty"`
	Field       string    `json:"field,omitempty"` // e.g. "name", "actions[0].law_article"
	Expected    string    `json:"expected,omitempty"`
	Actual      string    `json:"actual,omitempty"`
	Description string    `json:"description"`
	TextSnippet string    `json:"text_snippet,omitempty"`
}

// ValidationSummary holds per-report counters by severity and type.
type ValidationSummary struct {
	TotalPeopleExtracted int `json:"total_people_extracted"`
	TotalIssuesFound     int `json:"total_issues_found"`

	CriticalIssues int `json:"critical_issues"`
	Errors         int `json:"errors"`
	Warnings       int `json:"warnings"`
	InfoIssues     int `json:"info_issues"`

	Hallucinations   int `json:"hallucinations"`
	WrongPositions   int `json:"wrong_positions"`
	MissingEntities  int `json:"missing_entities"`
	SchemaViolations int `json:"schema_violations"`
	WrongLawArticles int `json:"wrong_law_articles"`
}

// ValidationReport is the terminal artifact of the verification stage for one
// (doc_id, passage_id) and the input to linking.
type ValidationReport struct {
	DocID        string `json:"doc_id"`
	PassageID    int    `json:"passage_id"`
	ArticleTitle string `json:"article_title,omitempty"`

	ExtractorModel string    `json:"extractor_model,omitempty"`
	ValidatedAt    time.Time `json:"validated_at"`

	Summary ValidationSummary `json:"summary"`
	Issues  []ValidationIssue `json:"issues"`

	// People surviving verification, with ungrounded fields nulled. Excluded
	// records (malformed) are absent here but counted in the summary.
	People []VerifiedPerson `json:"people"`

	// Missing entities surfaced by the completeness pass. Annotation only.
	MissingEntities []MissingEntity `json:"missing_entities,omitempty"`

	SourceFile string `json:"source_file,omitempty"`
}

// AddIssue appends an issue and keeps summary counters consistent.
func (r *ValidationReport) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
	r.Summary.TotalIssuesFound++

	switch issue.Severity {
	case SeverityCritical:
		r.Summary.CriticalIssues++
	case SeverityError:
		r.Summary.Errors++
	case SeverityWarning:
		r.Summary.Warnings++
	case SeverityInfo:
		r.Summary.InfoIssues++
	}

	switch issue.Type {
	case IssueHallucination:
		r.Summary.Hallucinations++
	case IssueWrongPosition:
		r.Summary.WrongPositions++
	case IssueMissingEntity:
		r.Summary.MissingEntities++
	case IssueSchemaViolation:
		r.Summary.SchemaViolations++
	case IssueWrongLawArticle:
		r.Summary.WrongLawArticles++
	}
}

// MissingEntity is a named individual found in the passage but absent from
// the extraction.
type MissingEntity struct {
	Name    string `json:"name"`
	Snippet string `json:"snippet,omitempty"`
}

// BatchSummary aggregates counters across one batch of reports.
type BatchSummary struct {
	TotalFiles          int `json:"total_files"`
	TotalFilesWithIssue int `json:"total_files_with_issues"`
	TotalIssues         int `json:"total_issues"`
	TotalPeople         int `json:"total_people_extracted"`

	CriticalIssues int `json:"critical_issues"`
	Errors         int `json:"errors"`
	Warnings       int `json:"warnings"`
	InfoIssues     int `json:"info_issues"`

	Hallucinations   int `json:"hallucinations"`
	WrongPositions   int `json:"wrong_positions"`
	MissingEntities  int `json:"missing_entities"`
	SchemaViolations int `json:"schema_violations"`
	WrongLawArticles int `json:"wrong_law_articles"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Add folds one report's summary into the batch counters.
func (b *BatchSummary) Add(r *ValidationReport) {
	b.TotalFiles++
	if r.Summary.TotalIssuesFound > 0 {
		b.TotalFilesWithIssue++
	}
	b.TotalIssues += r.Summary.TotalIssuesFound
	b.TotalPeople += r.Summary.TotalPeopleExtracted

	b.CriticalIssues += r.Summary.CriticalIssues
	b.Errors += r.Summary.Errors
	b.Warnings += r.Summary.Warnings
	b.InfoIssues += r.Summary.InfoIssues

	b.Hallucinations += r.Summary.Hallucinations
	b.WrongPositions += r.Summary.WrongPositions
	b.MissingEntities += r.Summary.MissingEntities
	b.SchemaViolations += r.Summary.SchemaViolations
	b.WrongLawArticles += r.Summary.WrongLawArticles
}
