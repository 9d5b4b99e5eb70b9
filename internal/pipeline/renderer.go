package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
)

// Renderer writes validation reports and linking results as JSON and
// Markdown, plus a terse console summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes any result value as indented JSON.
func (r *Renderer) RenderJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "render: marshal json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "render: create dir for %s", path)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return eris.Wrapf(err, "render: write %s", path)
	}
	return nil
}

// RenderMarkdown writes a human-readable validation report.
func (r *Renderer) RenderMarkdown(report *model.ValidationReport, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation Report: %s\n\n", report.DocID)
	if report.ArticleTitle != "" {
		fmt.Fprintf(&b, "**Article:** %s\n\n", report.ArticleTitle)
	}
	fmt.Fprintf(&b, "- Passage: %d\n", report.PassageID)
	if report.ExtractorModel != "" {
		fmt.Fprintf(&b, "- Extractor model: %s\n", report.ExtractorModel)
	}
	fmt.Fprintf(&b, "- Validated at: %s\n\n", report.ValidatedAt.Format("2006-01-02 15:04:05 UTC"))

	s := report.Summary
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| People extracted | %d |\n", s.TotalPeopleExtracted)
	fmt.Fprintf(&b, "| Issues found | %d |\n", s.TotalIssuesFound)
	fmt.Fprintf(&b, "| Critical | %d |\n", s.CriticalIssues)
	fmt.Fprintf(&b, "| Errors | %d |\n", s.Errors)
	fmt.Fprintf(&b, "| Warnings | %d |\n", s.Warnings)
	fmt.Fprintf(&b, "| Info | %d |\n\n", s.InfoIssues)

	if len(report.Issues) > 0 {
		fmt.Fprintf(&b, "## Issues\n\n")
		for _, issue := range report.Issues {
			fmt.Fprintf(&b, "### %s %s", severityMarker(issue.Severity), issue.Type)
			if issue.PersonName != "" {
				fmt.Fprintf(&b, " (%s)", issue.PersonName)
			}
			b.WriteString("\n\n")
			if issue.Field != "" {
				fmt.Fprintf(&b, "- Field: `%s`\n", issue.Field)
			}
			if issue.Expected != "" {
				fmt.Fprintf(&b, "- Expected: %s\n", issue.Expected)
			}
			if issue.Actual != "" {
				fmt.Fprintf(&b, "- Actual: %s\n", issue.Actual)
			}
			fmt.Fprintf(&b, "- %s\n", issue.Description)
			if issue.TextSnippet != "" {
				fmt.Fprintf(&b, "\n> %s\n", issue.TextSnippet)
			}
			b.WriteString("\n")
		}
	}

	if len(report.People) > 0 {
		fmt.Fprintf(&b, "## Verified People\n\n")
		for i := range report.People {
			v := &report.People[i]
			fmt.Fprintf(&b, "- **%s** (confidence %.2f)", v.Person.Name.Text, v.EntityConfidence)
			var extras []string
			if id := v.GroundedNationalID(); id != "" {
				extras = append(extras, "id "+id)
			}
			if v.DerivedBirthYear != nil {
				extras = append(extras, fmt.Sprintf("b. %d", *v.DerivedBirthYear))
			}
			if len(extras) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(extras, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(report.MissingEntities) > 0 {
		fmt.Fprintf(&b, "## Possibly Missing People\n\n")
		for _, m := range report.MissingEntities {
			fmt.Fprintf(&b, "- %s\n", m.Name)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by peoplex. Findings annotate the extraction; they do not modify it.\n")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "render: create dir for %s", path)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return eris.Wrapf(err, "render: write %s", path)
	}
	return nil
}

// RenderSummary prints a one-screen result to stdout.
func (r *Renderer) RenderSummary(report *model.ValidationReport) {
	s := report.Summary
	fmt.Printf("\n%s (passage %d): %d people, %d issues", report.DocID, report.PassageID, s.TotalPeopleExtracted, s.TotalIssuesFound)
	if s.TotalIssuesFound > 0 {
		fmt.Printf(" (%d critical, %d errors, %d warnings, %d info)", s.CriticalIssues, s.Errors, s.Warnings, s.InfoIssues)
	}
	fmt.Println()

	for _, issue := range report.Issues {
		target := issue.Field
		if issue.PersonName != "" {
			target = issue.PersonName + "/" + issue.Field
		}
		fmt.Printf("  %s %-20s %s\n", severityMarker(issue.Severity), issue.Type, target)
	}
}

// RenderBatchSummary prints aggregate counters for a batch run.
func (r *Renderer) RenderBatchSummary(summary *model.BatchSummary, failed int) {
	fmt.Printf("\nBatch: %d files, %d with issues, %d failed to load or validate\n",
		summary.TotalFiles, summary.TotalFilesWithIssue, failed)
	fmt.Printf("People extracted: %d\n", summary.TotalPeople)
	fmt.Printf("Issues: %d total (%d critical, %d errors, %d warnings, %d info)\n",
		summary.TotalIssues, summary.CriticalIssues, summary.Errors, summary.Warnings, summary.InfoIssues)

	byType := []struct {
		label string
		n     int
	}{
		{"hallucinations", summary.Hallucinations},
		{"wrong positions", summary.WrongPositions},
		{"missing entities", summary.MissingEntities},
		{"schema violations", summary.SchemaViolations},
		{"wrong law articles", summary.WrongLawArticles},
	}
	var parts []string
	for _, t := range byType {
		if t.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", t.n, t.label))
		}
	}
	if len(parts) > 0 {
		fmt.Printf("By type: %s\n", strings.Join(parts, ", "))
	}
}

// RenderLinkSummary prints the outcome of a linking commit.
func (r *Renderer) RenderLinkSummary(result *model.LinkResult) {
	fmt.Printf("\nLinked %d canonical people, %d pairs pending review\n",
		len(result.Canonical), len(result.Pending))

	people := append([]model.CanonicalPerson(nil), result.Canonical...)
	sort.Slice(people, func(i, j int) bool {
		return len(people[i].MemberDocIDs) > len(people[j].MemberDocIDs)
	})
	for i, p := range people {
		if i >= 10 {
			fmt.Printf("  ... and %d more\n", len(people)-i)
			break
		}
		fmt.Printf("  %-30s docs=%d confidence=%.2f\n", p.DisplayName, len(p.MemberDocIDs), p.Confidence)
	}

	for _, pm := range result.Pending {
		fmt.Printf("  review: %s <-> %s (%.2f)\n", pm.LeftName, pm.RightName, pm.Score)
	}
}

func severityMarker(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "[CRIT]"
	case model.SeverityError:
		return "[ERR] "
	case model.SeverityWarning:
		return "[WARN]"
	case model.SeverityInfo:
		return "[INFO]"
	}
	return "[?]   "
}
