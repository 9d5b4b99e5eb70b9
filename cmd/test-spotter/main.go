// Test program to demonstrate the completeness spotter and span grounding.
// This shows the heuristic name spotter and the verbatim grounding check
// working on a sample crime-news passage.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/completeness"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/verify"
)

func main() {
	fmt.Println("=== Spotter and Grounding Test ===")
	fmt.Println()

	passage := &model.Passage{
		DocID:     "demo-001",
		PassageID: 0,
		Text: "Ngày 29.10, Công an tỉnh Cà Mau cho biết đã khởi tố bị can " +
			"Phạm Văn Sử (45 tuổi) về hành vi lừa đảo chiếm đoạt tài sản. " +
			"Trước đó, bà Nguyễn Thị Hoa đã trình báo việc bị chiếm đoạt " +
			"500 triệu đồng. Luật sư Trần Minh Đức tham gia bào chữa.",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The extractor only found one of the three people.
	knownNames := []string{"Phạm Văn Sử"}
	fmt.Printf("Passage: %s\n", passage.Text)
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Extracted names: %v\n\n", knownNames)

	spotter := completeness.NewHeuristicSpotter()
	candidates, err := spotter.SpotNames(ctx, passage, knownNames)
	if err != nil {
		fmt.Printf("  Spotter error: %v\n", err)
		return
	}

	fmt.Printf("Spotted %d candidate names:\n", len(candidates))
	buf := verify.NewBuffer(passage.Text)
	for _, cand := range candidates {
		res := verify.Ground(buf, model.Span{Text: cand.Name, Start: cand.Start, End: cand.End})
		status := "NOT GROUNDED"
		if res.Grounded {
			status = "grounded"
		}
		fmt.Printf("  %-25s [%d:%d] %s\n", cand.Name, cand.Start, cand.End, status)
	}

	// The full checker also diffs against known names and grounds each
	// candidate before reporting it.
	checker := completeness.NewChecker(spotter, 30)
	nameStart := buf.Find("Phạm Văn Sử")
	missing, err := checker.FindMissing(ctx, passage, []model.ExtractedPerson{
		{Name: model.Span{Text: "Phạm Văn Sử", Start: nameStart, End: nameStart + 11}},
	})
	if err != nil {
		fmt.Printf("  Checker error: %v\n", err)
		return
	}

	fmt.Printf("\nMissing people after diff: %d\n", len(missing))
	for _, m := range missing {
		fmt.Printf("  - %s\n    %s\n", m.Name, m.Snippet)
	}

	fmt.Println("\n=== Test Complete ===")
	fmt.Println("\nNote: the heuristic spotter is recall-oriented and noisy.")
	fmt.Println("Candidates are grounded before they are ever reported.")
}
