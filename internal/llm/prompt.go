package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// spotSystemPrompt instructs the validator model, in Vietnamese, to list
// only person names that occur verbatim in the passage and are missing from
// the extracted list, as strict JSON.
const spotSystemPrompt = `Bạn là hệ thống kiểm tra chất lượng trích xuất thông tin.
Nhiệm vụ: Tìm tất cả TÊN NGƯỜI được đề cập trong đoạn văn mà CHƯA có trong danh sách đã trích xuất.

Quy tắc:
- Chỉ tìm tên người (không phải tổ chức, địa danh)
- Chỉ liệt kê tên người xuất hiện NGUYÊN VĂN trong văn bản
- Bỏ qua các danh xưng (ông, bà, anh, chị)
- Trả về JSON: {"missing_people": ["Tên 1", "Tên 2", ...]}
- Nếu không thiếu ai, trả về: {"missing_people": []}`

// BuildSpotPrompt renders the user prompt for a missing-person pass.
func BuildSpotPrompt(passageText string, knownNames []string) string {
	quoted := make([]string, 0, len(knownNames))
	for _, n := range knownNames {
		if n != "" {
			quoted = append(quoted, fmt.Sprintf("%q", n))
		}
	}
	extracted := strings.Join(quoted, ", ")
	if extracted == "" {
		extracted = "(rỗng)"
	}

	return fmt.Sprintf(`Đoạn văn:
%s

Danh sách đã trích xuất:
%s

Tìm tên người còn thiếu:`, passageText, extracted)
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

type spotPayload struct {
	MissingPeople []string `json:"missing_people"`
}

// ParseMissingPeople extracts the missing_people list from a model response.
// Models wrap JSON in prose often enough that the parser falls back to the
// first object-looking region before giving up.
func ParseMissingPeople(response string) ([]string, error) {
	raw := strings.TrimSpace(response)

	var payload spotPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		return cleanNames(payload.MissingPeople), nil
	}

	match := jsonObjectRe.FindString(raw)
	if match == "" {
		return nil, fmt.Errorf("no JSON object in model response")
	}
	if err := json.Unmarshal([]byte(match), &payload); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	return cleanNames(payload.MissingPeople), nil
}

func cleanNames(names []string) []string {
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
