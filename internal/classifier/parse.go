package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

// ErrParse marks a reply that did not contain a balanced, valid JSON
// object. Callers treat it as scanned-but-rejected, never a retry.
var ErrParse = errors.New("unparsable classifier response")

// verdictJSON tolerates nulls for the optional string fields.
type verdictJSON struct {
	IsUseful   bool    `json:"is_useful"`
	Category   *string `json:"category"`
	ToolName   *string `json:"tool_name"`
	Summary    *string `json:"summary"`
	Confidence float64 `json:"confidence"`
}

// ParseVerdict extracts the verdict object from a raw model reply. The
// reply may be wrapped in code fences or surrounded by prose; only the
// first balanced {...} is parsed.
func ParseVerdict(raw string) (types.Verdict, error) {
	obj, err := extractObject(raw)
	if err != nil {
		return types.Verdict{}, err
	}

	var v verdictJSON
	if err := json.Unmarshal([]byte(obj), &v); err != nil {
		return types.Verdict{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return types.Verdict{
		IsUseful:   v.IsUseful,
		Category:   deref(v.Category),
		ToolName:   deref(v.ToolName),
		Summary:    deref(v.Summary),
		Confidence: v.Confidence,
	}, nil
}

// extractObject strips code-fence markers, then brace-depth-counts from
// the first "{" to its matching "}".
func extractObject(raw string) (string, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.IndexByte(cleaned, '{')
	if start == -1 {
		return "", fmt.Errorf("%w: no JSON object found", ErrParse)
	}

	depth := 0
	for i := start; i < len(cleaned); i++ {
		switch cleaned[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			return cleaned[start : i+1], nil
		}
	}

	return "", fmt.Errorf("%w: incomplete JSON object", ErrParse)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Sanitize collapses control characters and whitespace escapes to
// spaces and caps the length so the prompt stays bounded.
func Sanitize(text string, maxChars int) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			sb.WriteByte(' ')
		case unicode.IsControl(r):
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
	}

	out := strings.TrimSpace(sb.String())
	if maxChars > 0 {
		runes := []rune(out)
		if len(runes) > maxChars {
			out = string(runes[:maxChars])
		}
	}
	return out
}
