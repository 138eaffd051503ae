package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// parseJSONObject extracts a single JSON object from backend output. It
// tolerates markdown code fences and surrounding commentary by taking the
// substring between the first '{' and the last '}'.
func parseJSONObject(content string) (json.RawMessage, error) {
	text := strings.TrimSpace(content)

	if strings.HasPrefix(text, "```") {
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			kept = append(kept, line)
		}
		text = strings.TrimSpace(strings.Join(kept, "\n"))
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, errors.New("backend output did not contain a JSON object")
	}

	candidate := text[start : end+1]
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON from backend: %w", err)
	}
	return json.RawMessage(candidate), nil
}
