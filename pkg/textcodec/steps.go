package textcodec

import (
	"encoding/json"
	"strings"
)

type StepsFormat string

const (
	StepsStructured StepsFormat = "structured"
	StepsPlain      StepsFormat = "plain"
)

// Steps is the decoded form of a stored solution-steps column together with
// the representation it was read from.
type Steps struct {
	Items  []string
	Format StepsFormat
}

// EncodeSteps always writes the structured (JSON array) form.
func EncodeSteps(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

// DecodeSteps reads a JSON string array. A JSON null is an empty list. Anything else is treated as plain
// text with one step per non-empty line.
func DecodeSteps(raw string) Steps {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		if items == nil {
			items = []string{}
		}
		return Steps{Items: items, Format: StepsStructured}
	}

	lines := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return Steps{Items: lines, Format: StepsPlain}
}
