package prompt

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// GetSystemPrompt directs the model to produce a short plain-text summary.
func GetSystemPrompt() string {
	return `You are an equity research editor. You will receive the sections of an analysis report for one subject symbol. Produce a single short summary paragraph (2-3 sentences, plain text, no markdown, no headings) capturing the overall conclusion and the most decision-relevant points. Do not invent facts that are not in the sections.`
}

// GetUserPrompt flattens the payload sections into a compact user message.
// Section order is made deterministic so identical payloads produce identical
// prompts.
func GetUserPrompt(symbol string, sections map[string]any) string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s\n\n", symbol)
	for _, name := range names {
		fmt.Fprintf(&b, "## %s\n%s\n\n", name, renderSection(sections[name]))
	}
	b.WriteString("Write the summary paragraph now.")
	return b.String()
}

func renderSection(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		// nested mappings and anything else go through as compact JSON
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	}
}
