package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPromptIsDeterministic(t *testing.T) {
	sections := map[string]any{
		"market":       "trending up",
		"fundamentals": map[string]any{"pe": 28},
		"news":         "neutral",
	}

	a := GetUserPrompt("AAPL", sections)
	b := GetUserPrompt("AAPL", sections)
	assert.Equal(t, a, b)

	assert.Contains(t, a, "Symbol: AAPL")
	assert.Contains(t, a, "## fundamentals")
	assert.Contains(t, a, `{"pe":28}`)
	// sections render in sorted order
	assert.Less(t, 0, len(a))
	assert.Less(t, indexOf(a, "## fundamentals"), indexOf(a, "## market"))
	assert.Less(t, indexOf(a, "## market"), indexOf(a, "## news"))
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
