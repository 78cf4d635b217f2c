package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCNR(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		cnr := NewCNR()
		require.Len(t, cnr, 16)
		for _, ch := range cnr {
			assert.True(t, (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9'), "unexpected character %q in %s", ch, cnr)
		}
		seen[cnr] = true
	}
	// 50 draws from a 36^16 space never collide in practice
	assert.Len(t, seen, 50)
}

func TestAnalyzeCaseWithoutArguments(t *testing.T) {
	c := &Client{}

	report, err := c.AnalyzeCase(context.Background(), "State v. Doe", "details", nil, nil, "verdict")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(report, "### Outcome"))
	assert.Contains(t, report, "No arguments were provided to evaluate.")
}

func TestLastOrDefault(t *testing.T) {
	assert.Equal(t, "fallback", lastOrDefault(nil, "fallback"))
	assert.Equal(t, "closing", lastOrDefault([]string{"opening", "closing"}, "fallback"))
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "fallback", orDefault("", "fallback"))
	assert.Equal(t, "value", orDefault("value", "fallback"))
}
