package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-portal-go/pkg/apperr"
)

func TestSuggestShortPrefix(t *testing.T) {
	got, hint, err := Suggest("a", ToolSuggestions([]string{"abc"}))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, SuggestHint, hint)
}

func TestSuggestInvalidPrefix(t *testing.T) {
	_, _, err := Suggest("")
	assert.True(t, apperr.IsValidation(err))

	_, _, err = Suggest(strings.Repeat("a", MaxSuggestPrefix+1))
	assert.True(t, apperr.IsValidation(err))
}

func TestSuggestCaseSensitivePrefix(t *testing.T) {
	got, hint, err := Suggest("Da",
		ToolSuggestions([]string{"Data Lab", "data cleaner", "Dashboard"}),
	)
	require.NoError(t, err)
	assert.Empty(t, hint)
	require.Len(t, got, 2)
	assert.Equal(t, Suggestion{Type: TypeTool, Text: "Data Lab", Category: "工具"}, got[0])
	assert.Equal(t, "Dashboard", got[1].Text)
}

func TestSuggestCaps(t *testing.T) {
	many := func(prefix string, n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = prefix + strings.Repeat("x", i)
		}
		return out
	}

	got, _, err := Suggest("ab",
		ToolSuggestions(many("ab", 8)),
		FileSuggestions(many("ab", 8)),
		ChatSuggestions(many("ab", 8)),
	)
	require.NoError(t, err)
	require.Len(t, got, MaxSuggestions)

	counts := make(map[ItemType]int)
	for _, s := range got {
		counts[s.Type]++
	}
	assert.Equal(t, 5, counts[TypeTool])
	assert.Equal(t, 5, counts[TypeFile])
	assert.Equal(t, 0, counts[TypeChat])
	assert.Equal(t, "文件", got[5].Category)
}
