package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-portal-go/pkg/apperr"
)

func toolItems(n int, name string) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, ToolItem(ToolRecord{ID: uint(i + 1), Name: fmt.Sprintf("%s %d", name, i)}))
	}
	return items
}

func fileItems(n int, name string) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, FileItem(FileRecord{ID: uint(i + 1), OriginalName: fmt.Sprintf("%s_%d.txt", name, i), FileType: "txt"}))
	}
	return items
}

func sessionItems(n int, title string) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, SessionItem(SessionRecord{SessionID: fmt.Sprintf("s-%d", i), Title: fmt.Sprintf("%s %d", title, i)}))
	}
	return items
}

func messageItems(n int, content string) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, MessageItem(MessageRecord{SessionID: fmt.Sprintf("s-%d", i), SessionTitle: "t", Content: fmt.Sprintf("about %s %d", content, i)}))
	}
	return items
}

func countByType(results []Result) map[ItemType]int {
	counts := make(map[ItemType]int)
	for _, r := range results {
		counts[r.Type]++
	}
	return counts
}

func TestRequestNormalize(t *testing.T) {
	req := NewRequest("ai")
	require.NoError(t, req.Normalize())
	assert.Equal(t, ScopeAll, req.Scope)
	assert.Equal(t, DefaultLimit, req.Limit)

	long := make([]rune, MaxQueryLength+1)
	for i := range long {
		long[i] = '字'
	}

	bad := []Request{
		{Query: ""},
		{Query: string(long)},
		{Query: "ai"},
		{Query: "ai", Limit: 0, Scope: ScopeTools},
		{Query: "ai", Limit: -1},
		{Query: "ai", Limit: MaxLimit + 1},
		{Query: "ai", Scope: "users"},
	}
	for _, r := range bad {
		err := r.Normalize()
		assert.True(t, apperr.IsValidation(err), "request %+v", r)
	}

	ok := Request{Query: string(long[:MaxQueryLength]), Limit: MaxLimit, Scope: ScopeChats}
	assert.NoError(t, ok.Normalize())
}

func TestScopeSubLimit(t *testing.T) {
	assert.Equal(t, 10, ScopeAll.SubLimit(CategoryTools, 20))
	assert.Equal(t, 6, ScopeAll.SubLimit(CategoryFiles, 20))
	assert.Equal(t, 5, ScopeAll.SubLimit(CategorySessions, 20))
	assert.Equal(t, 5, ScopeAll.SubLimit(CategoryMessages, 20))

	assert.Equal(t, 20, ScopeTools.SubLimit(CategoryTools, 20))
	assert.Equal(t, 0, ScopeTools.SubLimit(CategoryFiles, 20))
	assert.Equal(t, 20, ScopeChats.SubLimit(CategorySessions, 20))
	assert.Equal(t, 20, ScopeChats.SubLimit(CategoryMessages, 20))

	// all 范围下限额为 1 时整除结果为 0
	assert.Equal(t, 0, ScopeAll.SubLimit(CategoryTools, 1))
}

func TestSearchMergeAll(t *testing.T) {
	req := Request{Query: "alpha", Scope: ScopeAll, Limit: 20}
	require.NoError(t, req.Normalize())

	resp := Search(req,
		Group{Category: CategoryTools, Items: toolItems(10, "alpha")},
		Group{Category: CategoryFiles, Items: fileItems(10, "alpha")},
		Group{Category: CategorySessions, Items: sessionItems(10, "alpha")},
	)

	// 合并前：工具 10、文件 6、会话 5；会话分数最低，截断到 20 后剩 4 条
	counts := countByType(resp.Results)
	assert.Equal(t, 21, resp.Total)
	assert.Len(t, resp.Results, 20)
	assert.Equal(t, 10, counts[TypeTool])
	assert.Equal(t, 6, counts[TypeFile])
	assert.Equal(t, 4, counts[TypeChat])

	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].Score, resp.Results[i].Score)
	}
	assert.Equal(t, "alpha", resp.Query)
	assert.Equal(t, ScopeAll, resp.Type)
}

func TestSearchSingleScopeUsesFullLimit(t *testing.T) {
	req := Request{Query: "beta", Scope: ScopeChats, Limit: 8}
	require.NoError(t, req.Normalize())

	resp := Search(req,
		Group{Category: CategoryTools, Items: toolItems(5, "beta")},
		Group{Category: CategorySessions, Items: sessionItems(6, "beta")},
		Group{Category: CategoryMessages, Items: messageItems(6, "beta")},
	)

	assert.Equal(t, 12, resp.Total)
	assert.Len(t, resp.Results, 8)
	assert.Equal(t, 0, countByType(resp.Results)[TypeTool])
	// 会话标题前缀匹配 0.8*0.9 高于消息包含匹配 0.6*0.8
	for _, r := range resp.Results[:6] {
		assert.Equal(t, "AI模型: ", r.Description[:len("AI模型: ")])
	}
}

func TestSearchStableOnTies(t *testing.T) {
	req := Request{Query: "gamma", Scope: ScopeTools, Limit: 10}
	require.NoError(t, req.Normalize())

	items := []Item{
		ToolItem(ToolRecord{ID: 3, Name: "gamma"}),
		ToolItem(ToolRecord{ID: 1, Name: "gamma"}),
		ToolItem(ToolRecord{ID: 2, Name: "gamma"}),
	}
	resp := Search(req, Group{Category: CategoryTools, Items: items})

	require.Len(t, resp.Results, 3)
	assert.Equal(t, "3", resp.Results[0].ID)
	assert.Equal(t, "1", resp.Results[1].ID)
	assert.Equal(t, "2", resp.Results[2].ID)
}

func TestSearchEmptyAndIdempotent(t *testing.T) {
	req := NewRequest("delta")
	require.NoError(t, req.Normalize())

	empty := Search(req)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Results)
	assert.Empty(t, empty.Results)

	groups := []Group{
		{Category: CategoryTools, Items: toolItems(4, "delta")},
		{Category: CategoryFiles, Items: fileItems(4, "x delta")},
	}
	assert.Equal(t, Search(req, groups...), Search(req, groups...))
}
