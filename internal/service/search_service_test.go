package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-portal-go/internal/model"
	"ai-portal-go/internal/search"
	"ai-portal-go/pkg/apperr"
)

func newSearchFixture(t *testing.T) SearchService {
	t.Helper()
	tools := &fakeToolRepo{}
	require.NoError(t, tools.CreateBatch(DefaultTools()))

	files := newFakeFileRepo()
	require.NoError(t, files.Create(&model.File{OriginalName: "数据报告.pdf", FileType: "pdf", FileSize: 2048, UserID: 1}))
	require.NoError(t, files.Create(&model.File{OriginalName: "数据备份.zip", FileType: "zip", FileSize: 10, UserID: 2}))

	chats := &fakeChatRepo{}
	require.NoError(t, chats.CreateSession(&model.ChatSession{SessionID: "s-1", UserID: 1, Title: "数据清洗讨论", ModelType: "gpt-4", IsActive: true}))
	require.NoError(t, chats.AppendMessages(1, &model.ChatMessage{Role: "user", Content: "如何做数据分析", CreatedAt: time.Now()}))

	return NewSearchService(tools, files, chats)
}

func TestSearchAllScopes(t *testing.T) {
	svc := newSearchFixture(t)

	resp, err := svc.Search(1, search.NewRequest("数据"))
	require.NoError(t, err)
	assert.Equal(t, search.ScopeAll, resp.Type)
	assert.Equal(t, 4, resp.Total)

	types := make(map[search.ItemType]int)
	for _, r := range resp.Results {
		types[r.Type]++
	}
	assert.Equal(t, 1, types[search.TypeTool])
	assert.Equal(t, 1, types[search.TypeFile], "other users' files are excluded")
	assert.Equal(t, 2, types[search.TypeChat])

	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].Score, resp.Results[i].Score)
	}
}

func TestSearchSingleScope(t *testing.T) {
	svc := newSearchFixture(t)

	resp, err := svc.Search(1, search.Request{Query: "数据", Scope: search.ScopeFiles, Limit: 5})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "数据报告.pdf", resp.Results[0].Title)
	assert.Equal(t, "文件类型: PDF, 大小: 2.0 KB", resp.Results[0].Description)
}

func TestSearchValidation(t *testing.T) {
	svc := newSearchFixture(t)

	_, err := svc.Search(1, search.Request{Query: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Search(1, search.Request{Query: "x", Scope: "users"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Search(1, search.Request{Query: "x", Limit: 101})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Search(1, search.Request{Query: "x", Scope: search.ScopeTools, Limit: 0})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSuggestions(t *testing.T) {
	svc := newSearchFixture(t)

	res, err := svc.Suggestions(1, "数")
	require.NoError(t, err)
	assert.Empty(t, res.Suggestions)
	assert.Equal(t, search.SuggestHint, res.Message)

	res, err = svc.Suggestions(1, "数据")
	require.NoError(t, err)
	assert.Empty(t, res.Message)
	texts := make([]string, 0, len(res.Suggestions))
	for _, s := range res.Suggestions {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"数据分析工具", "数据报告.pdf", "数据清洗讨论"}, texts)
}

func TestSuggestionsCaseSensitivePerSource(t *testing.T) {
	tools := &fakeToolRepo{}
	var batch []model.Tool
	for i := 0; i < 10; i++ {
		batch = append(batch, model.Tool{Name: fmt.Sprintf("chat helper %d", i), Category: "对话", IsActive: true, IsPublic: true})
	}
	batch = append(batch,
		model.Tool{Name: "ChatGPT", Category: "对话", IsActive: true, IsPublic: true},
		model.Tool{Name: "Chart Maker", Category: "图表", IsActive: true, IsPublic: true},
	)
	require.NoError(t, tools.CreateBatch(batch))
	svc := NewSearchService(tools, newFakeFileRepo(), &fakeChatRepo{})

	res, err := svc.Suggestions(1, "Ch")
	require.NoError(t, err)
	texts := make([]string, 0, len(res.Suggestions))
	for _, s := range res.Suggestions {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"ChatGPT", "Chart Maker"}, texts)
	assert.Equal(t, search.PerSourceSuggests, tools.prefixLimit)
}
