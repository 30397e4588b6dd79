package service

import (
	"ai-portal-go/internal/repository"
	"ai-portal-go/internal/search"
	"ai-portal-go/pkg/log"
)

// SuggestResult 是搜索建议及可选提示。
type SuggestResult struct {
	Suggestions []search.Suggestion `json:"suggestions"`
	Message     string              `json:"message,omitempty"`
}

// SearchService 接口定义了全局搜索操作。
type SearchService interface {
	Search(userID uint, req search.Request) (*search.Response, error)
	Suggestions(userID uint, prefix string) (*SuggestResult, error)
}

type searchService struct {
	toolRepo repository.ToolRepository
	fileRepo repository.FileRepository
	chatRepo repository.ChatRepository
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(toolRepo repository.ToolRepository, fileRepo repository.FileRepository, chatRepo repository.ChatRepository) SearchService {
	return &searchService{toolRepo: toolRepo, fileRepo: fileRepo, chatRepo: chatRepo}
}

// Search 按范围从各数据源取回候选记录，交给 search 包打分合并。
// 工具只取公开且启用的，文件和聊天只取当前用户自己的。
func (s *searchService) Search(userID uint, req search.Request) (*search.Response, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	var groups []search.Group

	if n := req.Scope.SubLimit(search.CategoryTools, req.Limit); n > 0 {
		tools, err := s.toolRepo.SearchPublic(req.Query, n)
		if err != nil {
			return nil, err
		}
		items := make([]search.Item, 0, len(tools))
		for _, t := range tools {
			items = append(items, search.ToolItem(search.ToolRecord{
				ID:          t.ID,
				Name:        t.Name,
				Description: t.Description,
				Category:    t.Category,
				UsageCount:  t.UsageCount,
				CreatedAt:   t.CreatedAt,
			}))
		}
		groups = append(groups, search.Group{Category: search.CategoryTools, Items: items})
	}

	if n := req.Scope.SubLimit(search.CategoryFiles, req.Limit); n > 0 {
		files, err := s.fileRepo.SearchByUser(userID, req.Query, n)
		if err != nil {
			return nil, err
		}
		items := make([]search.Item, 0, len(files))
		for _, f := range files {
			items = append(items, search.FileItem(search.FileRecord{
				ID:            f.ID,
				OriginalName:  f.OriginalName,
				FileType:      f.FileType,
				FileSize:      f.FileSize,
				DownloadCount: f.DownloadCount,
				CreatedAt:     f.CreatedAt,
			}))
		}
		groups = append(groups, search.Group{Category: search.CategoryFiles, Items: items})
	}

	if n := req.Scope.SubLimit(search.CategorySessions, req.Limit); n > 0 {
		sessions, err := s.chatRepo.SearchSessions(userID, req.Query, n)
		if err != nil {
			return nil, err
		}
		items := make([]search.Item, 0, len(sessions))
		for _, cs := range sessions {
			items = append(items, search.SessionItem(search.SessionRecord{
				SessionID: cs.SessionID,
				Title:     cs.Title,
				ModelType: cs.ModelType,
				CreatedAt: cs.CreatedAt,
				UpdatedAt: cs.UpdatedAt,
			}))
		}
		groups = append(groups, search.Group{Category: search.CategorySessions, Items: items})
	}

	if n := req.Scope.SubLimit(search.CategoryMessages, req.Limit); n > 0 {
		hits, err := s.chatRepo.SearchMessages(userID, req.Query, n)
		if err != nil {
			return nil, err
		}
		items := make([]search.Item, 0, len(hits))
		for _, h := range hits {
			items = append(items, search.MessageItem(search.MessageRecord{
				SessionID:    h.SessionID,
				SessionTitle: h.SessionTitle,
				Role:         h.Role,
				Content:      h.Content,
				CreatedAt:    h.CreatedAt,
			}))
		}
		groups = append(groups, search.Group{Category: search.CategoryMessages, Items: items})
	}

	resp := search.Search(req, groups...)
	log.Infof("[SearchService] 搜索完成, user: %d, query: '%s', scope: %s, total: %d", userID, req.Query, req.Scope, resp.Total)
	return &resp, nil
}

// Suggestions 返回工具名、文件名和会话标题中以 prefix 开头的建议。
func (s *searchService) Suggestions(userID uint, prefix string) (*SuggestResult, error) {
	ok, err := search.CheckPrefix(prefix)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &SuggestResult{Suggestions: []search.Suggestion{}, Message: search.SuggestHint}, nil
	}

	tools, err := s.toolRepo.NamesWithPrefix(prefix, search.PerSourceSuggests)
	if err != nil {
		return nil, err
	}
	files, err := s.fileRepo.NamesWithPrefix(userID, prefix, search.PerSourceSuggests)
	if err != nil {
		return nil, err
	}
	titles, err := s.chatRepo.TitlesWithPrefix(userID, prefix, search.PerSourceSuggests)
	if err != nil {
		return nil, err
	}

	suggestions, hint, err := search.Suggest(prefix,
		search.ToolSuggestions(tools),
		search.FileSuggestions(files),
		search.ChatSuggestions(titles),
	)
	if err != nil {
		return nil, err
	}
	return &SuggestResult{Suggestions: suggestions, Message: hint}, nil
}
