package search

import (
	"sort"
	"unicode/utf8"

	"ai-portal-go/pkg/apperr"
)

const (
	MaxQueryLength = 200
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Scope 限定搜索的实体范围。
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeTools Scope = "tools"
	ScopeFiles Scope = "files"
	ScopeChats Scope = "chats"
)

// Category 是合并阶段单独限额的候选分组。
type Category int

const (
	CategoryTools Category = iota
	CategoryFiles
	CategorySessions
	CategoryMessages
)

// allScopeDivisor 是 all 范围下每个分组占总限额的分母。
var allScopeDivisor = map[Category]int{
	CategoryTools:    2,
	CategoryFiles:    3,
	CategorySessions: 4,
	CategoryMessages: 4,
}

// Includes 判断该范围是否需要检索给定分组。
func (s Scope) Includes(c Category) bool {
	switch s {
	case ScopeAll:
		return true
	case ScopeTools:
		return c == CategoryTools
	case ScopeFiles:
		return c == CategoryFiles
	case ScopeChats:
		return c == CategorySessions || c == CategoryMessages
	}
	return false
}

// SubLimit 返回分组在合并前的条数上限：all 范围按 1/2、1/3、1/4 整除，单一范围使用完整限额。
func (s Scope) SubLimit(c Category, limit int) int {
	if !s.Includes(c) {
		return 0
	}
	if s == ScopeAll {
		return limit / allScopeDivisor[c]
	}
	return limit
}

func (s Scope) valid() bool {
	switch s {
	case ScopeAll, ScopeTools, ScopeFiles, ScopeChats:
		return true
	}
	return false
}

// Request 是一次搜索的参数。
type Request struct {
	Query string
	Scope Scope
	Limit int
}

// NewRequest 返回使用默认范围和默认条数的请求。
func NewRequest(query string) Request {
	return Request{Query: query, Scope: ScopeAll, Limit: DefaultLimit}
}

// Normalize 填充默认范围并校验参数，Limit 不做默认填充，0 视为非法。
func (r *Request) Normalize() error {
	if r.Scope == "" {
		r.Scope = ScopeAll
	}

	n := utf8.RuneCountInString(r.Query)
	if n < 1 || n > MaxQueryLength {
		return apperr.Validation("搜索关键词长度必须在1-%d之间", MaxQueryLength)
	}
	if r.Limit < 1 || r.Limit > MaxLimit {
		return apperr.Validation("返回结果数量必须在1-%d之间", MaxLimit)
	}
	if !r.Scope.valid() {
		return apperr.Validation("不支持的搜索类型: %s", r.Scope)
	}
	return nil
}

// Group 是一组同类候选记录，合并前按 Category 对应的上限截断。
type Group struct {
	Category Category
	Items    []Item
}

// Response 是合并排序后的搜索结果。
type Response struct {
	Query   string   `json:"query"`
	Type    Scope    `json:"type"`
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Search 对各分组候选记录打分，按分组上限截断后合并，
// 按分数降序稳定排序并截断到总限额。Total 为截断前的合并条数。
// 调用方应先调用 req.Normalize。
func Search(req Request, groups ...Group) Response {
	results := make([]Result, 0)
	for _, g := range groups {
		items := g.Items
		if limit := req.Scope.SubLimit(g.Category, req.Limit); len(items) > limit {
			items = items[:limit]
		}
		for _, it := range items {
			results = append(results, it.toResult(req.Query))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	total := len(results)
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return Response{
		Query:   req.Query,
		Type:    req.Scope,
		Total:   total,
		Results: results,
	}
}
