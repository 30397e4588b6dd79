package search

import (
	"strings"
	"unicode/utf8"

	"ai-portal-go/pkg/apperr"
)

const (
	MinSuggestPrefix  = 2
	MaxSuggestPrefix  = 50
	PerSourceSuggests = 5
	MaxSuggestions    = 10
)

// SuggestHint 是前缀过短时返回给调用方的提示。
const SuggestHint = "输入至少2个字符获取建议"

// Suggestion 是一条搜索建议。
type Suggestion struct {
	Type     ItemType `json:"type"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
}

// SuggestionSource 是某类实体的候选文本。
type SuggestionSource struct {
	Type       ItemType
	Category   string
	Candidates []string
}

// ToolSuggestions、FileSuggestions、ChatSuggestions 构造各类实体的建议来源。
func ToolSuggestions(names []string) SuggestionSource {
	return SuggestionSource{Type: TypeTool, Category: "工具", Candidates: names}
}

func FileSuggestions(names []string) SuggestionSource {
	return SuggestionSource{Type: TypeFile, Category: "文件", Candidates: names}
}

func ChatSuggestions(titles []string) SuggestionSource {
	return SuggestionSource{Type: TypeChat, Category: "聊天记录", Candidates: titles}
}

// CheckPrefix 校验建议前缀。返回 false 表示前缀过短，调用方应直接返回空列表和 SuggestHint。
func CheckPrefix(prefix string) (bool, error) {
	n := utf8.RuneCountInString(prefix)
	if n < 1 || n > MaxSuggestPrefix {
		return false, apperr.Validation("关键词长度必须在1-%d之间", MaxSuggestPrefix)
	}
	return n >= MinSuggestPrefix, nil
}

// Suggest 对各来源做区分大小写的前缀匹配，每个来源最多 5 条，合计最多 10 条。
// 前缀过短时返回空列表和 SuggestHint。
func Suggest(prefix string, sources ...SuggestionSource) ([]Suggestion, string, error) {
	ok, err := CheckPrefix(prefix)
	if err != nil {
		return nil, "", err
	}
	suggestions := make([]Suggestion, 0)
	if !ok {
		return suggestions, SuggestHint, nil
	}

	for _, src := range sources {
		n := 0
		for _, text := range src.Candidates {
			if n == PerSourceSuggests {
				break
			}
			if !strings.HasPrefix(text, prefix) {
				continue
			}
			suggestions = append(suggestions, Suggestion{Type: src.Type, Text: text, Category: src.Category})
			n++
		}
	}

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions, "", nil
}
