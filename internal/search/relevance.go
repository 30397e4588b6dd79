// Package search 实现了全局搜索的相关性打分、结果合并与搜索建议。
//
// 包内函数都是纯函数：调用方负责按访问权限取回候选记录，
// 这里只做打分、排序和截断，不持有任何状态。
package search

import (
	"strings"
)

const (
	exactScore     = 1.0
	prefixScore    = 0.8
	substringScore = 0.6
	wordScore      = 0.4
	maxScore       = 1.0
)

// Relevance 计算查询词与若干字段的相关性分数，结果位于 [0, 1]。
// 每个字段按 完全匹配 > 前缀匹配 > 包含匹配 > 单词重叠 取一档累加，空字段不计分。
func Relevance(query string, fields ...string) float64 {
	q := strings.ToLower(query)
	total := 0.0

	for _, field := range fields {
		if field == "" {
			continue
		}
		text := strings.ToLower(field)

		switch {
		case text == q:
			total += exactScore
		case strings.HasPrefix(text, q):
			total += prefixScore
		case strings.Contains(text, q):
			total += substringScore
		default:
			total += wordOverlap(q, text)
		}
	}

	if total > maxScore {
		return maxScore
	}
	return total
}

// wordOverlap 返回查询词中出现在字段单词集合里的比例乘以单词权重。
func wordOverlap(query, text string) float64 {
	queryWords := strings.Fields(query)
	if len(queryWords) == 0 {
		return 0
	}
	textWords := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		textWords[w] = struct{}{}
	}

	matching := 0
	for _, w := range queryWords {
		if _, ok := textWords[w]; ok {
			matching++
		}
	}
	if matching == 0 {
		return 0
	}
	return float64(matching) / float64(len(queryWords)) * wordScore
}
