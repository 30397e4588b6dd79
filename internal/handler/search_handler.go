package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/search"
	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/response"
)

// SearchHandler 负责处理全局搜索和搜索建议请求。
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search 处理全局搜索请求。
// 查询参数：q 关键词，search_type 为 all|tools|files|chats，limit 为 1-100。
func (h *SearchHandler) Search(c *gin.Context) {
	req := search.NewRequest(c.Query("q"))
	req.Scope = search.Scope(c.Query("search_type"))
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, fmt.Sprintf("返回结果数量必须在1-%d之间", search.MaxLimit))
			return
		}
		req.Limit = limit
	}

	resp, err := h.searchService.Search(currentUser(c).ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, fmt.Sprintf("搜索完成，找到 %d 个结果", resp.Total), resp)
}

// Suggestions 返回以 q 开头的搜索建议。
func (h *SearchHandler) Suggestions(c *gin.Context) {
	res, err := h.searchService.Suggestions(currentUser(c).ID, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "获取搜索建议成功"
	if res.Message != "" {
		message = res.Message
	}
	response.OK(c, message, res.Suggestions)
}
