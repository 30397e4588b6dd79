package handler

import (
	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/response"
)

// ChatHandler 负责处理聊天会话和消息的 REST 请求。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateSession 创建新的聊天会话。
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req service.CreateSessionInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	session, err := h.chatService.CreateSession(currentUser(c).ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "会话创建成功", session)
}

// ListSessions 返回当前用户的活跃会话，最近更新的在前。
func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := h.chatService.ListSessions(currentUser(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取会话列表成功", sessions)
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	session, err := h.chatService.GetSession(currentUser(c).ID, c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取会话成功", session)
}

// DeleteSession 软删除会话。
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	if err := h.chatService.DeleteSession(currentUser(c).ID, c.Param("sessionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "会话删除成功", nil)
}

// ListMessages 按时间顺序返回会话消息。
func (h *ChatHandler) ListMessages(c *gin.Context) {
	messages, err := h.chatService.ListMessages(currentUser(c).ID, c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取消息成功", messages)
}

// SendMessageRequest 定义了发送消息 API 的请求体结构。
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

// SendMessage 发送一条消息并返回助手回复。
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	exchange, err := h.chatService.SendMessage(c.Request.Context(), currentUser(c).ID, c.Param("sessionId"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "消息发送成功", exchange)
}

// ClearMessages 清空会话中的所有消息，会话本身保留。
func (h *ChatHandler) ClearMessages(c *gin.Context) {
	if err := h.chatService.ClearMessages(currentUser(c).ID, c.Param("sessionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "消息已清空", nil)
}

// Models 返回可选的对话模型。
func (h *ChatHandler) Models(c *gin.Context) {
	response.OK(c, "获取模型列表成功", service.AvailableModels())
}
