package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ai-portal-go/internal/model"
	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/apperr"
	"ai-portal-go/pkg/log"
	"ai-portal-go/pkg/response"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // 允许所有来源
		},
	}
)

// ChatSocketHandler 负责处理 WebSocket 聊天连接。
type ChatSocketHandler struct {
	chatService service.ChatService
	userService service.UserService
}

// NewChatSocketHandler 创建一个新的 ChatSocketHandler。
func NewChatSocketHandler(chatService service.ChatService, userService service.UserService) *ChatSocketHandler {
	return &ChatSocketHandler{chatService: chatService, userService: userService}
}

// socketRequest 是客户端发送的一帧消息。
type socketRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

func completionFrame() map[string]interface{} {
	now := time.Now()
	return map[string]interface{}{
		"type":      "completion",
		"status":    "finished",
		"message":   "响应已完成",
		"timestamp": now.UnixMilli(),
		"date":      now.Format("2006-01-02T15:04:05"),
	}
}

func writeFrame(conn *websocket.Conn, frame interface{}) error {
	b, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, b)
}

// Handle 处理一个传入的 WebSocket 连接，token 通过路径参数传入。
func (h *ChatSocketHandler) Handle(c *gin.Context) {
	user, _, err := h.userService.Authenticate(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立，用户: %s", user.Username)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("从 WebSocket 读取消息失败: %v", err)
			}
			break
		}
		if err := h.reply(c, conn, user, message); err != nil {
			log.Warnf("向 WebSocket 写入消息失败: %v", err)
			break
		}
	}
	log.Infof("WebSocket 连接已关闭，用户: %s", user.Username)
}

// reply 处理一帧消息。业务错误以 error 帧返回，连接保持；只有写失败才返回 error。
func (h *ChatSocketHandler) reply(c *gin.Context, conn *websocket.Conn, user *model.User, message []byte) error {
	var req socketRequest
	if err := json.Unmarshal(message, &req); err != nil || req.SessionID == "" {
		if err := writeFrame(conn, map[string]interface{}{"type": "error", "message": "消息格式错误，需要 session_id 和 content"}); err != nil {
			return err
		}
		return writeFrame(conn, completionFrame())
	}

	exchange, err := h.chatService.SendMessage(c.Request.Context(), user.ID, req.SessionID, req.Content)
	if err != nil {
		msg := err.Error()
		if response.StatusOf(err) == http.StatusInternalServerError {
			log.Errorf("处理聊天消息失败: %v", err)
			msg = "AI服务暂时不可用，请稍后重试"
		} else if !apperr.IsValidation(err) {
			log.Warnf("聊天消息被拒绝: user=%d, error: %v", user.ID, err)
		}
		if err := writeFrame(conn, map[string]interface{}{"type": "error", "message": msg}); err != nil {
			return err
		}
		return writeFrame(conn, completionFrame())
	}

	if err := writeFrame(conn, map[string]interface{}{"type": "message", "data": exchange}); err != nil {
		return err
	}
	return writeFrame(conn, completionFrame())
}
