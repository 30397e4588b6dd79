package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-portal-go/internal/model"
	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/apperr"
)

type stubChatService struct {
	service.ChatService
}

func (stubChatService) SendMessage(_ context.Context, _ uint, sessionID, content string) (*service.Exchange, error) {
	if sessionID != "s-1" {
		return nil, apperr.NotFound("会话不存在")
	}
	return &service.Exchange{
		UserMessage: &model.ChatMessage{Role: "user", Content: content},
		AIMessage:   &model.ChatMessage{Role: "assistant", Content: "reply"},
	}, nil
}

func newSocketServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatSocketHandler(stubChatService{}, &stubUserService{})
	r.GET("/chat/ws/:token", h.Handle)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestChatSocket(t *testing.T) {
	srv := newSocketServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws/good"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"session_id":"s-1","content":"你好"}`)))
	msg := readFrame(t, conn)
	assert.Equal(t, "message", msg["type"])
	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "你好", data["user_message"].(map[string]interface{})["content"])
	assert.Equal(t, "reply", data["ai_message"].(map[string]interface{})["content"])

	done := readFrame(t, conn)
	assert.Equal(t, "completion", done["type"])
	assert.Equal(t, "finished", done["status"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"session_id":"other","content":"hi"}`)))
	errFrame := readFrame(t, conn)
	assert.Equal(t, "error", errFrame["type"])
	assert.Equal(t, "会话不存在", errFrame["message"])
	assert.Equal(t, "completion", readFrame(t, conn)["type"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	assert.Equal(t, "error", readFrame(t, conn)["type"])
	assert.Equal(t, "completion", readFrame(t, conn)["type"])
}

func TestChatSocketRejectsBadToken(t *testing.T) {
	srv := newSocketServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws/bad"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
