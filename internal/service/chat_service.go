package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ai-portal-go/internal/model"
	"ai-portal-go/internal/repository"
	"ai-portal-go/pkg/apperr"
	"ai-portal-go/pkg/log"
)

const (
	defaultSessionTitle = "新会话"
	defaultModelType    = "gpt-3.5-turbo"
)

// ChatModel 是可选的对话模型。
type ChatModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AvailableModels 返回支持的对话模型目录。
func AvailableModels() []ChatModel {
	return []ChatModel{
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "快速高效的通用模型"},
		{ID: "gpt-4", Name: "GPT-4", Description: "更强大的推理能力"},
		{ID: "claude-3-sonnet", Name: "Claude 3 Sonnet", Description: "平衡性能和成本"},
		{ID: "claude-3-opus", Name: "Claude 3 Opus", Description: "顶级推理能力"},
	}
}

// Replier 为用户消息生成助手回复。
type Replier interface {
	Reply(ctx context.Context, session *model.ChatSession, content string) (string, error)
}

// StubReplier 返回固定格式的回复，尚未接入真实模型。
type StubReplier struct{}

func (StubReplier) Reply(_ context.Context, _ *model.ChatSession, content string) (string, error) {
	return fmt.Sprintf("这是AI助手对您的消息 '%s' 的回复。", content), nil
}

// CreateSessionInput 是创建会话的参数。
type CreateSessionInput struct {
	Title     string `json:"title" binding:"max=200"`
	ModelType string `json:"model_type" binding:"max=50"`
}

// Exchange 是一次发送产生的用户消息和助手回复。
type Exchange struct {
	UserMessage *model.ChatMessage `json:"user_message"`
	AIMessage   *model.ChatMessage `json:"ai_message"`
}

// ChatService 接口定义了聊天会话和消息的业务操作。
type ChatService interface {
	CreateSession(userID uint, in CreateSessionInput) (*model.ChatSession, error)
	ListSessions(userID uint) ([]model.ChatSession, error)
	GetSession(userID uint, sessionID string) (*model.ChatSession, error)
	DeleteSession(userID uint, sessionID string) error
	ListMessages(userID uint, sessionID string) ([]model.ChatMessage, error)
	SendMessage(ctx context.Context, userID uint, sessionID, content string) (*Exchange, error)
	ClearMessages(userID uint, sessionID string) error
}

type chatService struct {
	chatRepo repository.ChatRepository
	replier  Replier
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(chatRepo repository.ChatRepository, replier Replier) ChatService {
	return &chatService{chatRepo: chatRepo, replier: replier}
}

func (s *chatService) CreateSession(userID uint, in CreateSessionInput) (*model.ChatSession, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = defaultSessionTitle
	}
	modelType := in.ModelType
	if modelType == "" {
		modelType = defaultModelType
	}

	session := &model.ChatSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Title:     title,
		ModelType: modelType,
		IsActive:  true,
	}
	if err := s.chatRepo.CreateSession(session); err != nil {
		return nil, fmt.Errorf("创建会话失败: %w", err)
	}
	log.Infof("[ChatService] 创建会话成功, user: %d, session: %s", userID, session.SessionID)
	return session, nil
}

func (s *chatService) ListSessions(userID uint) ([]model.ChatSession, error) {
	return s.chatRepo.ListSessions(userID)
}

func (s *chatService) GetSession(userID uint, sessionID string) (*model.ChatSession, error) {
	session, err := s.chatRepo.FindSession(sessionID, userID)
	if err != nil {
		return nil, notFound(err, "会话不存在")
	}
	return session, nil
}

// DeleteSession 软删除会话，消息保留。
func (s *chatService) DeleteSession(userID uint, sessionID string) error {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return err
	}
	return s.chatRepo.DeactivateSession(session.ID)
}

func (s *chatService) ListMessages(userID uint, sessionID string) ([]model.ChatMessage, error) {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.chatRepo.ListMessages(session.ID)
}

// SendMessage 保存用户消息和助手回复，并刷新会话的更新时间。
func (s *chatService) SendMessage(ctx context.Context, userID uint, sessionID, content string) (*Exchange, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("消息内容不能为空")
	}
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	reply, err := s.replier.Reply(ctx, session, content)
	if err != nil {
		return nil, fmt.Errorf("生成回复失败: %w", err)
	}

	userMsg := &model.ChatMessage{Role: model.ChatRoleUser, Content: content}
	aiMsg := &model.ChatMessage{Role: model.ChatRoleAssistant, Content: reply}
	if err := s.chatRepo.AppendMessages(session.ID, userMsg, aiMsg); err != nil {
		return nil, fmt.Errorf("保存消息失败: %w", err)
	}
	return &Exchange{UserMessage: userMsg, AIMessage: aiMsg}, nil
}

func (s *chatService) ClearMessages(userID uint, sessionID string) error {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return err
	}
	return s.chatRepo.ClearMessages(session.ID)
}
