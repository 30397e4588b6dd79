package repository

import (
	"time"

	"gorm.io/gorm"

	"ai-portal-go/internal/model"
)

// MessageHit 是消息搜索命中的一行，会话信息来自联表。
type MessageHit struct {
	SessionID    string
	SessionTitle string
	Role         string
	Content      string
	CreatedAt    time.Time
}

// ChatRepository 接口定义了聊天会话和消息的持久化操作。
type ChatRepository interface {
	CreateSession(session *model.ChatSession) error
	FindSession(sessionID string, userID uint) (*model.ChatSession, error)
	ListSessions(userID uint) ([]model.ChatSession, error)
	DeactivateSession(id uint) error
	ListMessages(sessionPK uint) ([]model.ChatMessage, error)
	ClearMessages(sessionPK uint) error
	AppendMessages(sessionPK uint, messages ...*model.ChatMessage) error
	SearchSessions(userID uint, q string, limit int) ([]model.ChatSession, error)
	SearchMessages(userID uint, q string, limit int) ([]MessageHit, error)
	TitlesWithPrefix(userID uint, prefix string, limit int) ([]string, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建一个新的 ChatRepository 实例。
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateSession(session *model.ChatSession) error {
	return r.db.Create(session).Error
}

// FindSession 查找属于该用户且仍处于活跃状态的会话。
func (r *chatRepository) FindSession(sessionID string, userID uint) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.Where("session_id = ? AND user_id = ? AND is_active = ?", sessionID, userID, true).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *chatRepository) ListSessions(userID uint) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").Find(&sessions).Error
	return sessions, err
}

// DeactivateSession 软删除会话。
func (r *chatRepository) DeactivateSession(id uint) error {
	return r.db.Model(&model.ChatSession{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *chatRepository) ListMessages(sessionPK uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.Where("session_id = ?", sessionPK).Order("created_at, id").Find(&messages).Error
	return messages, err
}

func (r *chatRepository) ClearMessages(sessionPK uint) error {
	return r.db.Where("session_id = ?", sessionPK).Delete(&model.ChatMessage{}).Error
}

// AppendMessages 在同一事务中写入消息并刷新会话的 updated_at。
func (r *chatRepository) AppendMessages(sessionPK uint, messages ...*model.ChatMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range messages {
			m.SessionID = sessionPK
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.ChatSession{}).Where("id = ?", sessionPK).
			Update("updated_at", time.Now()).Error
	})
}

func (r *chatRepository) SearchSessions(userID uint, q string, limit int) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	err := r.db.Where("user_id = ? AND is_active = ? AND title LIKE ?", userID, true, containsPattern(q)).
		Order("id").Limit(limit).Find(&sessions).Error
	return sessions, err
}

// SearchMessages 在用户活跃会话的消息中模糊匹配内容。
func (r *chatRepository) SearchMessages(userID uint, q string, limit int) ([]MessageHit, error) {
	var hits []MessageHit
	err := r.db.Table("chat_messages").
		Select("chat_sessions.session_id, chat_sessions.title AS session_title, chat_messages.role, chat_messages.content, chat_messages.created_at").
		Joins("JOIN chat_sessions ON chat_sessions.id = chat_messages.session_id").
		Where("chat_sessions.user_id = ? AND chat_sessions.is_active = ?", userID, true).
		Where("chat_messages.content LIKE ?", containsPattern(q)).
		Order("chat_messages.id").Limit(limit).Scan(&hits).Error
	return hits, err
}

// TitlesWithPrefix 按区分大小写的前缀匹配返回会话标题。
func (r *chatRepository) TitlesWithPrefix(userID uint, prefix string, limit int) ([]string, error) {
	var titles []string
	err := r.db.Model(&model.ChatSession{}).
		Where("user_id = ? AND is_active = ? AND title LIKE BINARY ?", userID, true, prefixPattern(prefix)).
		Order("id").Limit(limit).Pluck("title", &titles).Error
	return titles, err
}
