// Package events 定义了通过 Kafka 传递的消息结构。
package events

import "time"

// ActivityEvent 表示一条待落库的用户活动。
type ActivityEvent struct {
	EventID      string    `json:"event_id"`
	UserID       uint      `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	ActivityData string    `json:"activity_data,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
