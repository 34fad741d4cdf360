package model

import "time"

// AlertSubscription links an API key to an email and/or Telegram chat for
// signal change notifications. Subscriptions are additive only.
type AlertSubscription struct {
	ID             int64     `db:"id" json:"id"`
	KeyHash        string    `db:"key_hash" json:"-"`
	Email          *string   `db:"email" json:"email,omitempty"`
	TelegramChatID *string   `db:"telegram_chat_id" json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
