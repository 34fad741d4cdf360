package dto

// AlertSubscribeRequest registers an alert target. At least one of the two
// fields must be present.
type AlertSubscribeRequest struct {
	Email          string `json:"email" validate:"omitempty,email"`
	TelegramChatID string `json:"telegramChatId" validate:"omitempty"`
}
