package dto

// KeyVerifyResponse describes the resolved API key.
type KeyVerifyResponse struct {
	Status string `json:"status"`
	Plan   string `json:"plan"`
	Email  string `json:"email,omitempty"`
}
