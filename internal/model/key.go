package model

import "time"

// Key statuses.
const (
	KeyStatusActive   = "active"
	KeyStatusInactive = "inactive"
)

// KeyRecord is a durable API credential. Only the SHA-256 hash of the secret
// token is ever stored; the plaintext secret exists only in the signup email.
type KeyRecord struct {
	TokenHash            string    `db:"token_hash" json:"-"`
	Plan                 string    `db:"plan" json:"plan"`
	Status               string    `db:"status" json:"status"`
	Email                string    `db:"email" json:"email,omitempty"`
	StripeCustomerID     string    `db:"stripe_customer_id" json:"-"`
	StripeSubscriptionID string    `db:"stripe_subscription_id" json:"-"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
