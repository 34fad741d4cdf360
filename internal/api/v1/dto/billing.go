package dto

// CheckoutRequest starts a subscription checkout for the given email.
type CheckoutRequest struct {
	Email string `json:"email" validate:"required,email"`
}
