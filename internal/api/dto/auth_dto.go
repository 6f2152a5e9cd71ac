package dto

import "time"

// TokenRequest exchanges the operator secret for a bearer token.
type TokenRequest struct {
	OperatorID string `json:"operator_id"`
	Secret     string `json:"secret"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
