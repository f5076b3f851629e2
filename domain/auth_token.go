package domain

import "time"

// AuthToken is the server side record of an issued access token.
type AuthToken struct {
	AccountKey string    `json:"account_key"`
	Role       Role      `json:"role"`
	Token      string    `json:"token"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
}
