package constants

import "time"

// Context keys set by the auth middleware.
const (
	ContextKeyUser   = "current_user"
	ContextKeyUserID = "user_id"
)

// Credential parameters.
const BcryptCost = 10

// One-time password verification.
const (
	OTPTTL         = 5 * time.Minute
	MaxOTPAttempts = 5
)

// Password reset tokens.
const (
	ResetTokenBytes = 32
	ResetTokenTTL   = 15 * time.Minute
)

// Session tokens.
const SessionTokenTTL = time.Hour
