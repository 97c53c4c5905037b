package domain

// Principal is the authenticated identity carried by a session token.
// It is derived from the User at mint time and never persisted.
type Principal struct {
	UserID        string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}
