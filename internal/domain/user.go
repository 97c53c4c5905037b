package domain

import "time"

type User struct {
	UserID                  string     `json:"id" dynamodbav:"user_id"`
	Email                   string     `json:"email" dynamodbav:"email"`
	PasswordHash            string     `json:"-" dynamodbav:"password_hash"`
	EmailVerified           *time.Time `json:"email_verified,omitempty" dynamodbav:"email_verified,omitempty"`
	VerificationToken       *string    `json:"-" dynamodbav:"verification_token,omitempty"`
	VerificationTokenExpiry *time.Time `json:"-" dynamodbav:"verification_token_expiry,omitempty"`
	ResetToken              *string    `json:"-" dynamodbav:"reset_token,omitempty"`
	ResetTokenExpiry        *time.Time `json:"-" dynamodbav:"reset_token_expiry,omitempty"`
	CreatedAt               time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt               time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// IsVerified reports whether the email address has been confirmed.
func (u *User) IsVerified() bool { return u.EmailVerified != nil }

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}
