package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-auth-dashboard/internal/domain"
	"github.com/go-auth-dashboard/internal/pkg/id"
	"github.com/go-auth-dashboard/internal/pkg/password"
	pkgtoken "github.com/go-auth-dashboard/internal/pkg/token"
	"github.com/go-auth-dashboard/internal/ratelimit"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour // shorter window — higher-risk operation

	resendLimit  = 1
	resendWindow = time.Minute

	resetRequestLimit  = 3
	resetRequestWindow = time.Hour
)

// ResetRequestMessage is returned for every reset request, whether or not the
// account exists, to prevent email enumeration.
const ResetRequestMessage = "If an account exists, a reset link has been sent."

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// RegisterResult reports the created user and whether the verification email
// went out. A failed send does not fail registration.
type RegisterResult struct {
	User      *domain.User
	EmailSent bool
}

type VerifyResult struct {
	AlreadyVerified bool
}

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*RegisterResult, error)
	ResendVerification(ctx context.Context, userID string) (alreadyVerified bool, err error)
	VerifyEmail(ctx context.Context, token string) (*VerifyResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	SetVerificationToken(ctx context.Context, userID, token string, expiry time.Time) error
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	ConsumeVerificationToken(ctx context.Context, userID, token string, verifiedAt time.Time) error
	ConsumeResetToken(ctx context.Context, userID, token, newPasswordHash string) error
}

type limiter interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error)
}

type mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type service struct {
	users   userStore
	limiter limiter
	mailer  mailer
	baseURL string
}

type ServiceDeps struct {
	UserRepo userStore
	Limiter  limiter
	Mailer   mailer
	BaseURL  string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:   deps.UserRepo,
		limiter: deps.Limiter,
		mailer:  deps.Mailer,
		baseURL: deps.BaseURL,
	}
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*RegisterResult, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	tok, err := pkgtoken.New()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiry := now.Add(verificationTokenTTL)
	u := &domain.User{
		UserID:                  id.New(),
		Email:                   req.Email,
		PasswordHash:            hash,
		VerificationToken:       &tok,
		VerificationTokenExpiry: &expiry,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}

	emailSent := true
	if err := s.mailer.SendEmail(u.Email, "Verify your email address", verificationEmailHTML(s.verifyLink(tok), u.Email)); err != nil {
		slog.Warn("verification email not sent, user can request a resend", "user_id", u.UserID, "err", err)
		emailSent = false
	}
	return &RegisterResult{User: u, EmailSent: emailSent}, nil
}

func (s *service) ResendVerification(ctx context.Context, userID string) (bool, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if u.IsVerified() {
		return true, nil
	}

	res, err := s.limiter.Check(ctx, "send-verification:"+u.Email, resendLimit, resendWindow)
	if err != nil {
		return false, err
	}
	if !res.Allowed {
		return false, fmt.Errorf("please wait before requesting another verification email: %w", domain.ErrThrottled)
	}

	tok, err := pkgtoken.New()
	if err != nil {
		return false, err
	}
	if err := s.users.SetVerificationToken(ctx, u.UserID, tok, time.Now().UTC().Add(verificationTokenTTL)); err != nil {
		return false, err
	}
	if err := s.mailer.SendEmail(u.Email, "Verify your email address", verificationEmailHTML(s.verifyLink(tok), u.Email)); err != nil {
		return false, fmt.Errorf("send verification email: %w", err)
	}
	return false, nil
}

func (s *service) VerifyEmail(ctx context.Context, tok string) (*VerifyResult, error) {
	if tok == "" {
		return nil, fmt.Errorf("verification token is required: %w", domain.ErrBadRequest)
	}
	u, err := s.users.GetByVerificationToken(ctx, tok)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid verification token: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if u.IsVerified() {
		return &VerifyResult{AlreadyVerified: true}, nil
	}

	now := time.Now().UTC()
	if u.VerificationTokenExpiry != nil && now.After(*u.VerificationTokenExpiry) {
		// Expired tokens stay in place; they are replaced on reissue.
		return nil, fmt.Errorf("verification token has expired, request a new one: %w", domain.ErrExpired)
	}

	// Conditional on the stored token still matching: a concurrent consumer
	// that lost the race gets ErrNotFound here.
	if err := s.users.ConsumeVerificationToken(ctx, u.UserID, tok, now); err != nil {
		return nil, err
	}
	return &VerifyResult{}, nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	res, err := s.limiter.Check(ctx, "forgot-password:"+email, resetRequestLimit, resetRequestWindow)
	if err != nil {
		return err
	}
	if !res.Allowed {
		return fmt.Errorf("too many reset requests, try again in an hour: %w", domain.ErrThrottled)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No token, no error: the caller answers with the generic message
			// either way so account existence stays hidden.
			return nil
		}
		return err
	}

	tok, err := pkgtoken.New()
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, u.UserID, tok, time.Now().UTC().Add(resetTokenTTL)); err != nil {
		return err
	}
	return s.mailer.SendEmail(u.Email, "Reset your password", resetEmailHTML(s.resetLink(tok)))
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	u, err := s.users.GetByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("invalid reset token: %w", domain.ErrNotFound)
		}
		return err
	}
	if u.ResetTokenExpiry != nil && time.Now().UTC().After(*u.ResetTokenExpiry) {
		return fmt.Errorf("reset token has expired, request a new one: %w", domain.ErrExpired)
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	// Token clearing and digest swap are one write; a consumed token can never
	// leave the old password behind.
	return s.users.ConsumeResetToken(ctx, u.UserID, req.Token, hash)
}

func (s *service) verifyLink(tok string) string {
	return s.baseURL + "/auth/verify-email?token=" + tok
}

func (s *service) resetLink(tok string) string {
	return s.baseURL + "/auth/reset-password?token=" + tok
}
