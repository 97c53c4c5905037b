package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-auth-dashboard/internal/domain"
	"github.com/go-auth-dashboard/internal/pkg/password"
	"github.com/go-auth-dashboard/internal/ratelimit"
)

const (
	loginLimit  = 5
	loginWindow = 15 * time.Minute
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token     string
	Principal domain.Principal
}

// Service is the session authority: it turns credentials into a signed
// principal and re-encodes claims when the underlying user record changes.
type Service interface {
	Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResult, error)
	RefreshClaims(ctx context.Context, userID string) (*LoginResult, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenSigner interface {
	Sign(principal domain.Principal) (string, error)
}

type limiter interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error)
}

type service struct {
	users   userStore
	signer  tokenSigner
	limiter limiter
}

type ServiceDeps struct {
	UserRepo userStore
	Signer   tokenSigner
	Limiter  limiter
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:   deps.UserRepo,
		signer:  deps.Signer,
		limiter: deps.Limiter,
	}
}

// Login throttles by client IP, then checks credentials. Unknown email and
// wrong password produce the same generic failure so account existence cannot
// be probed. The throttle check runs first: a blocked caller learns nothing
// about credential correctness.
func (s *service) Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResult, error) {
	res, err := s.limiter.Check(ctx, "login:"+clientIP, loginLimit, loginWindow)
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		return nil, fmt.Errorf("too many login attempts, try again later: %w", domain.ErrThrottled)
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	return s.mint(u)
}

// RefreshClaims re-reads the user and signs a fresh token, so an out-of-band
// change (email verification) reaches the session without re-login.
func (s *service) RefreshClaims(ctx context.Context, userID string) (*LoginResult, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.mint(u)
}

func (s *service) mint(u *domain.User) (*LoginResult, error) {
	principal := domain.Principal{
		UserID:        u.UserID,
		Email:         u.Email,
		EmailVerified: u.IsVerified(),
	}
	tok, err := s.signer.Sign(principal)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, Principal: principal}, nil
}
