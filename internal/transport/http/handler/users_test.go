package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-auth-dashboard/internal/application/account"
	"github.com/go-auth-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAccountService struct{ mock.Mock }

func (m *mockAccountService) Register(ctx context.Context, req domain.CreateUserRequest) (*account.RegisterResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*account.RegisterResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountService) ResendVerification(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
func (m *mockAccountService) VerifyEmail(ctx context.Context, token string) (*account.VerifyResult, error) {
	args := m.Called(ctx, token)
	if r, _ := args.Get(0).(*account.VerifyResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockAccountService) ResetPassword(ctx context.Context, req account.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func TestRegister_Created(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("Register", mock.Anything, domain.CreateUserRequest{
		Email: "alice@example.com", Password: "password123",
	}).Return(&account.RegisterResult{
		User:      &domain.User{UserID: "u1", Email: "alice@example.com"},
		EmailSent: true,
	}, nil)

	body := `{"email":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
	rec := httptest.NewRecorder()

	NewUserHandler(svc).Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"u1"`)
	assert.Contains(t, rec.Body.String(), `"email_sent":true`)
	svc.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("Register", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("email already registered: %w", domain.ErrConflict))

	body := `{"email":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
	rec := httptest.NewRecorder()

	NewUserHandler(svc).Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := &mockAccountService{}

	body := `{"email":"alice@example.com","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
	rec := httptest.NewRecorder()

	NewUserHandler(svc).Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_MalformedBody(t *testing.T) {
	svc := &mockAccountService{}

	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	NewUserHandler(svc).Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPasswordResetRequest_AlwaysGenericMessage(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("RequestPasswordReset", mock.Anything, "ghost@example.com").Return(nil)

	body := `{"email":"ghost@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/password-reset/request", strings.NewReader(body))
	rec := httptest.NewRecorder()

	NewPasswordResetHandler(svc).Request(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), account.ResetRequestMessage)
}

func TestPasswordResetRequest_Throttled(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("RequestPasswordReset", mock.Anything, "alice@example.com").
		Return(fmt.Errorf("too many reset requests: %w", domain.ErrThrottled))

	body := `{"email":"alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/password-reset/request", strings.NewReader(body))
	rec := httptest.NewRecorder()

	NewPasswordResetHandler(svc).Request(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestVerifyEmail_Expired(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("VerifyEmail", mock.Anything, "tok").
		Return(nil, fmt.Errorf("verification token has expired: %w", domain.ErrExpired))

	req := httptest.NewRequest(http.MethodGet, "/v1/verify-email?token=tok", nil)
	rec := httptest.NewRecorder()

	NewEmailVerifyHandler(svc).Verify(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyEmail_AlreadyVerified(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("VerifyEmail", mock.Anything, "tok").
		Return(&account.VerifyResult{AlreadyVerified: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/verify-email?token=tok", nil)
	rec := httptest.NewRecorder()

	NewEmailVerifyHandler(svc).Verify(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "already verified")
}
