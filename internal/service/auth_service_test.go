package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"loandesk/internal/config"
	"loandesk/internal/domain"
	"loandesk/internal/service"
	"loandesk/mocks"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	AccessTokenExpiry: time.Hour,
	Issuer:            "loandesk-test",
}

func newOperator(t *testing.T, role domain.UserRole, password string) *domain.Operator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.Operator{
		ID:           uuid.New(),
		Username:     "reviewer",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
}

func TestAuthService_Login_ActivatesSession(t *testing.T) {
	opRepo := new(mocks.MockOperatorRepo)
	sessions := new(mocks.MockSessionRegistry)
	svc := service.NewAuthService(opRepo, sessions, testJWTConfig, nil)
	op := newOperator(t, domain.RoleManager, "s3cret-pass")

	opRepo.On("GetByUsername", mock.Anything, "reviewer").Return(op, nil)
	sessions.On("Activate", mock.Anything, domain.RoleManager, mock.AnythingOfType("string"), time.Hour).Return("old-session", nil)

	session, err := svc.Login(context.Background(), service.LoginInput{Username: " reviewer ", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, op, session.Operator)

	claims, err := svc.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, op.ID, claims.OperatorID)
	assert.Equal(t, domain.RoleManager, claims.Role)
	assert.Equal(t, "loandesk-test", claims.Issuer)

	activatedID := sessions.Calls[0].Arguments.String(2)
	assert.Equal(t, activatedID, claims.SessionID())
	sessions.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	opRepo := new(mocks.MockOperatorRepo)
	sessions := new(mocks.MockSessionRegistry)
	svc := service.NewAuthService(opRepo, sessions, testJWTConfig, nil)
	op := newOperator(t, domain.RoleInspector, "right-password")

	opRepo.On("GetByUsername", mock.Anything, "reviewer").Return(op, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{Username: "reviewer", Password: "wrong"})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	sessions.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Verify_UnknownUser(t *testing.T) {
	opRepo := new(mocks.MockOperatorRepo)
	svc := service.NewAuthService(opRepo, nil, testJWTConfig, nil)

	opRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	_, err := svc.Verify(context.Background(), "ghost", "whatever")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Verify_InactiveOperator(t *testing.T) {
	opRepo := new(mocks.MockOperatorRepo)
	svc := service.NewAuthService(opRepo, nil, testJWTConfig, nil)
	op := newOperator(t, domain.RoleSupervisor, "s3cret-pass")
	op.IsActive = false

	opRepo.On("GetByUsername", mock.Anything, "reviewer").Return(op, nil)

	_, err := svc.Verify(context.Background(), "reviewer", "s3cret-pass")

	assert.ErrorIs(t, err, domain.ErrOperatorInactive)
}

func TestAuthService_Verify_RepoError(t *testing.T) {
	opRepo := new(mocks.MockOperatorRepo)
	svc := service.NewAuthService(opRepo, nil, testJWTConfig, nil)

	opRepo.On("GetByUsername", mock.Anything, "reviewer").Return(nil, errors.New("connection refused"))

	_, err := svc.Verify(context.Background(), "reviewer", "x")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_RegistryFailure(t *testing.T) {
	opRepo := new(mocks.MockOperatorRepo)
	sessions := new(mocks.MockSessionRegistry)
	svc := service.NewAuthService(opRepo, sessions, testJWTConfig, nil)
	op := newOperator(t, domain.RoleManager, "s3cret-pass")

	opRepo.On("GetByUsername", mock.Anything, "reviewer").Return(op, nil)
	sessions.On("Activate", mock.Anything, domain.RoleManager, mock.Anything, time.Hour).Return("", errors.New("redis down"))

	session, err := svc.Login(context.Background(), service.LoginInput{Username: "reviewer", Password: "s3cret-pass"})

	assert.Nil(t, session)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_RejectsForeignSecret(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockOperatorRepo), nil, testJWTConfig, nil)

	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Audience:  jwt.ClaimStrings{"access"},
		},
		Role: domain.RoleManager,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_RejectsWrongAudience(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockOperatorRepo), nil, testJWTConfig, nil)

	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Audience:  jwt.ClaimStrings{"refresh"},
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTConfig.Secret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_CheckSession(t *testing.T) {
	sessions := new(mocks.MockSessionRegistry)
	svc := service.NewAuthService(new(mocks.MockOperatorRepo), sessions, testJWTConfig, nil)
	claims := &service.Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "sess-1"}, Role: domain.RoleInspector}

	sessions.On("IsActive", mock.Anything, domain.RoleInspector, "sess-1").Return(false, nil).Once()
	assert.ErrorIs(t, svc.CheckSession(context.Background(), claims), domain.ErrSessionRevoked)

	sessions.On("IsActive", mock.Anything, domain.RoleInspector, "sess-1").Return(true, nil).Once()
	assert.NoError(t, svc.CheckSession(context.Background(), claims))
}

func TestAuthService_CheckSession_NoRegistry(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockOperatorRepo), nil, testJWTConfig, nil)
	assert.NoError(t, svc.CheckSession(context.Background(), &service.Claims{}))
}

func TestAuthService_Logout(t *testing.T) {
	sessions := new(mocks.MockSessionRegistry)
	svc := service.NewAuthService(new(mocks.MockOperatorRepo), sessions, testJWTConfig, nil)
	claims := &service.Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "sess-2"}, Role: domain.RoleSupervisor}

	sessions.On("Revoke", mock.Anything, domain.RoleSupervisor, "sess-2").Return(nil)

	require.NoError(t, svc.Logout(context.Background(), claims))
	sessions.AssertExpectations(t)
}
