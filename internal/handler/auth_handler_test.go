package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"loandesk/internal/domain"
	"loandesk/internal/handler"
	"loandesk/internal/middleware"
	"loandesk/internal/service"
	"loandesk/mocks"
)

func TestAuthLogin_Success(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc)
	session := &service.Session{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
		Operator:    &domain.Operator{Username: "head.reviewer", Role: domain.RoleManager},
	}
	authSvc.On("Login", mock.Anything, service.LoginInput{Username: "head.reviewer", Password: "pw"}).Return(session, nil)

	c, w := newContext(http.MethodPost, "/", handler.LoginRequest{Username: "head.reviewer", Password: "pw"}, nil)
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accessToken":"tok"`)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthLogin_MissingFields(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc)

	c, w := newContext(http.MethodPost, "/", `{"username":"x"}`, nil)
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	authSvc.AssertNotCalled(t, "Login")
}

func TestAuthLogin_InvalidCredentials(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc)
	authSvc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

	c, w := newContext(http.MethodPost, "/", handler.LoginRequest{Username: "x", Password: "y"}, nil)
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w).Code)
}

func TestAuthLogoutAndSession(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(authSvc)
	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "sess-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		OperatorID:       uuid.New(),
		Username:         "head.reviewer",
		Role:             domain.RoleManager,
	}
	authSvc.On("Logout", mock.Anything, claims).Return(nil)

	c, w := newContext(http.MethodPost, "/", nil, nil)
	c.Set(middleware.ContextKeyClaims, claims)
	h.Logout(c)
	assert.Equal(t, http.StatusOK, w.Code)
	authSvc.AssertExpectations(t)

	c, w = newContext(http.MethodGet, "/", nil, nil)
	c.Set(middleware.ContextKeyClaims, claims)
	h.Session(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"head.reviewer"`)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
}

func TestAuthSession_NoClaims(t *testing.T) {
	h := handler.NewAuthHandler(new(mocks.MockAuthService))

	c, w := newContext(http.MethodGet, "/", nil, nil)
	h.Session(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
