package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"loandesk/internal/config"
	"loandesk/internal/domain"
	"loandesk/internal/port"
)

// Claims represents the JWT claims of an operator session. The token ID (jti) is the
// session ID tracked by the session registry.
type Claims struct {
	jwt.RegisteredClaims
	OperatorID uuid.UUID       `json:"operator_id"`
	Username   string          `json:"username"`
	Role       domain.UserRole `json:"role"`
}

// SessionID returns the session identifier carried by the token.
func (c *Claims) SessionID() string {
	return c.ID
}

// LoginInput is the DTO for login requests.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is returned on successful login.
type Session struct {
	AccessToken string           `json:"accessToken"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	Operator    *domain.Operator `json:"operator"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	// Verify checks operator credentials and returns the operator on success.
	Verify(ctx context.Context, username, password string) (*domain.Operator, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
	Logout(ctx context.Context, claims *Claims) error
	ValidateToken(tokenString string) (*Claims, error)
	// CheckSession returns ErrSessionRevoked once a newer login replaced the session.
	CheckSession(ctx context.Context, claims *Claims) error
}

type authService struct {
	operatorRepo port.OperatorRepository
	sessions     port.SessionRegistry
	cfg          config.JWTConfig
	log          *zap.Logger
}

// NewAuthService creates a new AuthService implementation. With a nil session
// registry tokens are accepted until they expire.
func NewAuthService(
	operatorRepo port.OperatorRepository,
	sessions port.SessionRegistry,
	cfg config.JWTConfig,
	log *zap.Logger,
) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		operatorRepo: operatorRepo,
		sessions:     sessions,
		cfg:          cfg,
		log:          log,
	}
}

func (s *authService) Verify(ctx context.Context, username, password string) (*domain.Operator, error) {
	op, err := s.operatorRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Verify: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !op.IsActive {
		return nil, domain.ErrOperatorInactive
	}
	return op, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	op, err := s.Verify(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	token, claims, err := s.generateToken(op)
	if err != nil {
		return nil, err
	}

	if s.sessions != nil {
		prev, err := s.sessions.Activate(ctx, op.Role, claims.ID, s.cfg.AccessTokenExpiry)
		if err != nil {
			return nil, fmt.Errorf("auth.Login: activating session: %w", err)
		}
		if prev != "" {
			s.log.Info("previous session revoked by new login",
				zap.String("role", string(op.Role)),
				zap.String("username", op.Username))
		}
	}

	return &Session{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		Operator:    op,
	}, nil
}

func (s *authService) Logout(ctx context.Context, claims *Claims) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.Role, claims.SessionID()); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}
	return nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithAudience("access"))
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (s *authService) CheckSession(ctx context.Context, claims *Claims) error {
	if s.sessions == nil {
		return nil
	}
	active, err := s.sessions.IsActive(ctx, claims.Role, claims.SessionID())
	if err != nil {
		return fmt.Errorf("auth.CheckSession: %w", err)
	}
	if !active {
		return domain.ErrSessionRevoked
	}
	return nil
}

func (s *authService) generateToken(op *domain.Operator) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpiry)),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{"access"},
		},
		OperatorID: op.ID,
		Username:   op.Username,
		Role:       op.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("signing access token: %w", err)
	}
	return signed, claims, nil
}
