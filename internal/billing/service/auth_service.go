package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/middleware"
)

// ErrInvalidCredentials is returned on a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles registration, login and token revocation.
type AuthService struct {
	users    *repository.UserRepository
	profiles *repository.ProfileRepository
	redis    *redis.Client
	logger   *zap.Logger
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(repos *repository.Repositories, redisClient *redis.Client, logger *zap.Logger, secret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:    repos.User,
		profiles: repos.Profile,
		redis:    redisClient,
		logger:   logger,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest authenticates an account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is a signed token with its owner.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

// Register creates the user with a hashed password, an owner role and an
// empty business profile.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, newValidationError("email", "already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.users.AssignRole(ctx, &entity.UserRole{
		ID:     uuid.New().String(),
		UserID: user.ID,
		Role:   entity.RoleOwner,
	}); err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}
	if err := s.profiles.Create(ctx, &entity.Profile{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		OwnerName:    req.Name,
		Email:        req.Email,
		NumberPrefix: "INV",
	}); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return s.issueToken(user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(user)
}

// Me loads the authenticated user with their profile and roles.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

// IsRevoked reports whether a token has been logged out. Satisfies the
// middleware token checker.
func (s *AuthService) IsRevoked(tokenID string) bool {
	n, err := s.redis.Exists(context.Background(), revokedKey(tokenID)).Result()
	if err != nil {
		s.logger.Warn("revocation check failed", zap.Error(err))
		return false
	}
	return n > 0
}

func (s *AuthService) issueToken(user *entity.User) (*AuthResult, error) {
	role := entity.RoleOwner
	if len(user.Roles) > 0 {
		role = user.Roles[0].Role
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := &middleware.JWTClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}
