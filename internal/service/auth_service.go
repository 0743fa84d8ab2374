package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload issued to authenticated administrators.
type Claims struct {
	UserID   int             `json:"user_id"`
	Username string          `json:"username"`
	Role     model.AdminRole `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates administrators and manages their sessions.
// A single session per admin is enforced through Redis: the JTI of the most
// recent login is stored under the admin's session key, and tokens whose JTI
// no longer matches are rejected.
type AuthService struct {
	admins    AdminStore
	redis     *redis.Client
	jwtSecret []byte
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(admins AdminStore, redisClient *redis.Client, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		admins:    admins,
		redis:     redisClient,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
	}
}

// Login verifies credentials and issues a signed token. Any previously
// issued token for the same admin is invalidated.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.AdminLoginResponse, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetch admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	jti := uuid.NewString()
	now := time.Now()
	claims := Claims{
		UserID:   admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	key := config.CacheKey.AdminSessionKey(admin.ID)
	if err := s.redis.Set(ctx, key, jti, s.jwtExpiry).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &model.AdminLoginResponse{Token: token, Admin: *admin}, nil
}

// Logout invalidates the admin's active session.
func (s *AuthService) Logout(ctx context.Context, adminID int) error {
	return s.redis.Del(ctx, config.CacheKey.AdminSessionKey(adminID)).Err()
}

// ParseToken validates a token's signature and expiry and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// SessionActive reports whether the claims still belong to the admin's most
// recent login.
func (s *AuthService) SessionActive(ctx context.Context, claims *Claims) (bool, error) {
	stored, err := s.redis.Get(ctx, config.CacheKey.AdminSessionKey(claims.UserID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return stored == claims.ID, nil
}
