package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lakeshorecc/classreg-backend/internal/config"
	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/repository"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveSession    = errors.New("no active session")
	ErrSessionInvalidated = errors.New("session invalidated by a newer login")
)

// Claims extends JWT standard claims with the registrant identity. Kind is
// member or non_member; dependents never authenticate.
type Claims struct {
	jwt.RegisteredClaims
	Kind    model.RegistrantKind `json:"kind"`
	UserID  int                  `json:"user_id"`
	IsStaff bool                 `json:"is_staff,omitempty"`
}

// Ref returns the registrant reference the token authenticates.
func (c *Claims) Ref() model.RegistrantRef {
	return model.RegistrantRef{Kind: c.Kind, ID: c.UserID}
}

// AuthService handles authentication, JWT, and session management.
type AuthService struct {
	cfg         *config.Config
	rdb         *redis.Client
	registrants *repository.RegistrantRepository
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, registrants *repository.RegistrantRepository, logger zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:         cfg,
		rdb:         rdb,
		registrants: registrants,
		logger:      logger.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Credentials is the normalized account shape Login resolves from either
// account table.
type Credentials struct {
	Ref          model.RegistrantRef
	PasswordHash string
	Status       model.AccountStatus
	IsStaff      bool
}

// Login authenticates an email/password pair against members first, then
// non-members, and issues a token. Inactive accounts cannot log in.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (string, *Credentials, error) {
	creds, err := s.resolveCredentials(ctx, req.Email)
	if err != nil {
		return "", nil, err
	}
	if err := s.CheckPassword(creds.PasswordHash, req.Password); err != nil {
		return "", nil, err
	}
	if creds.Status != model.StatusActive {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(ctx, creds)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info().
		Str("kind", string(creds.Ref.Kind)).
		Int("user_id", creds.Ref.ID).
		Bool("is_staff", creds.IsStaff).
		Msg("login succeeded")
	return token, creds, nil
}

func (s *AuthService) resolveCredentials(ctx context.Context, email string) (*Credentials, error) {
	m, err := s.registrants.GetMemberByEmail(ctx, email)
	if err == nil {
		return &Credentials{
			Ref:          model.RegistrantRef{Kind: model.KindMember, ID: m.ID},
			PasswordHash: m.PasswordHash,
			Status:       m.Status,
			IsStaff:      m.IsStaff,
		}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lookup member: %w", err)
	}

	n, err := s.registrants.GetNonMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup non-member: %w", err)
	}
	return &Credentials{
		Ref:          model.RegistrantRef{Kind: model.KindNonMember, ID: n.ID},
		PasswordHash: n.PasswordHash,
		Status:       n.Status,
	}, nil
}

// generateToken signs a JWT and registers its JTI as the account's single
// active session. A newer login displaces the previous session.
func (s *AuthService) generateToken(ctx context.Context, creds *Credentials) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(creds.Ref.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Kind:    creds.Ref.Kind,
		UserID:  creds.Ref.ID,
		IsStaff: creds.IsStaff,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	sessionKey := config.CacheKey.SessionKey(string(creds.Ref.Kind), creds.Ref.ID)
	if err := s.rdb.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateSession checks that the token's JTI matches the account's active
// session in Redis.
func (s *AuthService) ValidateSession(ctx context.Context, claims *Claims) error {
	sessionKey := config.CacheKey.SessionKey(string(claims.Kind), claims.UserID)
	stored, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNoActiveSession
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != claims.RegisteredClaims.ID {
		return ErrSessionInvalidated
	}
	return nil
}

// Logout removes the account's session from Redis, invalidating the token
// ahead of its expiry.
func (s *AuthService) Logout(ctx context.Context, ref model.RegistrantRef) error {
	return s.rdb.Del(ctx, config.CacheKey.SessionKey(string(ref.Kind), ref.ID)).Err()
}
