package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"companiongo/internal/redis"
)

const revokedKeyPrefix = "auth:revoked:"

// Service issues and validates bearer tokens. Revocation on logout goes
// through a redis denylist keyed by the token's jti claim; without a redis
// client tokens simply expire.
type Service struct {
	secret   []byte
	tokenTTL time.Duration
	rdb      *redis.Client
}

// NewService constructs an auth service with the supplied signing secret and
// token lifetime.
func NewService(secret string, rdb *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		secret:   []byte(secret),
		tokenTTL: ttl,
		rdb:      rdb,
	}
}

// IssueToken mints a signed token for the user.
func (s *Service) IssueToken(userID int64) (string, error) {
	if userID <= 0 {
		return "", errors.New("invalid user id")
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, expiry, and the revocation list,
// returning the user id the token was issued for.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (int64, error) {
	if tokenString == "" {
		return 0, errors.New("token required")
	}
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return 0, err
	}
	if s.rdb != nil {
		if jti, _ := claims["jti"].(string); jti != "" {
			revoked, err := s.rdb.Exists(ctx, revokedKeyPrefix+jti)
			if err == nil && revoked {
				return 0, errors.New("token revoked")
			}
		}
	}
	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errors.New("invalid token subject")
	}
	return userID, nil
}

// RevokeToken adds the token's jti to the denylist for the remainder of its
// lifetime. A missing redis client makes revocation a no-op.
func (s *Service) RevokeToken(ctx context.Context, tokenString string) error {
	if tokenString == "" || s.rdb == nil {
		return nil
	}
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return nil
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}
	ttl := s.tokenTTL
	if exp, ok := claims["exp"].(float64); ok {
		if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.rdb.Set(ctx, revokedKeyPrefix+jti, "1", ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *Service) parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// TokenTTL reports the configured token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenTTL
}
