// Package middleware provides fiber middleware for recruiter authentication.
package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const recruiterKey = "recruiter"

const unauthorizedDetail = "Could not validate credentials"

// TokenValidator resolves a bearer token to the recruiter it was issued to.
type TokenValidator interface {
	Recruiter(tokenString string) (string, error)
}

// TokenService issues and validates HS256 tokens whose subject is the
// recruiter name.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) IssueToken(recruiter string) (string, error) {
	if strings.TrimSpace(recruiter) == "" {
		return "", errors.New("recruiter name is empty")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   recruiter,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (s *TokenService) Recruiter(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("token string is empty")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", fmt.Errorf("malformed token: %w", err)
		}
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("token is not valid")
	}

	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// RequireRecruiter rejects requests without a valid bearer token and stores
// the recruiter name for RecruiterFrom.
func RequireRecruiter(v TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c)
		}

		recruiter, err := v.Recruiter(parts[1])
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(recruiterKey, recruiter)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": unauthorizedDetail})
}

// RecruiterFrom returns the recruiter stored by RequireRecruiter.
func RecruiterFrom(c *fiber.Ctx) (string, bool) {
	recruiter, ok := c.Locals(recruiterKey).(string)
	return recruiter, ok && recruiter != ""
}
