package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "thaifolio/internal/errors"
)

const (
	tokenIssuer  = "thaifolio-api"
	ownerSubject = "owner"

	// OwnerKey is set on the gin context once the owner is authenticated.
	OwnerKey = "owner"
)

// JWTClaims represents the claims in the owner JWT.
type JWTClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateOwnerToken issues an access token for the portfolio owner.
func GenerateOwnerToken(secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &JWTClaims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   ownerSubject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateOwnerToken parses and validates an owner access token.
func ValidateOwnerToken(secret []byte, tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.TokenType != "access" || claims.Subject != ownerSubject {
		return nil, fmt.Errorf("token is not an owner access token")
	}
	return claims, nil
}

func abortUnauthorized(c *gin.Context, message string) {
	abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, message))
}

// AuthMiddleware verifies the owner JWT. When enabled is false (no
// passphrase configured) every request is treated as the owner.
func AuthMiddleware(secret []byte, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Set(OwnerKey, true)
			c.Next()
			return
		}

		// Browsers cannot set headers on websocket upgrades, so /ws may
		// pass the token as a query parameter instead.
		tokenString := c.Query("token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				abortUnauthorized(c, "Invalid authorization header format")
				return
			}
			tokenString = parts[1]
		}
		if tokenString == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		if _, err := ValidateOwnerToken(secret, tokenString); err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(OwnerKey, true)
		c.Next()
	}
}
