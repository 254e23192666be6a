package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/idtoken"
)

// ErrInvalidToken is returned by verifiers for tokens they cannot accept.
var ErrInvalidToken = errors.New("invalid token")

// IdentityVerifier turns a bearer token into the owner ID it was issued for.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// JWTVerifier accepts HS256 tokens signed with a shared secret.
// The subject claim is the owner ID.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for tokens signed with secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// GoogleIDTokenVerifier accepts Google-issued ID tokens for one client ID.
type GoogleIDTokenVerifier struct {
	audience string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleIDTokenVerifier creates a verifier for ID tokens minted for clientID.
func NewGoogleIDTokenVerifier(clientID string) *GoogleIDTokenVerifier {
	return &GoogleIDTokenVerifier{audience: clientID, validate: idtoken.Validate}
}

func (v *GoogleIDTokenVerifier) Verify(ctx context.Context, token string) (string, error) {
	payload, err := v.validate(ctx, token, v.audience)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if payload.Subject == "" {
		return "", ErrInvalidToken
	}
	return payload.Subject, nil
}

// ChainVerifier tries each verifier in turn and returns the first success.
type ChainVerifier []IdentityVerifier

func (c ChainVerifier) Verify(ctx context.Context, token string) (string, error) {
	errs := make([]error, 0, len(c))
	for _, v := range c {
		ownerID, err := v.Verify(ctx, token)
		if err == nil {
			return ownerID, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrInvalidToken
	}
	return "", errors.Join(errs...)
}

// AuthMiddleware creates a Gin middleware handler that validates bearer tokens
// and stores the verified owner ID in the request.
func AuthMiddleware(verifier IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		ownerID, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		enrichedLogger := logger.With(slog.String("owner_id", ownerID))
		ctx := WithLogger(WithOwnerID(c.Request.Context(), ownerID), enrichedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(ownerIDKey), ownerID)
		c.Set(string(loggerKey), enrichedLogger)

		c.Next()
	}
}
