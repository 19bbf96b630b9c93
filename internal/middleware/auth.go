package middleware

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/globetrotterhq/globetrotter-backend/internal/config"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return httperr.Respond(c, httperr.Unauthenticated("invalid or expired token"))
		},
	})
}

// OptionalAuth populates JWT claims when the request carries a valid,
// unrevoked bearer token and carries on anonymously otherwise. Used on
// reads that are also reachable through a share token or a public trip;
// the visibility decision stays with the service layer.
func OptionalAuth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := BearerToken(c)
		if raw == "" {
			return c.Next()
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		var count int64
		if err := db.Model(&models.RevokedToken{}).Where("token_hash = ?", HashToken(raw)).Count(&count).Error; err != nil {
			return httperr.Respond(c, httperr.Internal(err))
		}
		if count == 0 {
			c.Locals("user", token)
		}
		return c.Next()
	}
}

// NotRevoked rejects tokens that were invalidated by logout. Runs after
// JWTProtected, so the signature and expiry are already checked.
func NotRevoked(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := BearerToken(c)
		if raw == "" {
			return httperr.Respond(c, httperr.Unauthenticated("missing bearer token"))
		}

		var count int64
		hash := HashToken(raw)
		if err := db.Model(&models.RevokedToken{}).Where("token_hash = ?", hash).Count(&count).Error; err != nil {
			return httperr.Respond(c, httperr.Internal(err))
		}
		if count > 0 {
			return httperr.Respond(c, httperr.Unauthenticated("token has been revoked"))
		}
		return c.Next()
	}
}

// BearerToken returns the raw token from the Authorization header, or the
// token query parameter used by the websocket handshake.
func BearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Query("token")
}

func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
