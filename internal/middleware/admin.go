package middleware

import (
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired gates elevated endpoints. The role claim is a fast path;
// the database row is the source of truth so a demotion takes effect
// without waiting for token expiry.
func AdminRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := GetUserID(c)
		if err != nil {
			return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
		}
		if !user.IsAdmin() {
			return httperr.Respond(c, httperr.Forbidden("admin access required"))
		}
		return c.Next()
	}
}
