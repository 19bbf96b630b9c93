package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseBody decodes the request body into dst and runs struct validation.
// Unknown JSON fields are accepted and ignored.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return httperr.Validation("invalid request body")
	}
	return checkStruct(dst)
}

func checkStruct(dst interface{}) error {
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return httperr.Validation(fmt.Sprintf("field %s failed on %s", strings.ToLower(f.Field()), f.Tag()))
		}
		return httperr.Validation("invalid request body")
	}
	return nil
}
