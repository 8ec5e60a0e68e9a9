package apifault

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apifault/apifault/validate"
)

// ParseAndValidate parses the request body into dst and validates it
// against its validation tags. Failures are returned for the app's
// error handler to translate: unparseable bodies as a *fiber.Error and
// rule violations as the raw validator.ValidationErrors.
func ParseAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return validate.Struct(dst)
}
