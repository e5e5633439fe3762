package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docflow/internal/model"
)

// Identity headers set by the upstream gateway.
const (
	UserIDHeader    = "X-User-Id"
	UserEmailHeader = "X-User-Email"
	UserNameHeader  = "X-User-Name"

	userLocalKey = "current_user"
)

// Identity reads the caller from the gateway headers. The id defaults to the email;
// requests carrying neither are rejected with 401.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := model.User{
			ID:    strings.TrimSpace(c.Get(UserIDHeader)),
			Email: strings.TrimSpace(c.Get(UserEmailHeader)),
			Name:  strings.TrimSpace(c.Get(UserNameHeader)),
		}
		if u.ID == "" {
			u.ID = u.Email
		}
		if u.ID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "caller identity is required")
		}
		if u.Name == "" {
			u.Name = u.ID
		}
		c.Locals(userLocalKey, u)
		return c.Next()
	}
}

// CurrentUser returns the identity stored by Identity.
func CurrentUser(c *fiber.Ctx) (model.User, bool) {
	u, ok := c.Locals(userLocalKey).(model.User)
	return u, ok
}
