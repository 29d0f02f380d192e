package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"river-portfolio/internal/entity"
	"river-portfolio/internal/server/repository"
	"river-portfolio/pkg/logger"
)

const (
	userContextKey  = "current_user"
	userEmailHeader = "X-User-Email"
	defaultUserMail = "demo@river.local"
)

// DemoSession resolves the caller to a user row from the X-User-Email
// header, creating the user on first sight. Unauthenticated requests fall
// back to a shared demo account. This mirrors the demo login bypass; a real
// OAuth flow would replace this middleware only.
func DemoSession(userRepo repository.UserRepository, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := strings.TrimSpace(c.Request().Header.Get(userEmailHeader))
			if email == "" {
				email = defaultUserMail
			}

			name := strings.SplitN(email, "@", 2)[0]
			if name != "" {
				name = strings.ToUpper(name[:1]) + name[1:]
			}
			user, err := userRepo.GetOrCreateByEmail(c.Request().Context(), email, name)
			if err != nil {
				log.Error("Failed to resolve user", logger.StringField("email", email), logger.ErrorField(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to resolve user"})
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// currentUser returns the user resolved by DemoSession.
func currentUser(c echo.Context) *entity.User {
	user, _ := c.Get(userContextKey).(*entity.User)
	return user
}
