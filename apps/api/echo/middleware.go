package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// learnerMiddleware resolves the learner of the token and checks it against the LearnerId header.
func learnerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		learnerID := claims.LearnerID()
		if learnerID == 0 {
			return errHttpForbidden
		}

		if h := strings.TrimSpace(ctx.Request().Header.Get(learnerIDHeader)); h != "" {
			if id, err := strconv.Atoi(h); err != nil || id != learnerID {
				return errHttpForbidden
			}
		}
		ctx.Set(learnerContextKey, learnerID)
		return next(ctx)
	}
}
