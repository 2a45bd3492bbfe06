package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/koperasi/core/guard"
)

// guardMiddleware gates a view with the route guard.
func guardMiddleware(g *guard.Guard, route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			d := g.Check(route, getContextSnapshot(ctx))
			switch d.Kind {
			case guard.Render:
				return next(ctx)
			case guard.Redirect:
				return ctx.Redirect(http.StatusFound, apiPrefix+d.Target)
			case guard.NotFound:
				return errHttpNotFound
			}
			return ctx.JSON(http.StatusAccepted, echo.Map{"state": "loading"})
		}
	}
}
