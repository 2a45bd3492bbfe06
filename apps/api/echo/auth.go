package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/guard"
	"github.com/trezcool/koperasi/core/session"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		User auth.Principal `json:"user"`
	}

	DemoAccount struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	LoginView struct {
		Authenticated bool          `json:"authenticated"`
		Accounts      []DemoAccount `json:"accounts,omitempty"`
	}

	NavigationResponse struct {
		User auth.Principal   `json:"user"`
		Menu []guard.MenuItem `json:"menu"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

type authApi struct {
	sessions *session.Manager
	guard    *guard.Guard
	validate *validator.Validate
	cookies  *cookieCodec
	accounts []DemoAccount
}

func registerAuthAPI(g *echo.Group, deps ServerDeps, cookies *cookieCodec) {
	api := authApi{
		sessions: deps.Sessions,
		guard:    deps.Guard,
		validate: deps.Validate,
		cookies:  cookies,
	}
	if deps.DemoAccounts {
		for _, acc := range auth.ExampleAccounts {
			api.accounts = append(api.accounts, DemoAccount{
				Email:    acc.Principal.Email,
				Password: acc.Password,
				Role:     acc.Principal.Role.Label(),
			})
		}
	}

	g.GET("", api.root)
	g.GET("/login", api.loginView)
	g.POST("/login", api.login)
	g.POST("/logout", api.logout)
	g.GET("/me", api.me)
	g.GET("/navigation", api.navigation)
	g.GET("/navigation/check", api.check)
}

// Handlers

func (api *authApi) root(ctx echo.Context) error {
	d := api.guard.Check(guard.RouteRoot, getContextSnapshot(ctx))
	return ctx.Redirect(http.StatusFound, apiPrefix+d.Target)
}

func (api *authApi) loginView(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, LoginView{
		Authenticated: getContextSnapshot(ctx).IsAuthenticated(),
		Accounts:      api.accounts,
	})
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := getContextStore(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	ok, err := st.TryLogin(ctx.Request().Context(), data.Email, data.Password)
	if err == session.ErrLoginInProgress {
		return errLoginInProgress
	}
	if !ok {
		return errInvalidLogin
	}

	p, ok := st.Current()
	if !ok { // logged out concurrently
		return errInvalidLogin
	}
	return ctx.JSON(http.StatusOK, LoginResponse{User: p})
}

func (api *authApi) logout(ctx echo.Context) error {
	st, err := getContextStore(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	st.Logout(ctx.Request().Context())
	if sid, ok := ctx.Get(contextSIDKey).(string); ok {
		api.sessions.Forget(sid)
	}
	api.cookies.expire(ctx)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) me(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *authApi) navigation(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, NavigationResponse{User: p, Menu: api.guard.Menu(p)})
}

func (api *authApi) check(ctx echo.Context) error {
	route := ctx.QueryParam("to")
	if route == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "to", Error: "this field is required"})
	}
	return ctx.JSON(http.StatusOK, api.guard.Check(route, getContextSnapshot(ctx)))
}
