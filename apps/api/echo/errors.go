package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/charity"
	"github.com/trezcool/koperasi/core/loan"
	"github.com/trezcool/koperasi/core/member"
	"github.com/trezcool/koperasi/core/product"
)

var (
	errUnauthorized    = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errInvalidLogin    = echo.NewHTTPError(http.StatusBadRequest, auth.ErrInvalidCredentials.Error())
	errLoginInProgress = echo.NewHTTPError(http.StatusConflict, "a login is already in progress")
	errHttpNotFound    = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// notFoundErrors are the domain lookups answered with a 404.
var notFoundErrors = []error{member.ErrNotFound, product.ErrNotFound, charity.ErrNotFound, loan.ErrNotFound}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		for _, nfErr := range notFoundErrors {
			if cause == nfErr {
				cause = errHttpNotFound
				break
			}
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var p auth.Principal
			if snap := getContextSnapshot(ctx); snap.IsAuthenticated() {
				p = *snap.Principal
			}
			logger.Error(msg, errors.Wrap(err, msg), p)
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
