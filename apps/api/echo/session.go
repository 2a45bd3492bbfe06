package echoapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/session"
)

const (
	contextSIDKey   = "sid"
	contextStoreKey = "session"
)

var errNoSessionInCtx = errors.New("session not found in echo.Context")

// cookieCodec signs session ids into the session cookie.
// The cookie only carries an opaque id: the principal never leaves the server.
type cookieCodec struct {
	name   string
	maxAge time.Duration
	issuer string
	key    []byte
	secure bool
}

func newCookieCodec(conf *core.Config) *cookieCodec {
	return &cookieCodec{
		name:   conf.Session.CookieName,
		maxAge: conf.Session.CookieMaxAge,
		issuer: conf.AppName,
		key:    []byte(conf.SecretKey),
		secure: !(conf.Debug || conf.TestMode),
	}
}

func (c *cookieCodec) encode(sid string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sid,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", errors.Wrap(err, "signing session cookie")
	}
	return ss, nil
}

// decode returns the session id of a cookie value. Forged or expired values are rejected.
func (c *cookieCodec) decode(value string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		value, &claims,
		func(*jwt.Token) (interface{}, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("session cookie without id")
	}
	return claims.ID, nil
}

func (c *cookieCodec) cookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *cookieCodec) set(ctx echo.Context, sid string) error {
	value, err := c.encode(sid)
	if err != nil {
		return err
	}
	ctx.SetCookie(c.cookie(value, c.maxAge))
	return nil
}

func (c *cookieCodec) expire(ctx echo.Context) {
	ck := c.cookie("", 0)
	ck.MaxAge = -1
	ctx.SetCookie(ck)
}

// sessionMiddleware attaches the Store of the client session to the context,
// starting a new session when the request carries no valid cookie.
func sessionMiddleware(sessions *session.Manager, cookies *cookieCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			var sid string
			if ck, err := ctx.Cookie(cookies.name); err == nil {
				sid, _ = cookies.decode(ck.Value)
			}
			if sid == "" {
				sid = uuid.NewString()
				if err := cookies.set(ctx, sid); err != nil {
					return err
				}
			}

			ctx.Set(contextSIDKey, sid)
			ctx.Set(contextStoreKey, sessions.Get(ctx.Request().Context(), sid))
			defer sessions.Release(sid)
			return next(ctx)
		}
	}
}

func getContextStore(ctx echo.Context) (session.Store, error) {
	if st, ok := ctx.Get(contextStoreKey).(session.Store); ok {
		return st, nil
	}
	return nil, errNoSessionInCtx
}

func getContextSnapshot(ctx echo.Context) session.Snapshot {
	if st, err := getContextStore(ctx); err == nil {
		return st.Snapshot()
	}
	return session.Snapshot{State: session.StateUnauthenticated}
}

// getContextPrincipal returns the authenticated principal of the request.
func getContextPrincipal(ctx echo.Context) (auth.Principal, error) {
	st, err := getContextStore(ctx)
	if err != nil {
		return auth.Principal{}, errors.Wrap(err, "getting context session")
	}
	if p, ok := st.Current(); ok {
		return p, nil
	}
	return auth.Principal{}, errUnauthorized
}
