package middleware

import (
	"net/http"
	"slices"
	"strings"

	"contractor_site/internal/domain/access"
	"contractor_site/internal/transport/http/dto/response"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	CookieSessionName = "session"
	CookieAccessToken = "access_token"
	ctxSessionKey     = "session"
)

// SessionResolver turns an access token into a session.
type SessionResolver interface {
	SessionFromToken(token string) (*access.Session, error)
}

// Session attaches the caller's session, if any, to the request. It never
// rejects; route groups decide with RequireTab.
func Session(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request())
			if token == "" {
				token = cookieToken(c)
			}
			if token != "" {
				if sess, err := resolver.SessionFromToken(token); err == nil {
					SetSession(c, sess)
				}
			}
			return next(c)
		}
	}
}

// RequireTab lets the request through when the session's roles grant any of
// tabs. Browsers are redirected to sign-in or home; API clients get 401/403.
func RequireTab(tabs ...access.Tab) echo.MiddlewareFunc {
	names := make([]string, len(tabs))
	for i, t := range tabs {
		names[i] = string(t)
	}
	denied := response.ErrorResponseWithDetails("forbidden", "role does not grant the "+strings.Join(names, " or ")+" tab")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := GetSession(c)
			if sess == nil {
				if WantsHTML(c.Request()) {
					return c.Redirect(http.StatusFound, access.SignInPath)
				}
				return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
			}
			if !slices.ContainsFunc(tabs, sess.Can) {
				if WantsHTML(c.Request()) {
					return c.Redirect(http.StatusFound, access.HomePath)
				}
				return c.JSON(http.StatusForbidden, denied)
			}
			return next(c)
		}
	}
}

// RequireSession rejects anonymous callers.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if GetSession(c) == nil {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		}
		return next(c)
	}
}

func SetSession(c echo.Context, sess *access.Session) {
	c.Set(ctxSessionKey, sess)
	c.SetRequest(c.Request().WithContext(access.WithSession(c.Request().Context(), sess)))
}

func GetSession(c echo.Context) *access.Session {
	sess, _ := c.Get(ctxSessionKey).(*access.Session)
	return sess
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func cookieToken(c echo.Context) string {
	sess, err := session.Get(CookieSessionName, c)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[CookieAccessToken].(string)
	return token
}

// WantsHTML reports whether the caller is a browser navigation.
func WantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
