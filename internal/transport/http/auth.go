package http

import (
	"log/slog"
	"net/http"

	"contractor_site/internal/domain/access"
	"contractor_site/internal/domain/models"
	"contractor_site/internal/middleware"
	"contractor_site/internal/transport/http/dto"
	"contractor_site/internal/transport/http/dto/request"
	"contractor_site/internal/transport/http/dto/response"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const cookieRefreshToken = "refresh_token"

// SignUp godoc
// @Summary Create an account
// @Description Registers an email and password. New accounts hold no role until an admin grants one.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.CredentialsRequest true "Credentials"
// @Success 201 {object} response.Response{data=object{user_id=string}}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/v1/auth/signup [post]
func (r *Routers) SignUp(c echo.Context) error {
	const op = "http.routers.SignUp"

	log := r.log.With(slog.String("op", op))

	var req request.CredentialsRequest
	if resp := r.bind(c, log, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	userID, err := r.Auth.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return r.fail(c, log, err)
	}

	log.Info("user signed up", slog.String("user_id", userID.String()))

	return ok(c, http.StatusCreated, map[string]string{"user_id": userID.String()})
}

// SignIn godoc
// @Summary Sign in
// @Description Checks credentials, loads roles once and stores the tokens in the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.CredentialsRequest true "Credentials"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/auth/signin [post]
func (r *Routers) SignIn(c echo.Context) error {
	const op = "http.routers.SignIn"

	log := r.log.With(slog.String("op", op))

	var req request.CredentialsRequest
	if resp := r.bind(c, log, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	tokens, err := r.Auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.saveCookie(c, tokens); err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, tokens)
}

// Refresh godoc
// @Summary Rotate tokens
// @Description Consumes a refresh token from the body or the session cookie and re-reads the user's roles.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest false "Refresh token"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(slog.String("op", op))

	var req request.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	token := req.RefreshToken
	if token == "" {
		if sess, err := session.Get(middleware.CookieSessionName, c); err == nil {
			token, _ = sess.Values[cookieRefreshToken].(string)
		}
	}
	if token == "" {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
	}

	tokens, err := r.Auth.Refresh(c.Request().Context(), token)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.saveCookie(c, tokens); err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, tokens)
}

// SignOut revokes every refresh token of the caller and clears the cookie.
func (r *Routers) SignOut(c echo.Context) error {
	const op = "http.routers.SignOut"

	log := r.log.With(slog.String("op", op))

	sess := caller(c)
	if err := r.Auth.SignOut(c.Request().Context(), sess.UserID); err != nil {
		return r.fail(c, log, err)
	}

	if cookie, err := session.Get(middleware.CookieSessionName, c); err == nil {
		opts := r.cookie
		opts.MaxAge = -1
		cookie.Options = &opts
		cookie.Values = map[interface{}]interface{}{}
		if err := cookie.Save(c.Request(), c.Response()); err != nil {
			log.Warn("failed to clear session cookie", slog.String("error", err.Error()))
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// Shell godoc
// @Summary Admin shell state
// @Description Reports which admin tabs the caller may open. Browsers without access are redirected.
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=dto.ShellResponse}
// @Failure 302
// @Router /api/v1/admin/shell [get]
func (r *Routers) Shell(c echo.Context) error {
	sh := access.Resolve(middleware.GetSession(c))

	if to := sh.RedirectTo(); to != "" && middleware.WantsHTML(c.Request()) {
		return c.Redirect(http.StatusFound, to)
	}

	tabs := sh.Tabs()
	if tabs == nil {
		tabs = []access.Tab{}
	}

	return ok(c, http.StatusOK, dto.ShellResponse{
		State:    sh.State(),
		Tabs:     tabs,
		Redirect: sh.RedirectTo(),
		Session:  sh.Session(),
	})
}

func (r *Routers) saveCookie(c echo.Context, tokens *models.TokenPair) error {
	sess, err := session.Get(middleware.CookieSessionName, c)
	if err != nil {
		return err
	}

	opts := r.cookie
	sess.Options = &opts
	sess.Values[middleware.CookieAccessToken] = tokens.AccessToken
	sess.Values[cookieRefreshToken] = tokens.RefreshToken

	return sess.Save(c.Request(), c.Response())
}
