package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"myMarketplace/business/user"
	"myMarketplace/domain"
	"myMarketplace/internal/middleware"
	"myMarketplace/pkg/serrors"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, in user.RegisterInput) (domain.Account, error)
	Login(ctx context.Context, in user.LoginInput) (user.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, role domain.Role, id uint) (domain.Account, error)
	UpdateProfile(ctx context.Context, role domain.Role, id uint, in user.UpdateProfileInput) (domain.Account, error)
}

type UserHandler struct {
	userService  UserService
	timeout      time.Duration
	secureCookie bool
}

// NewUserHandler builds the auth handler. secureCookie marks the session
// cookie Secure, which production deployments behind TLS want.
func NewUserHandler(userService UserService, secureCookie bool) *UserHandler {
	return &UserHandler{
		userService:  userService,
		timeout:      defaultTimeout,
		secureCookie: secureCookie,
	}
}

func roleParam(c echo.Context) (domain.Role, error) {
	role := domain.Role(strings.ReplaceAll(strings.ToLower(c.Param("role")), "-", "_"))
	if !role.IsAccountRole() {
		return "", serrors.With(serrors.ErrNotFound, "unknown account type %q", c.Param("role"))
	}
	return role, nil
}

func (h *UserHandler) Register(c echo.Context) error {
	role, err := roleParam(c)
	if err != nil {
		return err
	}

	var req user.RegisterInput
	if err := bind(c, nil, &req); err != nil {
		return err
	}
	req.Role = role

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	account, err := h.userService.Register(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(account))
}

func (h *UserHandler) Login(c echo.Context) error {
	role, err := roleParam(c)
	if err != nil {
		return err
	}

	var req user.LoginInput
	if err := bind(c, nil, &req); err != nil {
		return err
	}
	req.Role = role
	req.IPAddress = c.RealIP()
	req.UserAgent = c.Request().UserAgent()

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	result, err := h.userService.Login(ctx, req)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *UserHandler) Logout(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	if err := h.userService.Logout(ctx, middleware.Token(c)); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
	})

	return c.JSON(http.StatusOK, fres.Response.StatusOK("logged out"))
}

func (h *UserHandler) Me(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	account, err := h.userService.Me(ctx, middleware.Role(c), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(account))
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req user.UpdateProfileInput
	if err := bind(c, nil, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	account, err := h.userService.UpdateProfile(ctx, middleware.Role(c), middleware.UserID(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(account))
}
