package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trananhduc/fashion_shop/internal/logging"
	"github.com/trananhduc/fashion_shop/internal/mykafka"
	"github.com/trananhduc/fashion_shop/internal/service"
	"github.com/trananhduc/fashion_shop/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Name, req.Password)
	if err != nil {
		l.Warn("register_error", "username", req.Username, "error", err)
		return httpError(c, err)
	}

	l.Info("register_success", "user_id", user.ID)
	publish(c, h.Producer, mykafka.TopicUserEvents, fmt.Sprint(user.ID), "user_registered", echo.Map{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, user, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		l.Warn("login_error", "username", req.Username, "error", err)
		return httpError(c, err)
	}

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"user":         user,
	})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.Svc.Me(c.Request().Context(), p)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
