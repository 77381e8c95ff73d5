package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trananhduc/fashion_shop/internal/mykafka"
	"github.com/trananhduc/fashion_shop/internal/service"
	"github.com/trananhduc/fashion_shop/internal/transport"
	"github.com/trananhduc/fashion_shop/internal/util"
)

type UserHTTP struct {
	Svc      *service.UserService
	Producer *mykafka.Producer
}

func (h *UserHTTP) List(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	users, err := h.Svc.List(c.Request().Context(), p)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) Get(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.Svc.Get(c.Request().Context(), p, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), p, id); err != nil {
		return httpError(c, err)
	}
	publish(c, h.Producer, mykafka.TopicUserEvents, fmt.Sprint(id), "user_deleted", echo.Map{"user_id": id})
	return c.JSON(http.StatusOK, echo.Map{"deleted_user": id})
}

func (h *UserHTTP) SetRole(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req transport.SetRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.SetRole(c.Request().Context(), p, id, req.Role)
	if err != nil {
		return httpError(c, err)
	}
	publish(c, h.Producer, mykafka.TopicUserEvents, fmt.Sprint(id), "user_role_changed", echo.Map{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) SetActive(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req transport.SetActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.SetActive(c.Request().Context(), p, id, req.IsActive)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) CreateAdmin(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.CreateAdmin(c.Request().Context(), p, req.Username, req.Name, req.Password)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) UpdateMe(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req transport.UpdateMeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateMe(c.Request().Context(), p, req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Customers(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	customers, total, err := h.Svc.Customers(c.Request().Context(), p, offset, limit)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"customers": customers,
		"total":     total,
		"page":      page,
	})
}
