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

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	p, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, p, req)
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return httpError(c, err)
	}

	l.Info("create_order_success", "order_id", order.ID, "total", order.Total)
	publish(c, h.Producer, mykafka.TopicOrderEvents, fmt.Sprint(order.ID), "order_created", order)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), p, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	orders, err := h.Svc.ListMyOrders(c.Request().Context(), p)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *OrderHTTP) ListAllOrders(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	orders, err := h.Svc.ListAllOrders(c.Request().Context(), p)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *OrderHTTP) SetStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.set_status")

	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req transport.SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.SetStatus(ctx, p, id, req.Status)
	if err != nil {
		l.Warn("set_status_error", "order_id", id, "status", req.Status, "error", err)
		return httpError(c, err)
	}

	l.Info("set_status_success", "order_id", id, "status", order.Status)
	publish(c, h.Producer, mykafka.TopicOrderEvents, fmt.Sprint(order.ID), "order_status_changed", echo.Map{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) AddItem(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, newTotal, err := h.Svc.AddItem(c.Request().Context(), p, orderID, req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": item, "new_total": newTotal})
}

func (h *OrderHTTP) UpdateItem(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := paramID(c, "itemID")
	if err != nil {
		return err
	}

	var req transport.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, newTotal, err := h.Svc.UpdateItem(c.Request().Context(), p, orderID, itemID, req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": item, "new_total": newTotal})
}

func (h *OrderHTTP) RemoveItem(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := paramID(c, "itemID")
	if err != nil {
		return err
	}

	newTotal, err := h.Svc.RemoveItem(c.Request().Context(), p, orderID, itemID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted_item": itemID, "new_total": newTotal})
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteOrder(ctx, p, id); err != nil {
		l.Warn("delete_order_error", "order_id", id, "error", err)
		return httpError(c, err)
	}

	l.Info("delete_order_success", "order_id", id)
	publish(c, h.Producer, mykafka.TopicOrderEvents, fmt.Sprint(id), "order_deleted", echo.Map{"order_id": id})
	return c.JSON(http.StatusOK, echo.Map{"deleted_order": id})
}
