package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trananhduc/fashion_shop/internal/mykafka"
	"github.com/trananhduc/fashion_shop/internal/service"
	"github.com/trananhduc/fashion_shop/internal/transport"
)

type VoucherHTTP struct {
	Svc      *service.VoucherService
	Producer *mykafka.Producer
}

func (h *VoucherHTTP) List(c echo.Context) error {
	vouchers, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, vouchers)
}

func (h *VoucherHTTP) GetByCode(c echo.Context) error {
	code := c.Param("code")
	voucher, err := h.Svc.GetByCode(c.Request().Context(), code)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, voucher)
}

func (h *VoucherHTTP) Create(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req transport.CreateVoucherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	voucher, err := h.Svc.Create(c.Request().Context(), p, req)
	if err != nil {
		return httpError(c, err)
	}
	publish(c, h.Producer, mykafka.TopicVoucherEvents, voucher.Code, "voucher_created", voucher)
	return c.JSON(http.StatusCreated, voucher)
}

func (h *VoucherHTTP) Update(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateVoucherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	voucher, err := h.Svc.Update(c.Request().Context(), p, id, req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, voucher)
}

func (h *VoucherHTTP) AdminUpdate(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req transport.AdminUpdateVoucherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	voucher, err := h.Svc.AdminUpdate(c.Request().Context(), p, id, req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, voucher)
}

func (h *VoucherHTTP) Delete(c echo.Context) error {
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
	publish(c, h.Producer, mykafka.TopicVoucherEvents, fmt.Sprint(id), "voucher_deleted", echo.Map{"voucher_id": id})
	return c.JSON(http.StatusOK, echo.Map{"deleted_voucher": id})
}
