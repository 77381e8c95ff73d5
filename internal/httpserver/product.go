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

type ProductHTTP struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.Svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	products, total, err := h.Svc.ListProducts(c.Request().Context(), offset, limit)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": products,
		"meta": echo.Map{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(c.Request().Context(), p, req)
	if err != nil {
		return httpError(c, err)
	}
	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(product.ID), "product_created", product)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.UpdateProduct(c.Request().Context(), p, id, req)
	if err != nil {
		return httpError(c, err)
	}
	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(product.ID), "product_updated", product)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProduct(c.Request().Context(), p, id); err != nil {
		return httpError(c, err)
	}
	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(id), "product_deleted", echo.Map{"product_id": id})
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) BestSellers(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	rows, total, err := h.Svc.BestSellers(c.Request().Context(), offset, limit)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": rows,
		"meta": echo.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
