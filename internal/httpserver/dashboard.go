package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trananhduc/fashion_shop/internal/service"
)

type DashboardHTTP struct {
	Svc *service.CatalogService
}

func (h *DashboardHTTP) Summary(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	summary, err := h.Svc.Summary(c.Request().Context(), p)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *DashboardHTTP) OrdersByStatus(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}
	rows, err := h.Svc.OrdersByStatus(c.Request().Context(), p)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// RevenueByDate reports paid revenue per day for ?from=YYYY-MM-DD&to=YYYY-MM-DD.
// The "to" day is included in full.
func (h *DashboardHTTP) RevenueByDate(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return err
	}

	from, err := time.Parse("2006-01-02", c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
	}
	to, err := time.Parse("2006-01-02", c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
	}
	to = to.Add(24*time.Hour - time.Nanosecond)

	rows, err := h.Svc.RevenueByDate(c.Request().Context(), p, from, to)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
