package rest

import (
	"context"
	"net/http"
	"time"

	"myMarketplace/domain"
	"myMarketplace/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type AnalyticsService interface {
	Analytics(ctx context.Context, sellerID uint, from, to time.Time) (domain.SellerAnalytics, error)
}

type SellerHandler struct {
	analyticsService AnalyticsService
	timeout          time.Duration
	now              func() time.Time
}

func NewSellerHandler(analyticsService AnalyticsService) *SellerHandler {
	return &SellerHandler{
		analyticsService: analyticsService,
		timeout:          defaultTimeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (h *SellerHandler) Analytics(c echo.Context) error {
	from, to, err := rangeQuery(c, h.now())
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	analytics, err := h.analyticsService.Analytics(ctx, middleware.UserID(c), from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(analytics))
}
