package rest

import (
	"context"
	"strconv"
	"strings"
	"time"

	"myMarketplace/domain"
	"myMarketplace/pkg/serrors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const defaultTimeout = 10 * time.Second

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, serrors.With(serrors.ErrBadRequest, "invalid %s", name)
	}
	return uint(id), nil
}

func bind(c echo.Context, v *validator.Validate, req any) error {
	if err := c.Bind(req); err != nil {
		return serrors.With(serrors.ErrBadRequest, "invalid request body")
	}
	if v == nil {
		return nil
	}
	if err := v.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return serrors.With(serrors.ErrBadRequest, "invalid %s", verrs[0].Field())
		}
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request")
	}
	return nil
}

// statusesQuery reads ?status=A,B into a list of statuses.
func statusesQuery(c echo.Context) ([]domain.OrderStatus, error) {
	raw := strings.TrimSpace(c.QueryParam("status"))
	if raw == "" {
		return nil, nil
	}

	var statuses []domain.OrderStatus
	for _, part := range strings.Split(raw, ",") {
		st, err := domain.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(part)))
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid status %q", part)
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// rangeQuery reads ?from=&to= as dates (YYYY-MM-DD) or RFC 3339 times.
// "to" as a date is inclusive. Defaults to the last 30 days.
func rangeQuery(c echo.Context, now time.Time) (time.Time, time.Time, error) {
	to := now
	from := now.AddDate(0, 0, -30)

	if raw := c.QueryParam("from"); raw != "" {
		t, _, err := parseTime(raw)
		if err != nil {
			return time.Time{}, time.Time{}, serrors.With(serrors.ErrBadRequest, "invalid from")
		}
		from = t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, dateOnly, err := parseTime(raw)
		if err != nil {
			return time.Time{}, time.Time{}, serrors.With(serrors.ErrBadRequest, "invalid to")
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		to = t
	}

	return from, to, nil
}

func parseTime(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t.UTC(), false, err
}

func intQuery(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, serrors.With(serrors.ErrBadRequest, "invalid %s", name)
	}
	return v, nil
}

func withTimeout(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), d)
}
