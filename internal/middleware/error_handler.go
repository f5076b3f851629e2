package middleware

import (
	"errors"
	"net/http"

	"myMarketplace/pkg/logger"
	jsonres "myMarketplace/pkg/response"
	"myMarketplace/pkg/serrors"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors returned by handlers. Service errors keep
// their kind, echo errors keep their status and everything else is a 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		writeError(c, he.Code, codeForStatus(he.Code), msg)
		return
	}

	status := serrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	writeError(c, status, serrors.Code(err), serrors.PublicMessage(err))
}

func writeError(c echo.Context, status int, code, msg string) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, jsonres.Error(code, msg, nil))
	}
	if err != nil {
		logger.Error("failed to write error response", "error", err)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		return serrors.ErrInternal.Error()
	}
}
