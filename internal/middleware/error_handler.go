package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pythonvista/intelligent-libary-sub000/pkg/logger"
	jsonres "github.com/pythonvista/intelligent-libary-sub000/pkg/response"
)

// ErrorHandler is the fallback for errors no handler mapped itself, echo 404s
// and panics surfaced by Recover included.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled error", err)
	}

	errCode := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))

	if err := c.JSON(code, jsonres.Error(errCode, message, nil)); err != nil {
		logger.Error("Failed to write error response", err)
	}
}
