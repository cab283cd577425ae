package apierr

import (
	"errors"
	"net/http"

	"github.com/codecat1111/radar-clone/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Response is the failure envelope written to clients
type Response struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
	Cause   string       `json:"cause,omitempty"`
}

// HTTPErrorHandler converts every error returned by a handler into the
// failure envelope. When exposeCause is set the wrapped error text is added
// to the body; it is never set in production.
func HTTPErrorHandler(exposeCause bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp, cause := toResponse(err)
		if exposeCause && cause != nil {
			resp.Cause = cause.Error()
		}

		log := logger.FromContext(c)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed",
				zap.Int("status", status),
				zap.String("error", resp.Error),
				zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, resp)
		}
		if writeErr != nil {
			log.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}

func toResponse(err error) (int, Response, error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, Response{Error: apiErr.Message, Details: apiErr.Details}, apiErr.Err
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, Response{Error: httpErrorMessage(he)}, he.Internal
	}

	return http.StatusInternalServerError, Response{Error: MsgStorageFailedBase}, err
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch he.Code {
	case http.StatusNotFound:
		return "Endpoint not found"
	case http.StatusMethodNotAllowed:
		return "Method not allowed"
	case http.StatusTooManyRequests:
		return "Too many requests, please try again later"
	}
	if msg, ok := he.Message.(string); ok && msg != "" {
		return msg
	}
	return http.StatusText(he.Code)
}
