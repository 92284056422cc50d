package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/pkg/logger/types"
)

var statusByError = []struct {
	err  error
	code int
}{
	{errorz.ValidationFailed, http.StatusBadRequest},
	{errorz.InvalidCode, http.StatusBadRequest},
	{errorz.InvalidToken, http.StatusUnauthorized},
	{errorz.Forbidden, http.StatusForbidden},
	{errorz.NotFound, http.StatusNotFound},
	{errorz.DuplicateApplication, http.StatusConflict},
	{errorz.AlreadyDecided, http.StatusConflict},
	{errorz.EventFull, http.StatusConflict},
	{errorz.RegistrationClosed, http.StatusConflict},
	{errorz.UploadFailed, http.StatusBadGateway},
}

// errorHandler translates domain sentinels into HTTP statuses in one place,
// so handlers return service errors untouched.
func errorHandler(log *types.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		switch typed := err.(type) {
		case *echo.HTTPError:
			code = typed.Code
			if m, ok := typed.Message.(string); ok {
				message = m
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = typed.Error()
		default:
			for _, mapping := range statusByError {
				if errors.Is(err, mapping.err) {
					code = mapping.code
					message = err.Error()
					break
				}
			}
		}

		if code == http.StatusInternalServerError {
			log.Errorf("request %s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
		}

		if jsonErr := c.JSON(code, echo.Map{"error": message}); jsonErr != nil {
			log.Errorf("failed to write error response: %v", jsonErr)
		}
	}
}
