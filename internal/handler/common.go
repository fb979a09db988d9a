package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/repository"
)

// writeErr translates sentinel repository errors into HTTP responses.
// Unknown errors become an opaque 500.
func writeErr(c echo.Context, err error) error {
	switch err {
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case repository.ErrEmailExists:
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case repository.ErrAlreadyPaid:
		return c.JSON(http.StatusConflict, echo.Map{"error": "order already paid"})
	case repository.ErrNotQuoted:
		return c.JSON(http.StatusConflict, echo.Map{"error": "order has no quote"})
	case repository.ErrValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid input"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
