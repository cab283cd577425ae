package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the success envelope of every API endpoint
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}
