package api

import (
	"net/http"

	"github.com/bot-go-brr/brain/internal/telemetry"
	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
)

func registerTelemetryEndpoints(rest *echo.Echo, store *telemetry.Store) {
	group := rest.Group("/telemetry")

	group.GET("/", func(c echo.Context) error {
		data := reprint.This(store.All())
		return c.JSONPretty(http.StatusOK, data, indentationChar)
	})
	group.GET("/:"+urlParamId+"/", func(c echo.Context) error {
		id := c.Param(urlParamId)
		data, exists := store.Get(id)
		if !exists {
			return returnNotFound(c, id)
		}
		return c.JSONPretty(http.StatusOK, reprint.This(data), indentationChar)
	})
}
