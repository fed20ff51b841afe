package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type MetricsController struct {
	api     *echo.Group
	handler http.Handler
}

func NewMetricsController(api *echo.Group, handler http.Handler) *MetricsController {
	return &MetricsController{api: api, handler: handler}
}

// InitMetricsRoutes exposes the prometheus registry
func (controller *MetricsController) InitMetricsRoutes() {
	controller.api.GET("/metrics", echo.WrapHandler(controller.handler))
}
