package controller

import (
	"net/http"

	"go-weather/internal/domain/model"
	"go-weather/internal/domain/usecase/health"

	"github.com/labstack/echo/v4"
)

type HealthController struct {
	api     *echo.Group
	useCase health.UseCase
}

func NewHealthController(api *echo.Group, useCase health.UseCase) *HealthController {
	return &HealthController{api: api, useCase: useCase}
}

// InitHealthRoutes initializes health check routes
func (controller *HealthController) InitHealthRoutes() {
	controller.api.GET("/health", controller.CheckHealth())
}

func (controller *HealthController) CheckHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		healthResponse := controller.useCase.CheckHealth(c.Request().Context())

		status := http.StatusOK
		if healthResponse.Status != model.StatusUp {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, healthResponse)
	}
}
