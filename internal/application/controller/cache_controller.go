package controller

import (
	"net/http"

	"go-weather/internal/domain/usecase/janitor"

	"github.com/labstack/echo/v4"
)

type CacheController struct {
	api     *echo.Group
	useCase janitor.UseCase
}

func NewCacheController(api *echo.Group, useCase janitor.UseCase) *CacheController {
	return &CacheController{api: api, useCase: useCase}
}

// InitCacheRoutes initializes cache maintenance routes
func (controller *CacheController) InitCacheRoutes() {
	controller.api.DELETE("/weather/cache", controller.Sweep)
}

// Sweep godoc
// @Summary Purge weather cache
// @Description Deletes every cached current weather and forecast entry
// @Tags cache
// @Produce json
// @Success 200 {object} map[string]int "Number of deleted keys"
// @Failure 500 {object} model.ErrorResponseDTO
// @Router /weather/cache [delete]
func (controller *CacheController) Sweep(c echo.Context) error {
	deleted, err := controller.useCase.Sweep(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"deleted": deleted})
}
