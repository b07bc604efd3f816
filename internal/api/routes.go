package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/match/:id", handler.RunMatch)
		api.GET("/properties/:id/zones", handler.GetPropertyZones)
		api.GET("/buyers/consolidated", handler.GetConsolidatedBuyers)
		api.GET("/zones/health", handler.GetZoneHealth)
		api.POST("/zones/reload", handler.ReloadZones)
		api.GET("/zones/geojson", handler.GetZoneCoverage)
		api.POST("/update-coordinates", handler.UpdateCoordinates)
	}
}
