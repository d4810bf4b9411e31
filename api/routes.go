package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the network endpoints on rg.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	GET  /v1/health - Liveness
//	POST /v1/analyze - Balances, insights, cycles and the net plan
//	POST /v1/cycles/shortest-back - Cycle closing one debt, with condonations
//	POST /v1/cycles/apply - Apply that cycle and return the updated network
//	POST /v1/settlements - Net-balance settlement plan
//	POST /v1/paths - Cheapest routes from one party
//	POST /v1/merge - Merge two networks
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	rg.GET("/health", handlers.HandleHealth)
	rg.POST("/analyze", handlers.HandleAnalyze)
	rg.POST("/settlements", handlers.HandleSettlements)
	rg.POST("/paths", handlers.HandlePaths)
	rg.POST("/merge", handlers.HandleMerge)

	cycles := rg.Group("/cycles")
	{
		cycles.POST("/shortest-back", handlers.HandleShortestBack)
		cycles.POST("/apply", handlers.HandleApply)
	}
}
