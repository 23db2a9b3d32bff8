package routes

import (
	"github.com/Seg4105-group6/FoodLogger/controllers"
	"github.com/Seg4105-group6/FoodLogger/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", controllers.Health)

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/analyze-meal", controllers.AnalyzeMeal)
		api.POST("/log-meal", controllers.LogMeal)

		api.GET("/logs", controllers.ListLogs)
		api.GET("/logs/summary/day", controllers.GetDaySummary)
		api.GET("/logs/summary/rolling", controllers.GetRollingSummary)
		api.GET("/logs/history", controllers.GetHistory)

		api.PUT("/logs/:id", controllers.UpdateMeal)
		api.DELETE("/logs/:id", controllers.DeleteMeal)
	}

	return r
}
