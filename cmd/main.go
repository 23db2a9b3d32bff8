package main

import (
	"os"

	"github.com/Seg4105-group6/FoodLogger/config"
	"github.com/Seg4105-group6/FoodLogger/controllers"
	"github.com/Seg4105-group6/FoodLogger/routes"
	"github.com/Seg4105-group6/FoodLogger/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	controllers.InitAnalysis()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter()
	r.Run(":" + port)
}
