package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yeremiapane/restaurant-orders/config"
	"github.com/yeremiapane/restaurant-orders/database"
	"github.com/yeremiapane/restaurant-orders/realtime"
	"github.com/yeremiapane/restaurant-orders/router"
	"github.com/yeremiapane/restaurant-orders/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, reading configuration from the environment")
	}
	utils.InitLogger()
}

func main() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(context.Background())
	if err != nil {
		utils.ErrorLogger.Fatalf("connect database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(db); err != nil {
		utils.ErrorLogger.Fatalf("seed: %v", err)
	}

	hub := realtime.NewHub()
	r := router.SetupRouter(db, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
