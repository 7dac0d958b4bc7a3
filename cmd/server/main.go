package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fifteenmin/fifteenmin/internal/auth"
	"github.com/fifteenmin/fifteenmin/internal/config"
	"github.com/fifteenmin/fifteenmin/internal/handlers"
	"github.com/fifteenmin/fifteenmin/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfgPath := os.Getenv("CONFIG_FILE")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := services.NewFirestoreService(context.Background(), cfg.FirestoreProject)
	if err != nil {
		log.Fatalf("Failed to create Firestore service: %v", err)
	}
	defer store.Close()

	api := handlers.NewAPI(store)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	g := e.Group("/api", auth.Middleware(cfg.JWTSecret))
	api.Register(g)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
