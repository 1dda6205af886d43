package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/benbeisheim/alphabeta-chess/internal/config"
	"github.com/benbeisheim/alphabeta-chess/internal/controller"
	"github.com/benbeisheim/alphabeta-chess/internal/service"
)

func main() {
	cfg, err := config.FromEnvironment()
	if err != nil {
		log.Errorw("invalid configuration", "error", err)
		os.Exit(2)
	}
	log.SetLevel(cfg.LogLevel)

	app := fiber.New(fiber.Config{
		AppName: "alphabeta-chess",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.OriginsHeader(),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager(cfg.SearchDepth, cfg.SearchWorkers)
	gameService := service.NewGameService(gameManager)

	controller.SetupRoutes(app, gameService, cfg.AllowedOrigins)

	log.Infow("server starting", "addr", cfg.Addr, "depth", cfg.SearchDepth, "workers", cfg.SearchWorkers)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
