// Package routes defines the API routing configuration.
package routes

import (
	"tally/internal/config"
	"tally/internal/handlers"
	"tally/internal/middleware"
	"tally/internal/repositories"
	"tally/internal/services/account"
	"tally/internal/services/auth"
	"tally/internal/services/transfer"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, services and handlers, and registers
// all HTTP routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	userRepo := repositories.NewUserRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	transferRepo := repositories.NewTransferRepository(db)

	startingBalance := config.GetDecimalEnv("STARTING_BALANCE", "1000.00")

	authService := auth.NewService(userRepo, accountRepo, startingBalance)
	accountService := account.NewService(accountRepo, repositories.CacheService)
	transferService := transfer.NewService(accountService, transferRepo)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	transferHandler := handlers.NewTransferHandler(transferService)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Protected endpoints
	api.Use(middleware.Auth)

	api.Get("/users", userHandler.ListUsers)
	api.Get("/users/:id", userHandler.GetUser)
	api.Get("/balance", accountHandler.GetBalance)
	api.Get("/account", accountHandler.GetAccount)

	transfers := api.Group("/transfers")
	transfers.Get("/", transferHandler.List)
	transfers.Get("/pending", transferHandler.ListPending)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Post("/send", transferHandler.Send)
	transfers.Post("/request", transferHandler.Request)
	transfers.Post("/:id/decision", transferHandler.Decide)
}
