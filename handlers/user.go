package handlers

import (
	"photo-contest-system/middleware"
	"photo-contest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, ledgerService *services.LedgerService) {
	// 🔓 Public routes
	app.Post("/users/register", userService.RegisterUserEndpoint)

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())
	secured.Get("/users/me/stats", userService.GetUserStatisticsEndpoint)
	secured.Get("/users/me/balance", ledgerService.GetBalanceEndpoint)
}
