package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gympulse/gympulse/app/controllers"
	"github.com/gympulse/gympulse/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)

	ac := controllers.GetAdminController()
	adminGroup.Get("/settings", ac.HandleAdminSettings)
	adminGroup.Post("/settings", ac.HandleAdminSettingsUpdate)

	// Staff accounts
	adminGroup.Get("/users", ac.HandleAdminUsers)
	adminGroup.Post("/users/store", ac.HandleAdminUserStore)
	adminGroup.Post("/users/toggle-status/:id", ac.HandleAdminUserToggleStatus)
}
