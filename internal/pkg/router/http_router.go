package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gympulse/gympulse/app/controllers"
	"github.com/gympulse/gympulse/internal/pkg/middleware"
	"github.com/gympulse/gympulse/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize controllers with repositories
	controllers.InitializeMemberController()
	controllers.InitializePlanController()
	controllers.InitializeMembershipController()
	controllers.InitializePaymentController()
	controllers.InitializeCheckinController()
	controllers.InitializeAdminController()

	h.registerCSRFProtectedRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
