package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/gympulse/gympulse/app/controllers"
	"github.com/gympulse/gympulse/internal/pkg/env"
	"github.com/gympulse/gympulse/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))

	// Auth
	group.Get("/login", controllers.HandleAuthLogin)
	group.Post("/login", controllers.HandleAuthLogin)
	group.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Dashboard + static pages
	group.Get("/", middleware.RequireAuth, controllers.HandleStart)
	group.Get("/about", controllers.HandleAbout)

	// Members
	mc := controllers.GetMemberController()
	group.Get("/members", middleware.RequireAuth, mc.HandleMembers)
	group.Get("/members/create", middleware.RequireAuth, mc.HandleMemberCreate)
	group.Post("/members/store", middleware.RequireAuth, mc.HandleMemberStore)
	group.Get("/members/edit/:id", middleware.RequireAuth, mc.HandleMemberEdit)
	group.Post("/members/update/:id", middleware.RequireAuth, mc.HandleMemberUpdate)
	group.Post("/members/toggle-active/:id", middleware.RequireAuth, mc.HandleMemberToggleActive)
	group.Get("/members/:id", middleware.RequireAuth, mc.HandleMemberShow)

	// Plans
	pc := controllers.GetPlanController()
	group.Get("/plans", middleware.RequireAuth, pc.HandlePlans)
	group.Get("/plans/create", middleware.RequireAuth, pc.HandlePlanCreate)
	group.Post("/plans/store", middleware.RequireAuth, pc.HandlePlanStore)
	group.Get("/plans/edit/:id", middleware.RequireAuth, pc.HandlePlanEdit)
	group.Post("/plans/update/:id", middleware.RequireAuth, pc.HandlePlanUpdate)

	// Memberships
	msc := controllers.GetMembershipController()
	group.Get("/members/:id/memberships/create", middleware.RequireAuth, msc.HandleMembershipCreate)
	group.Post("/members/:id/memberships/store", middleware.RequireAuth, msc.HandleMembershipStore)
	group.Post("/memberships/renew/:id", middleware.RequireAuth, msc.HandleMembershipRenew)
	group.Post("/memberships/freeze/:id", middleware.RequireAuth, msc.HandleMembershipFreeze)
	group.Post("/memberships/unfreeze/:id", middleware.RequireAuth, msc.HandleMembershipUnfreeze)
	group.Post("/memberships/cancel/:id", middleware.RequireAuth, msc.HandleMembershipCancel)

	// Payments
	pyc := controllers.GetPaymentController()
	group.Get("/payments", middleware.RequireAuth, pyc.HandlePayments)
	group.Post("/members/:id/payments", middleware.RequireAuth, pyc.HandlePaymentStore)
	group.Post("/payments/void/:id", middleware.RequireAuth, pyc.HandlePaymentVoid)

	// Check-in desk
	cc := controllers.GetCheckinController()
	group.Get("/checkin", middleware.RequireAuth, cc.HandleCheckin)
	group.Post("/checkin/manual", middleware.RequireAuth, cc.HandleCheckinManual)
	group.Post("/checkin/qr/generate", middleware.RequireAuth, cc.HandleQrGenerate)
	group.Post("/checkin/qr/validate", middleware.RequireAuth, cc.HandleQrValidate)
	group.Get("/access-log", middleware.RequireAuth, cc.HandleAccessLog)
}
