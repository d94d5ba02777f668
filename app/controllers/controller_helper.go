package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/gympulse/gympulse/app/repository"
	"github.com/gympulse/gympulse/internal/pkg/access"
	"github.com/gympulse/gympulse/internal/pkg/settings"
	"github.com/gympulse/gympulse/internal/pkg/usercontext"
)

// render wraps c.Render with the shared layout and the bindings every page
// needs (flash message, user context).
func render(c *fiber.Ctx, template string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}

	userCtx := usercontext.GetUserContext(c)
	bind["IsLoggedIn"] = userCtx.IsLoggedIn
	bind["IsAdmin"] = userCtx.IsAdmin
	bind["Username"] = userCtx.Username

	if token, ok := c.Locals("csrf").(string); ok {
		bind["CSRFToken"] = token
	}

	fm := flash.Get(c)
	if msg, ok := fm["message"]; ok {
		bind["FlashMessage"] = msg
		bind["FlashType"] = fm["type"]
	}

	return c.Render(template, bind, "layouts/main")
}

// parseIDParam reads a numeric :id style route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseFormID reads a numeric ID form value.
func parseFormID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.FormValue(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// flashError redirects with an error flash message.
func flashError(c *fiber.Ctx, message, target string) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message,
	}
	return flash.WithError(c, fm).Redirect(target)
}

// flashSuccess redirects with a success flash message.
func flashSuccess(c *fiber.Ctx, message, target string) error {
	fm := fiber.Map{
		"type":    "success",
		"message": message,
	}
	return flash.WithSuccess(c, fm).Redirect(target)
}

// itoa renders a record ID for URL building.
func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// settingsProvider builds a settings reader over the global setting
// repository. Providers are stateless, so fresh instances are cheap.
func settingsProvider() *settings.Provider {
	return settings.NewProvider(repository.GetGlobalFactory().GetSettingRepository())
}

// newAccessEngine wires the admission decision engine from the global
// repositories and settings.
func newAccessEngine() *access.Engine {
	factory := repository.GetGlobalFactory()
	return access.NewEngine(
		factory.GetMemberRepository(),
		factory.GetMembershipRepository(),
		factory.GetPaymentRepository(),
		settingsProvider(),
	)
}
