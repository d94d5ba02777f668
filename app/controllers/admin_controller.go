package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gympulse/gympulse/app/models"
	"github.com/gympulse/gympulse/app/repository"
	"github.com/gympulse/gympulse/internal/pkg/settings"
)

// ============================================================================
// ADMIN CONTROLLER - Settings and staff accounts
// ============================================================================

// AdminController handles admin-only HTTP requests using repository pattern
type AdminController struct {
	settingRepo repository.SettingRepository
	userRepo    repository.UserRepository
	settings    *settings.Provider
}

// NewAdminController creates a new admin controller with repositories
func NewAdminController(settingRepo repository.SettingRepository, userRepo repository.UserRepository, provider *settings.Provider) *AdminController {
	return &AdminController{
		settingRepo: settingRepo,
		userRepo:    userRepo,
		settings:    provider,
	}
}

// HandleAdminSettings renders the settings form with effective values,
// defaults included.
func (ac *AdminController) HandleAdminSettings(c *fiber.Ctx) error {
	return render(c, "admin/settings", fiber.Map{
		"Title":                    "Settings",
		"QrDurationSeconds":        ac.settings.QrDurationSeconds(),
		"QrReentryMinutes":         ac.settings.QrReentryMinutes(),
		"MorosityToleranceDays":    ac.settings.MorosityToleranceDays(),
		"PartialPaymentsEnabled":   ac.settings.PartialPaymentsEnabled(),
		"PartialDeadlineDays":      ac.settings.PartialPaymentsDeadlineDays(),
		"PartialGraceDays":         ac.settings.PartialPaymentsGraceDays(),
		"PartialAllowAccess":       ac.settings.PartialPaymentsAllowAccess(),
		"RequirePaymentToActivate": ac.settings.RequirePaymentToActivate(),
	})
}

// HandleAdminSettingsUpdate persists the settings form. Values apply to the
// next admission evaluation; nothing is cached.
func (ac *AdminController) HandleAdminSettingsUpdate(c *fiber.Ctx) error {
	intKeys := []string{
		settings.KeyQrDurationSeconds,
		settings.KeyQrReentryMinutes,
		settings.KeyMorosityToleranceDays,
		settings.KeyPartialDeadlineDays,
		settings.KeyPartialGraceDays,
	}
	for _, key := range intKeys {
		raw := strings.TrimSpace(c.FormValue(key))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return flashError(c, "Setting "+key+" must be a non-negative number", "/admin/settings")
		}
		if err := ac.settingRepo.SetValue(key, strconv.Itoa(v)); err != nil {
			return flashError(c, "Failed to save settings: "+err.Error(), "/admin/settings")
		}
	}

	boolKeys := []string{
		settings.KeyPartialPaymentsEnabled,
		settings.KeyPartialAllowAccess,
		settings.KeyRequirePaymentToActivate,
	}
	for _, key := range boolKeys {
		value := "false"
		if c.FormValue(key) == "1" {
			value = "true"
		}
		if err := ac.settingRepo.SetValue(key, value); err != nil {
			return flashError(c, "Failed to save settings: "+err.Error(), "/admin/settings")
		}
	}

	return flashSuccess(c, "Settings saved", "/admin/settings")
}

// HandleAdminUsers renders the staff account list
func (ac *AdminController) HandleAdminUsers(c *fiber.Ctx) error {
	users, err := ac.userRepo.List(0, 100)
	if err != nil {
		return flashError(c, "Failed to load staff accounts: "+err.Error(), "/admin/settings")
	}

	return render(c, "admin/users", fiber.Map{
		"Title": "Staff",
		"Users": users,
	})
}

// HandleAdminUserStore creates a staff account
func (ac *AdminController) HandleAdminUserStore(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	user, err := models.CreateUser(name, email, password)
	if err != nil {
		return flashError(c, "Invalid staff account: "+err.Error(), "/admin/users")
	}
	if c.FormValue("role") == models.ROLE_ADMIN {
		user.Role = models.ROLE_ADMIN
	}

	if err := ac.userRepo.Create(user); err != nil {
		return flashError(c, "Failed to create staff account: "+err.Error(), "/admin/users")
	}

	return flashSuccess(c, "Staff account created", "/admin/users")
}

// HandleAdminUserToggleStatus enables or disables a staff account
func (ac *AdminController) HandleAdminUserToggleStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/admin/users")
	}

	user, err := ac.userRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Staff account not found", "/admin/users")
	}

	if user.Status == models.STATUS_ACTIVE {
		user.Status = models.STATUS_DISABLED
	} else {
		user.Status = models.STATUS_ACTIVE
	}

	if err := ac.userRepo.Update(user); err != nil {
		return flashError(c, "Failed to update staff account: "+err.Error(), "/admin/users")
	}

	return flashSuccess(c, "Staff account updated", "/admin/users")
}

// ============================================================================
// GLOBAL ADMIN CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminController *AdminController

// InitializeAdminController initializes the global admin controller
func InitializeAdminController() {
	factory := repository.GetGlobalFactory()
	adminController = NewAdminController(
		factory.GetSettingRepository(),
		factory.GetUserRepository(),
		settingsProvider(),
	)
}

// GetAdminController returns the global admin controller instance
func GetAdminController() *AdminController {
	if adminController == nil {
		InitializeAdminController()
	}
	return adminController
}
