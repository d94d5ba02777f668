package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/gympulse/gympulse/app/repository"
	"github.com/gympulse/gympulse/internal/pkg/statistics"
)

// HandleStart renders the dashboard with the cached counters and the most
// recent admission attempts.
func HandleStart(c *fiber.Ctx) error {
	data := statistics.GetDashboardData()

	logs, err := repository.GetGlobalRepositories().AccessLog.ListRecent(15)
	if err != nil {
		log.Printf("Failed to load recent check-ins: %v", err)
	}

	return render(c, "dashboard", fiber.Map{
		"Title":          "Dashboard",
		"ActiveMembers":  data.ActiveMembers,
		"CheckinsToday":  data.CheckinsToday,
		"PendingPayment": data.PendingPayment,
		"RecentLogs":     logs,
	})
}

// HandleAbout renders the static about page.
func HandleAbout(c *fiber.Ctx) error {
	return render(c, "about", fiber.Map{
		"Title": "About",
	})
}
