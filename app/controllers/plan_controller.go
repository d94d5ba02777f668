package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gympulse/gympulse/app/models"
	"github.com/gympulse/gympulse/app/repository"
	"github.com/gympulse/gympulse/internal/pkg/access"
)

// ============================================================================
// PLAN CONTROLLER - Repository Pattern
// ============================================================================

// PlanController handles plan-catalog HTTP requests using repository pattern
type PlanController struct {
	planRepo repository.PlanRepository
}

// NewPlanController creates a new plan controller with repository
func NewPlanController(planRepo repository.PlanRepository) *PlanController {
	return &PlanController{
		planRepo: planRepo,
	}
}

// HandlePlans renders the plan catalog
func (pc *PlanController) HandlePlans(c *fiber.Ctx) error {
	plans, err := pc.planRepo.List()
	if err != nil {
		return flashError(c, "Failed to load plans: "+err.Error(), "/")
	}

	prices := make(map[uint]string, len(plans))
	for _, p := range plans {
		prices[p.ID] = access.FormatAmount(p.PriceCents)
	}

	return render(c, "plans/index", fiber.Map{
		"Title":  "Plans",
		"Plans":  plans,
		"Prices": prices,
	})
}

// HandlePlanCreate renders the plan creation form
func (pc *PlanController) HandlePlanCreate(c *fiber.Ctx) error {
	return render(c, "plans/create", fiber.Map{
		"Title": "New Plan",
	})
}

// HandlePlanStore handles plan creation
func (pc *PlanController) HandlePlanStore(c *fiber.Ctx) error {
	plan, err := pc.planFromForm(c, &models.Plan{Active: true})
	if err != nil {
		return flashError(c, err.Error(), "/plans/create")
	}

	if err := pc.planRepo.Create(plan); err != nil {
		return flashError(c, "Failed to create plan: "+err.Error(), "/plans/create")
	}

	return flashSuccess(c, "Plan created", "/plans")
}

// HandlePlanEdit renders the plan edit form
func (pc *PlanController) HandlePlanEdit(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/plans")
	}

	plan, err := pc.planRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Plan not found", "/plans")
	}

	return render(c, "plans/edit", fiber.Map{
		"Title": "Edit " + plan.Name,
		"Plan":  plan,
		"Price": strconv.FormatFloat(float64(plan.PriceCents)/100, 'f', 2, 64),
	})
}

// HandlePlanUpdate handles plan updates. Price edits only affect future
// memberships; existing ones keep their snapshot.
func (pc *PlanController) HandlePlanUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/plans")
	}

	plan, err := pc.planRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Plan not found", "/plans")
	}

	plan.Active = c.FormValue("active") == "1"
	if _, err := pc.planFromForm(c, plan); err != nil {
		return flashError(c, err.Error(), "/plans/edit/"+itoa(id))
	}

	if err := pc.planRepo.Update(plan); err != nil {
		return flashError(c, "Failed to update plan: "+err.Error(), "/plans/edit/"+itoa(id))
	}

	return flashSuccess(c, "Plan updated", "/plans")
}

// planFromForm fills a plan from the shared create/edit form fields.
func (pc *PlanController) planFromForm(c *fiber.Ctx, plan *models.Plan) (*models.Plan, error) {
	plan.Name = strings.TrimSpace(c.FormValue("name"))
	plan.Description = c.FormValue("description")

	price, err := parsePriceCents(c.FormValue("price"))
	if err != nil {
		return nil, err
	}
	plan.PriceCents = price

	days, err := strconv.Atoi(c.FormValue("duration_days"))
	if err != nil || days <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Duration must be a positive number of days")
	}
	plan.DurationDays = days

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// parsePriceCents converts a decimal price form value into cents.
func parsePriceCents(raw string) (int64, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Price must be a non-negative amount")
	}
	return int64(f*100 + 0.5), nil
}

// ============================================================================
// GLOBAL PLAN CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var planController *PlanController

// InitializePlanController initializes the global plan controller
func InitializePlanController() {
	planController = NewPlanController(repository.GetGlobalFactory().GetPlanRepository())
}

// GetPlanController returns the global plan controller instance
func GetPlanController() *PlanController {
	if planController == nil {
		InitializePlanController()
	}
	return planController
}
