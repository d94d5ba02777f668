package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gympulse/gympulse/app/models"
	"github.com/gympulse/gympulse/app/repository"
	"github.com/gympulse/gympulse/internal/pkg/settings"
)

// ============================================================================
// MEMBERSHIP CONTROLLER - Repository Pattern
// ============================================================================

// MembershipController handles membership lifecycle HTTP requests
type MembershipController struct {
	memberRepo     repository.MemberRepository
	planRepo       repository.PlanRepository
	membershipRepo repository.MembershipRepository
	settings       *settings.Provider
}

// NewMembershipController creates a new membership controller with repositories
func NewMembershipController(
	memberRepo repository.MemberRepository,
	planRepo repository.PlanRepository,
	membershipRepo repository.MembershipRepository,
	provider *settings.Provider,
) *MembershipController {
	return &MembershipController{
		memberRepo:     memberRepo,
		planRepo:       planRepo,
		membershipRepo: membershipRepo,
		settings:       provider,
	}
}

// HandleMembershipCreate renders the membership creation form for a member
func (msc *MembershipController) HandleMembershipCreate(c *fiber.Ctx) error {
	memberID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}

	member, err := msc.memberRepo.GetByID(memberID)
	if err != nil {
		return flashError(c, "Member not found", "/members")
	}

	plans, err := msc.planRepo.ListActive()
	if err != nil {
		return flashError(c, "Failed to load plans: "+err.Error(), "/members/"+itoa(memberID))
	}

	return render(c, "memberships/create", fiber.Map{
		"Title":  "New Membership",
		"Member": member,
		"Plans":  plans,
	})
}

// HandleMembershipStore creates a membership for a member. The plan price is
// snapshotted into the membership; whether it starts active or
// pending_payment follows the require_payment_to_activate setting.
func (msc *MembershipController) HandleMembershipStore(c *fiber.Ctx) error {
	memberID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}
	memberURL := "/members/" + itoa(memberID)

	member, err := msc.memberRepo.GetByID(memberID)
	if err != nil {
		return flashError(c, "Member not found", "/members")
	}

	plan, err := msc.planFromForm(c)
	if err != nil {
		return flashError(c, err.Error(), memberURL)
	}

	// A member holds at most one current membership at a time
	if _, err := msc.membershipRepo.FindCurrentByMember(memberID); err == nil {
		return flashError(c, "Member already has a current membership", memberURL)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return flashError(c, "Failed to check memberships: "+err.Error(), memberURL)
	}

	startsAt := time.Now()
	if raw := c.FormValue("starts_at"); raw != "" {
		if parsed, perr := time.Parse("2006-01-02", raw); perr == nil {
			startsAt = parsed
		}
	}

	membership := models.CreateMembership(member, plan, startsAt, msc.settings.RequirePaymentToActivate())
	if err := msc.membershipRepo.Create(membership); err != nil {
		return flashError(c, "Failed to create membership: "+err.Error(), memberURL)
	}

	if membership.Status == models.MEMBERSHIP_STATUS_PENDING_PAYMENT {
		return flashSuccess(c, "Membership created, awaiting first payment", memberURL)
	}
	return flashSuccess(c, "Membership created", memberURL)
}

// HandleMembershipRenew creates a follow-up membership on the same plan. The
// new period starts when the previous one ends, or now if it already lapsed.
func (msc *MembershipController) HandleMembershipRenew(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}

	previous, err := msc.membershipRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Membership not found", "/members")
	}
	memberURL := "/members/" + itoa(previous.MemberID)

	member, err := msc.memberRepo.GetByID(previous.MemberID)
	if err != nil {
		return flashError(c, "Member not found", "/members")
	}

	plan, err := msc.planRepo.GetByID(previous.PlanID)
	if err != nil {
		return flashError(c, "Plan no longer exists", memberURL)
	}

	startsAt := time.Now()
	if previous.EndsAt.After(startsAt) {
		startsAt = previous.EndsAt
	}

	renewal := models.CreateMembership(member, plan, startsAt, msc.settings.RequirePaymentToActivate())
	if err := msc.membershipRepo.Create(renewal); err != nil {
		return flashError(c, "Failed to renew membership: "+err.Error(), memberURL)
	}

	return flashSuccess(c, "Membership renewed", memberURL)
}

// HandleMembershipFreeze pauses an active membership
func (msc *MembershipController) HandleMembershipFreeze(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}

	membership, err := msc.membershipRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Membership not found", "/members")
	}
	memberURL := "/members/" + itoa(membership.MemberID)

	if membership.Status != models.MEMBERSHIP_STATUS_ACTIVE {
		return flashError(c, "Only active memberships can be frozen", memberURL)
	}

	membership.Freeze(time.Now())
	if err := msc.membershipRepo.Update(membership); err != nil {
		return flashError(c, "Failed to freeze membership: "+err.Error(), memberURL)
	}

	return flashSuccess(c, "Membership frozen", memberURL)
}

// HandleMembershipUnfreeze resumes a frozen membership, extending its end
// date by the days spent frozen
func (msc *MembershipController) HandleMembershipUnfreeze(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}

	membership, err := msc.membershipRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Membership not found", "/members")
	}
	memberURL := "/members/" + itoa(membership.MemberID)

	if membership.Status != models.MEMBERSHIP_STATUS_FROZEN {
		return flashError(c, "Only frozen memberships can be unfrozen", memberURL)
	}

	membership.Unfreeze(time.Now())
	if err := msc.membershipRepo.Update(membership); err != nil {
		return flashError(c, "Failed to unfreeze membership: "+err.Error(), memberURL)
	}

	return flashSuccess(c, "Membership active again", memberURL)
}

// HandleMembershipCancel cancels a current membership with an audit reason
func (msc *MembershipController) HandleMembershipCancel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}

	membership, err := msc.membershipRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Membership not found", "/members")
	}
	memberURL := "/members/" + itoa(membership.MemberID)

	switch membership.Status {
	case models.MEMBERSHIP_STATUS_CANCELLED:
		return flashError(c, "Membership is already cancelled", memberURL)
	case models.MEMBERSHIP_STATUS_EXPIRED:
		return flashError(c, "Expired memberships cannot be cancelled", memberURL)
	}

	membership.Cancel(time.Now(), c.FormValue("reason"))
	if err := msc.membershipRepo.Update(membership); err != nil {
		return flashError(c, "Failed to cancel membership: "+err.Error(), memberURL)
	}

	return flashSuccess(c, "Membership cancelled", memberURL)
}

// planFromForm resolves the plan selected in the membership form.
func (msc *MembershipController) planFromForm(c *fiber.Ctx) (*models.Plan, error) {
	planID, err := parseFormID(c, "plan_id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "A plan must be selected")
	}

	plan, err := msc.planRepo.GetByID(planID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Selected plan does not exist")
	}
	if !plan.Active {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Selected plan is no longer offered")
	}
	return plan, nil
}

// ============================================================================
// GLOBAL MEMBERSHIP CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var membershipController *MembershipController

// InitializeMembershipController initializes the global membership controller
func InitializeMembershipController() {
	factory := repository.GetGlobalFactory()
	membershipController = NewMembershipController(
		factory.GetMemberRepository(),
		factory.GetPlanRepository(),
		factory.GetMembershipRepository(),
		settingsProvider(),
	)
}

// GetMembershipController returns the global membership controller instance
func GetMembershipController() *MembershipController {
	if membershipController == nil {
		InitializeMembershipController()
	}
	return membershipController
}
