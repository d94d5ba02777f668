package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gympulse/gympulse/app/models"
	"github.com/gympulse/gympulse/app/repository"
	"github.com/gympulse/gympulse/internal/pkg/access"
)

// ============================================================================
// MEMBER CONTROLLER - Repository Pattern
// ============================================================================

// MemberController handles member-related HTTP requests using repository pattern
type MemberController struct {
	memberRepo     repository.MemberRepository
	membershipRepo repository.MembershipRepository
	paymentRepo    repository.PaymentRepository
	accessLogRepo  repository.AccessLogRepository
	engine         *access.Engine
}

// NewMemberController creates a new member controller with repositories
func NewMemberController(
	memberRepo repository.MemberRepository,
	membershipRepo repository.MembershipRepository,
	paymentRepo repository.PaymentRepository,
	accessLogRepo repository.AccessLogRepository,
	engine *access.Engine,
) *MemberController {
	return &MemberController{
		memberRepo:     memberRepo,
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		accessLogRepo:  accessLogRepo,
		engine:         engine,
	}
}

// HandleMembers renders the member list, optionally filtered by a search query
func (mc *MemberController) HandleMembers(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))

	var (
		members []models.Member
		err     error
	)
	if query != "" {
		members, err = mc.memberRepo.Search(query)
	} else {
		members, err = mc.memberRepo.List(0, 100)
	}
	if err != nil {
		return flashError(c, "Failed to load members: "+err.Error(), "/")
	}

	return render(c, "members/index", fiber.Map{
		"Title":   "Members",
		"Members": members,
		"Query":   query,
	})
}

// HandleMemberCreate renders the member creation form
func (mc *MemberController) HandleMemberCreate(c *fiber.Ctx) error {
	return render(c, "members/create", fiber.Map{
		"Title": "New Member",
	})
}

// HandleMemberStore handles member creation
func (mc *MemberController) HandleMemberStore(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	phone := strings.TrimSpace(c.FormValue("phone"))

	if name == "" {
		return flashError(c, "Name is required", "/members/create")
	}

	member, err := models.CreateMember(name, email, phone)
	if err != nil {
		return flashError(c, "Invalid member data: "+err.Error(), "/members/create")
	}
	member.Notes = c.FormValue("notes")

	if err := mc.memberRepo.Create(member); err != nil {
		return flashError(c, "Failed to create member: "+err.Error(), "/members/create")
	}

	return flashSuccess(c, "Member created", "/members/"+itoa(member.ID))
}

// HandleMemberShow renders the member detail page: profile, current
// membership with derived state, payment history and recent check-ins.
func (mc *MemberController) HandleMemberShow(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}

	member, err := mc.memberRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Member not found", "/members")
	}

	memberships, err := mc.membershipRepo.ListByMember(id)
	if err != nil {
		return flashError(c, "Failed to load memberships: "+err.Error(), "/members")
	}

	payments, err := mc.paymentRepo.ListByMember(id)
	if err != nil {
		return flashError(c, "Failed to load payments: "+err.Error(), "/members")
	}

	logs, err := mc.accessLogRepo.ListByMember(id, 0, 20)
	if err != nil {
		return flashError(c, "Failed to load check-ins: "+err.Error(), "/members")
	}

	bind := fiber.Map{
		"Title":       member.Name,
		"Member":      member,
		"Memberships": memberships,
		"Payments":    payments,
		"AccessLogs":  logs,
	}

	// Dry-run verdict so the front desk sees the member's standing without
	// creating an access log entry.
	verdict, err := mc.engine.Evaluate(id)
	if err == nil {
		bind["Verdict"] = verdict
		if verdict.PaymentInfo != nil {
			bind["PendingAmount"] = access.FormatAmount(verdict.PaymentInfo.PendingCents)
		}
	}

	// Current membership with pending balance for the payment form
	current, err := mc.membershipRepo.FindCurrentByMember(id)
	if err == nil {
		paid, sumErr := mc.paymentRepo.SumPaidByMembership(current.ID)
		if sumErr == nil {
			bind["CurrentMembership"] = current
			bind["PaidAmount"] = access.FormatAmount(paid)
			bind["TotalAmount"] = access.FormatAmount(current.TotalAmount())
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return flashError(c, "Failed to load membership: "+err.Error(), "/members")
	}

	return render(c, "members/show", bind)
}

// HandleMemberEdit renders the member edit form
func (mc *MemberController) HandleMemberEdit(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}

	member, err := mc.memberRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Member not found", "/members")
	}

	return render(c, "members/edit", fiber.Map{
		"Title":  "Edit " + member.Name,
		"Member": member,
	})
}

// HandleMemberUpdate handles member updates
func (mc *MemberController) HandleMemberUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}

	member, err := mc.memberRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Member not found", "/members")
	}

	member.Name = strings.TrimSpace(c.FormValue("name"))
	member.Email = strings.TrimSpace(c.FormValue("email"))
	member.Phone = strings.TrimSpace(c.FormValue("phone"))
	member.Notes = c.FormValue("notes")

	if err := member.Validate(); err != nil {
		return flashError(c, "Invalid member data: "+err.Error(), "/members/edit/"+itoa(id))
	}

	if err := mc.memberRepo.Update(member); err != nil {
		return flashError(c, "Failed to update member: "+err.Error(), "/members/edit/"+itoa(id))
	}

	return flashSuccess(c, "Member updated", "/members/"+itoa(id))
}

// HandleMemberToggleActive flips the member-level active flag. An inactive
// member is denied at the door regardless of membership state.
func (mc *MemberController) HandleMemberToggleActive(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}

	member, err := mc.memberRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Member not found", "/members")
	}

	member.Active = !member.Active
	if err := mc.memberRepo.Update(member); err != nil {
		return flashError(c, "Failed to update member: "+err.Error(), "/members/"+itoa(id))
	}

	msg := "Member deactivated"
	if member.Active {
		msg = "Member reactivated"
	}
	return flashSuccess(c, msg, "/members/"+itoa(id))
}

// ============================================================================
// GLOBAL MEMBER CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var memberController *MemberController

// InitializeMemberController initializes the global member controller
func InitializeMemberController() {
	factory := repository.GetGlobalFactory()
	memberController = NewMemberController(
		factory.GetMemberRepository(),
		factory.GetMembershipRepository(),
		factory.GetPaymentRepository(),
		factory.GetAccessLogRepository(),
		newAccessEngine(),
	)
}

// GetMemberController returns the global member controller instance
func GetMemberController() *MemberController {
	if memberController == nil {
		InitializeMemberController()
	}
	return memberController
}
