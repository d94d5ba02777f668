package controllers

import (
	"encoding/base64"
	"errors"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/gympulse/gympulse/app/repository"
	"github.com/gympulse/gympulse/internal/pkg/access"
	"github.com/gympulse/gympulse/internal/pkg/usercontext"
)

// ============================================================================
// CHECKIN CONTROLLER - Front desk admission
// ============================================================================

// CheckinController handles the front-desk admission flows: manual check-in
// and the QR token lifecycle.
type CheckinController struct {
	memberRepo    repository.MemberRepository
	accessLogRepo repository.AccessLogRepository
	engine        *access.Engine
	tokens        *access.Manager
}

// NewCheckinController creates a new check-in controller
func NewCheckinController(
	memberRepo repository.MemberRepository,
	accessLogRepo repository.AccessLogRepository,
	engine *access.Engine,
	tokens *access.Manager,
) *CheckinController {
	return &CheckinController{
		memberRepo:    memberRepo,
		accessLogRepo: accessLogRepo,
		engine:        engine,
		tokens:        tokens,
	}
}

// HandleCheckin renders the check-in desk page
func (cc *CheckinController) HandleCheckin(c *fiber.Ctx) error {
	return render(c, "checkin/index", fiber.Map{
		"Title": "Check-in",
	})
}

// HandleCheckinManual evaluates a member at the desk and records the
// verdict. Allowed or denied, the attempt lands in the access log.
func (cc *CheckinController) HandleCheckinManual(c *fiber.Ctx) error {
	memberID, err := cc.resolveMember(c)
	if err != nil {
		return flashError(c, err.Error(), "/checkin")
	}

	verdict, err := cc.engine.Evaluate(memberID)
	if err != nil {
		if errors.Is(err, access.ErrMemberNotFound) {
			return flashError(c, "Member not found", "/checkin")
		}
		return flashError(c, "Check-in failed: "+err.Error(), "/checkin")
	}

	if _, err := access.RecordManualAttempt(cc.accessLogRepo, memberID, verdict, usercontext.VerifiedBy(c)); err != nil {
		return flashError(c, "Failed to record check-in: "+err.Error(), "/checkin")
	}

	return render(c, "checkin/result", fiber.Map{
		"Title":   "Check-in Result",
		"Verdict": verdict,
		"Member":  verdict.Member,
		"Warning": verdict.PaymentWarning,
	})
}

// HandleQrGenerate issues a fresh single-use token for a member and renders
// it as a QR image. The PNG is embedded as a data URI so the plaintext
// secret never appears in a request path or server log.
func (cc *CheckinController) HandleQrGenerate(c *fiber.Ctx) error {
	memberID, err := cc.resolveMember(c)
	if err != nil {
		return flashError(c, err.Error(), "/checkin")
	}

	member, err := cc.memberRepo.GetByID(memberID)
	if err != nil {
		return flashError(c, "Member not found", "/checkin")
	}

	issued, err := cc.tokens.Generate(memberID)
	if err != nil {
		return flashError(c, "Failed to issue QR code: "+err.Error(), "/checkin")
	}

	png, err := qrcode.Encode(issued.Token, qrcode.Medium, 256)
	if err != nil {
		return flashError(c, "Failed to render QR code: "+err.Error(), "/checkin")
	}

	return render(c, "checkin/qr", fiber.Map{
		"Title":     "QR Check-in Code",
		"Member":    member,
		"QrImage":   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		"ExpiresAt": issued.ExpiresAt,
	})
}

// HandleQrValidate validates a scanned token from the desk form. Unknown
// tokens get a generic message; everything else shows the logged verdict.
func (cc *CheckinController) HandleQrValidate(c *fiber.Ctx) error {
	token := c.FormValue("token")
	if token == "" {
		return flashError(c, "No code scanned", "/checkin")
	}

	result, err := cc.tokens.Validate(token, usercontext.VerifiedBy(c))
	if err != nil {
		if errors.Is(err, access.ErrTokenInvalid) {
			return flashError(c, "Code not recognized", "/checkin")
		}
		return flashError(c, "Validation failed: "+err.Error(), "/checkin")
	}

	bind := fiber.Map{
		"Title":   "Check-in Result",
		"Allowed": result.Allowed,
		"Reason":  result.Reason,
	}
	if result.Verdict != nil {
		bind["Verdict"] = result.Verdict
		bind["Member"] = result.Verdict.Member
		bind["Warning"] = result.Verdict.PaymentWarning
	}
	return render(c, "checkin/result", bind)
}

// HandleAccessLog renders the recent admission attempts
func (cc *CheckinController) HandleAccessLog(c *fiber.Ctx) error {
	logs, err := cc.accessLogRepo.ListRecent(100)
	if err != nil {
		return flashError(c, "Failed to load access log: "+err.Error(), "/")
	}

	return render(c, "checkin/log", fiber.Map{
		"Title": "Access Log",
		"Logs":  logs,
	})
}

// resolveMember finds the member referenced by the check-in form, either by
// numeric ID or by member number.
func (cc *CheckinController) resolveMember(c *fiber.Ctx) (uint, error) {
	if number := c.FormValue("member_number"); number != "" {
		member, err := cc.memberRepo.GetByMemberNumber(number)
		if err != nil {
			return 0, errors.New("No member with that number")
		}
		return member.ID, nil
	}

	id, err := parseFormID(c, "member_id")
	if err != nil {
		return 0, errors.New("A member must be selected")
	}
	return id, nil
}

// ============================================================================
// GLOBAL CHECKIN CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var checkinController *CheckinController

// InitializeCheckinController initializes the global check-in controller
func InitializeCheckinController() {
	factory := repository.GetGlobalFactory()
	engine := newAccessEngine()
	checkinController = NewCheckinController(
		factory.GetMemberRepository(),
		factory.GetAccessLogRepository(),
		engine,
		access.NewManager(
			factory.GetQrTokenRepository(),
			factory.GetAccessLogRepository(),
			engine,
			settingsProvider(),
		),
	)
}

// GetCheckinController returns the global check-in controller instance
func GetCheckinController() *CheckinController {
	if checkinController == nil {
		InitializeCheckinController()
	}
	return checkinController
}
