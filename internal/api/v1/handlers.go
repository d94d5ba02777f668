package apiv1

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gympulse/gympulse/app/repository"
	"github.com/gympulse/gympulse/internal/pkg/access"
	"github.com/gympulse/gympulse/internal/pkg/settings"
	"github.com/gympulse/gympulse/internal/pkg/usercontext"
)

// APIServer implements the v1 JSON endpoints used by the turnstile scanner
// and the front-desk client.
type APIServer struct {
	engine  *access.Engine
	tokens  *access.Manager
	members repository.MemberRepository
	logs    repository.AccessLogRepository
}

// NewAPIServer creates a new API server wired to the global repositories.
func NewAPIServer() *APIServer {
	factory := repository.GetGlobalFactory()
	provider := settings.NewProvider(factory.GetSettingRepository())
	engine := access.NewEngine(
		factory.GetMemberRepository(),
		factory.GetMembershipRepository(),
		factory.GetPaymentRepository(),
		provider,
	)

	return &APIServer{
		engine: engine,
		tokens: access.NewManager(
			factory.GetQrTokenRepository(),
			factory.GetAccessLogRepository(),
			engine,
			provider,
		),
		members: factory.GetMemberRepository(),
		logs:    factory.GetAccessLogRepository(),
	}
}

// RegisterHandlers attaches the v1 routes. Everything except ping requires a
// staff session.
func RegisterHandlers(router fiber.Router, s *APIServer, auth fiber.Handler) {
	router.Get("/ping", s.GetPing)

	router.Post("/checkin/manual", auth, s.PostCheckinManual)
	router.Post("/qr/generate", auth, s.PostQrGenerate)
	router.Post("/qr/validate", auth, s.PostQrValidate)
	router.Get("/members/:id/access", auth, s.GetMemberAccess)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ping": "pong",
	})
}

type checkinRequest struct {
	MemberID     uint   `json:"member_id"`
	MemberNumber string `json:"member_number"`
}

type qrGenerateRequest struct {
	MemberID uint `json:"member_id"`
}

type qrValidateRequest struct {
	Token string `json:"token"`
}

// PostCheckinManual evaluates and records a manual check-in.
func (s *APIServer) PostCheckinManual(c *fiber.Ctx) error {
	var req checkinRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	memberID := req.MemberID
	if req.MemberNumber != "" {
		member, err := s.members.GetByMemberNumber(req.MemberNumber)
		if err != nil {
			return notFound(c, "member not found")
		}
		memberID = member.ID
	}
	if memberID == 0 {
		return badRequest(c, "member_id or member_number required")
	}

	verdict, err := s.engine.Evaluate(memberID)
	if err != nil {
		if errors.Is(err, access.ErrMemberNotFound) {
			return notFound(c, "member not found")
		}
		return internalError(c, err)
	}

	log, err := access.RecordManualAttempt(s.logs, memberID, verdict, usercontext.VerifiedBy(c))
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(verdictResponse(verdict, log.ID))
}

// PostQrGenerate issues a single-use token. The response is the only place
// the plaintext secret ever appears.
func (s *APIServer) PostQrGenerate(c *fiber.Ctx) error {
	var req qrGenerateRequest
	if err := c.BodyParser(&req); err != nil || req.MemberID == 0 {
		return badRequest(c, "member_id required")
	}

	if _, err := s.members.GetByID(req.MemberID); err != nil {
		return notFound(c, "member not found")
	}

	issued, err := s.tokens.Generate(req.MemberID)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(issued)
}

// PostQrValidate consumes a scanned token and returns the admission verdict.
// Unknown tokens get a deliberately generic 404.
func (s *APIServer) PostQrValidate(c *fiber.Ctx) error {
	var req qrValidateRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return badRequest(c, "token required")
	}

	result, err := s.tokens.Validate(req.Token, usercontext.VerifiedBy(c))
	if err != nil {
		if errors.Is(err, access.ErrTokenInvalid) {
			return notFound(c, "code not recognized")
		}
		return internalError(c, err)
	}

	resp := fiber.Map{
		"allowed": result.Allowed,
		"reason":  result.Reason,
	}
	if result.Verdict != nil {
		resp = verdictResponse(result.Verdict, result.Log.ID)
	}
	return c.JSON(resp)
}

// GetMemberAccess runs the admission checks without recording anything, for
// showing a member's standing in the back office.
func (s *APIServer) GetMemberAccess(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid member id")
	}

	verdict, err := s.engine.Evaluate(uint(id))
	if err != nil {
		if errors.Is(err, access.ErrMemberNotFound) {
			return notFound(c, "member not found")
		}
		return internalError(c, err)
	}

	return c.JSON(verdictResponse(verdict, 0))
}

func verdictResponse(v *access.Verdict, logID uint) fiber.Map {
	resp := fiber.Map{
		"allowed":           v.Allowed,
		"reason":            v.Reason,
		"membership_status": v.MembershipStatus,
		"days_remaining":    v.DaysRemaining,
	}
	if logID > 0 {
		resp["access_log_id"] = logID
	}
	if v.Member != nil {
		resp["member"] = fiber.Map{
			"id":            v.Member.ID,
			"member_number": v.Member.MemberNumber,
			"name":          v.Member.Name,
		}
	}
	if v.PaymentInfo != nil {
		resp["payment"] = v.PaymentInfo
	}
	if v.PaymentWarning != "" {
		resp["payment_warning"] = v.PaymentWarning
	}
	return resp
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "bad_request",
		"message": message,
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":   "not_found",
		"message": message,
	})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": err.Error(),
	})
}
