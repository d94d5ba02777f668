package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gympulse/gympulse/app/models"
	"github.com/gympulse/gympulse/app/repository"
	"github.com/gympulse/gympulse/internal/pkg/access"
	"github.com/gympulse/gympulse/internal/pkg/usercontext"
)

// ============================================================================
// PAYMENT CONTROLLER - Repository Pattern
// ============================================================================

// PaymentController handles payment HTTP requests using repository pattern
type PaymentController struct {
	paymentRepo    repository.PaymentRepository
	membershipRepo repository.MembershipRepository
}

// NewPaymentController creates a new payment controller with repositories
func NewPaymentController(paymentRepo repository.PaymentRepository, membershipRepo repository.MembershipRepository) *PaymentController {
	return &PaymentController{
		paymentRepo:    paymentRepo,
		membershipRepo: membershipRepo,
	}
}

// HandlePayments renders the recent payments list
func (pyc *PaymentController) HandlePayments(c *fiber.Ctx) error {
	payments, err := pyc.paymentRepo.ListRecent(50)
	if err != nil {
		return flashError(c, "Failed to load payments: "+err.Error(), "/")
	}

	amounts := make(map[uint]string, len(payments))
	for _, p := range payments {
		amounts[p.ID] = access.FormatAmount(p.AmountCents)
	}

	return render(c, "payments/index", fiber.Map{
		"Title":    "Payments",
		"Payments": payments,
		"Amounts":  amounts,
	})
}

// HandlePaymentStore records a payment against a member's current
// membership. When the membership was waiting on its first payment and the
// balance is now covered, it activates.
func (pyc *PaymentController) HandlePaymentStore(c *fiber.Ctx) error {
	memberID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/members")
	}
	memberURL := "/members/" + itoa(memberID)

	amount, err := parsePriceCents(c.FormValue("amount"))
	if err != nil || amount <= 0 {
		return flashError(c, "Amount must be a positive number", memberURL)
	}

	method := c.FormValue("method")
	switch method {
	case models.PAYMENT_METHOD_CASH, models.PAYMENT_METHOD_CARD, models.PAYMENT_METHOD_TRANSFER:
	default:
		return flashError(c, "Unknown payment method", memberURL)
	}

	membership, err := pyc.membershipRepo.FindCurrentByMember(memberID)
	if err != nil {
		return flashError(c, "Member has no current membership to pay for", memberURL)
	}

	payment, err := models.CreatePayment(memberID, &membership.ID, amount, method, time.Now())
	if err != nil {
		return flashError(c, "Invalid payment: "+err.Error(), memberURL)
	}
	payment.RecordedByID = usercontext.VerifiedBy(c)

	if err := pyc.paymentRepo.Create(payment); err != nil {
		return flashError(c, "Failed to record payment: "+err.Error(), memberURL)
	}

	if err := pyc.activateIfCovered(membership); err != nil {
		return flashError(c, "Payment recorded but activation failed: "+err.Error(), memberURL)
	}

	msg := "Payment of " + access.FormatAmount(amount) + " recorded (receipt " + payment.ReceiptNumber + ")"
	if membership.Status == models.MEMBERSHIP_STATUS_ACTIVE {
		return flashSuccess(c, msg, memberURL)
	}
	return flashSuccess(c, msg+", balance still open", memberURL)
}

// HandlePaymentVoid cancels a recorded payment, keeping the row as audit
// trail. Voiding never flips an activated membership back to
// pending_payment; the open balance resurfaces through the admission checks
// instead.
func (pyc *PaymentController) HandlePaymentVoid(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Redirect("/payments")
	}

	payment, err := pyc.paymentRepo.GetByID(id)
	if err != nil {
		return flashError(c, "Payment not found", "/payments")
	}
	memberURL := "/members/" + itoa(payment.MemberID)

	if payment.IsVoided() {
		return flashError(c, "Payment is already voided", memberURL)
	}

	reason := c.FormValue("reason")
	if reason == "" {
		return flashError(c, "A reason is required to void a payment", memberURL)
	}

	payment.Void(time.Now(), reason)
	if err := pyc.paymentRepo.Update(payment); err != nil {
		return flashError(c, "Failed to void payment: "+err.Error(), memberURL)
	}

	return flashSuccess(c, "Payment voided", memberURL)
}

// activateIfCovered flips a pending_payment membership to active once the
// non-voided payments cover the snapshotted amount.
func (pyc *PaymentController) activateIfCovered(membership *models.Membership) error {
	if membership.Status != models.MEMBERSHIP_STATUS_PENDING_PAYMENT {
		return nil
	}

	paid, err := pyc.paymentRepo.SumPaidByMembership(membership.ID)
	if err != nil {
		return err
	}
	if paid < membership.TotalAmount() {
		return nil
	}

	membership.Status = models.MEMBERSHIP_STATUS_ACTIVE
	return pyc.membershipRepo.Update(membership)
}

// ============================================================================
// GLOBAL PAYMENT CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var paymentController *PaymentController

// InitializePaymentController initializes the global payment controller
func InitializePaymentController() {
	factory := repository.GetGlobalFactory()
	paymentController = NewPaymentController(
		factory.GetPaymentRepository(),
		factory.GetMembershipRepository(),
	)
}

// GetPaymentController returns the global payment controller instance
func GetPaymentController() *PaymentController {
	if paymentController == nil {
		InitializePaymentController()
	}
	return paymentController
}
