package core

import (
	"context"
	"fmt"
	"time"
)

type OfferStatus string
type OfferType string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusDeclined OfferStatus = "declined"
	OfferStatusExpired  OfferStatus = "expired"
)

const (
	OfferTypeLoan   OfferType = "loan"
	OfferTypeISA    OfferType = "isa"
	OfferTypeHybrid OfferType = "hybrid"
)

// OfferValidity is how long an offer remains open after generation.
const OfferValidity = 14 * 24 * time.Hour

// RepaymentSchedule summarises repayment. MonthlyPayment is nil for pure ISA
// offers, whose repayments are income-contingent.
type RepaymentSchedule struct {
	MonthlyPayment   *float64 `json:"monthly_payment,omitempty"`
	TotalRepayment   *float64 `json:"total_repayment,omitempty"`
	PaymentCap       *float64 `json:"payment_cap,omitempty"`
	FirstPaymentDate string   `json:"first_payment_date"` // YYYY-MM-DD
}

type TermsAndConditions struct {
	EligibilityRequirements []string `json:"eligibility_requirements"`
	SpecialConditions       []string `json:"special_conditions"`
	Benefits                []string `json:"benefits"`
}

// LoanOffer is derived from exactly one RiskAssessment. Field names and units
// (months, percentages, GBP decimals) are consumed verbatim by document export.
type LoanOffer struct {
	ID                  string             `json:"id"`
	ApplicationID       string             `json:"application_id"`
	AssessmentID        string             `json:"assessment_id"`
	OfferType           OfferType          `json:"offer_type"`
	RequestedAmount     float64            `json:"requested_amount"`
	LoanAmount          float64            `json:"loan_amount"`
	APRRate             *float64           `json:"apr_rate,omitempty"`
	ISAPercentage       *float64           `json:"isa_percentage,omitempty"`
	LoanPortion         *float64           `json:"loan_portion,omitempty"`
	ISAPortion          *float64           `json:"isa_portion,omitempty"`
	RepaymentTermMonths int                `json:"repayment_term_months"`
	GracePeriodMonths   int                `json:"grace_period_months"`
	RepaymentSchedule   RepaymentSchedule  `json:"repayment_schedule"`
	TermsAndConditions  TermsAndConditions `json:"terms_and_conditions"`
	Status              OfferStatus        `json:"status"`
	CreatedAt           time.Time          `json:"created_at"`
	OfferValidUntil     time.Time          `json:"offer_valid_until"`
	AcceptedAt          *time.Time         `json:"accepted_at,omitempty"`
	DeclinedAt          *time.Time         `json:"declined_at,omitempty"`
}

type OfferRepo interface {
	Create(ctx context.Context, offer LoanOffer) error
	Get(ctx context.Context, id string) (LoanOffer, error)
	GetByApplicationID(ctx context.Context, appID string) (LoanOffer, error)
	Update(ctx context.Context, offer LoanOffer) error
	ExpireOffers(ctx context.Context, before time.Time) (int64, error)
}

// CanTransitionTo checks if a status transition is valid.
func (s OfferStatus) CanTransitionTo(next OfferStatus) bool {
	transitions := map[OfferStatus][]OfferStatus{
		OfferStatusPending: {OfferStatusAccepted, OfferStatusDeclined, OfferStatusExpired},
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsExpired checks if the offer has expired.
func (o LoanOffer) IsExpired(now time.Time) bool {
	return now.After(o.OfferValidUntil)
}

var (
	ErrOfferNotFound   = fmt.Errorf("%w: offer not found", ErrNotFound)
	ErrOfferExists     = fmt.Errorf("%w: offer already exists for assessment", ErrConflict)
	ErrOfferExpired    = fmt.Errorf("%w: offer has expired", ErrInvalidState)
	ErrOfferNotPending = fmt.Errorf("%w: offer is not in pending status", ErrInvalidState)
	ErrAppNotApproved  = fmt.Errorf("%w: application is not approved", ErrInvalidState)
)
