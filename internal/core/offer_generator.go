package core

import (
	"fmt"
	"math"
	"time"
)

// DefaultRequestedAmount is used when the requested amount cannot be read.
const DefaultRequestedAmount = 10000

// Affordability haircut never shrinks an offer below half the capped amount.
const minAffordabilityMultiplier = 0.5

const (
	isaTermMonths      = 60
	isaGraceMonths     = 6
	isaPaymentCapRatio = 1.5

	hybridTermMonths  = 48
	hybridGraceMonths = 6
	hybridLoanShare   = 0.6
	hybridAPRUplift   = 1.0
	hybridISADiscount = 1.0
)

// tierPricing holds the per-tier commercial terms. Cheaper terms for lower risk.
type tierPricing struct {
	amountCap   float64
	baseAPR     float64
	isaPercent  float64
	termMonths  int
	graceMonths int
}

var pricing = map[RiskTier]tierPricing{
	RiskTierLow:    {amountCap: 50000, baseAPR: 6.5, isaPercent: 8, termMonths: 36, graceMonths: 6},
	RiskTierMedium: {amountCap: 35000, baseAPR: 9.5, isaPercent: 10, termMonths: 48, graceMonths: 3},
	RiskTierHigh:   {amountCap: 15000, baseAPR: 12.5, isaPercent: 12, termMonths: 60, graceMonths: 3},
}

// pricingFor falls back to the most conservative tier for unknown values.
func pricingFor(tier RiskTier) tierPricing {
	if p, ok := pricing[tier]; ok {
		return p
	}
	return pricing[RiskTierHigh]
}

// ParseAmount reads the first numeric run from a free-text amount, ignoring
// thousands separators.
func ParseAmount(s string) (float64, bool) {
	v, ok := parseFirstNumber(s)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// CapAmount applies the tier ceiling and the affordability haircut.
func CapAmount(requested float64, tier RiskTier, affordabilityScore int) float64 {
	capped := math.Min(requested, pricingFor(tier).amountCap)
	multiplier := math.Max(minAffordabilityMultiplier, float64(affordabilityScore)/100)
	multiplier = math.Min(multiplier, 1)

	// Rounding to whole pounds must not lift a fractional request above itself.
	amount := math.Round(capped * multiplier)
	if amount > capped {
		amount = math.Floor(capped * multiplier)
	}
	return amount
}

// SelectOfferType picks the archetype. Career microloans and high-risk
// applicants get income-share agreements.
func SelectOfferType(requested LoanType, tier RiskTier) OfferType {
	switch {
	case requested == LoanTypeCareerMicroloan || tier == RiskTierHigh:
		return OfferTypeISA
	case tier == RiskTierLow:
		return OfferTypeLoan
	default:
		return OfferTypeHybrid
	}
}

// LoanAPR is the tier base rate fine-tuned by score, to one decimal place.
func LoanAPR(tier RiskTier, riskScore int) float64 {
	apr := pricingFor(tier).baseAPR + float64(80-riskScore)*0.05
	return round1(apr)
}

// GenerateOffer builds the offer for an assessment. now drives the first
// payment date and the expiry; everything else is a pure function of the
// inputs. The caller assigns the ID.
func GenerateOffer(app LoanApplication, a RiskAssessment, now time.Time) LoanOffer {
	// 1) Requested amount
	requested, ok := ParseAmount(app.Loan.Amount)
	if !ok {
		requested = DefaultRequestedAmount
	}

	// 2) Cap and haircut
	amount := CapAmount(requested, a.RiskTier, a.SubScores.Affordability.Score)

	// 3) Archetype
	offerType := SelectOfferType(app.Loan.Type, a.RiskTier)

	offer := LoanOffer{
		ApplicationID:   app.ID,
		AssessmentID:    a.ID,
		OfferType:       offerType,
		RequestedAmount: requested,
		LoanAmount:      amount,
		Status:          OfferStatusPending,
		CreatedAt:       now,
		OfferValidUntil: now.Add(OfferValidity),
	}

	// 4) Type-specific terms
	tp := pricingFor(a.RiskTier)
	baseAPR := LoanAPR(a.RiskTier, a.RiskScore)

	switch offerType {
	case OfferTypeLoan:
		monthly := math.Round(MonthlyPayment(amount, baseAPR, tp.termMonths))
		total := TotalRepayment(monthly, tp.termMonths)
		offer.APRRate = ptr(baseAPR)
		offer.RepaymentTermMonths = tp.termMonths
		offer.GracePeriodMonths = tp.graceMonths
		offer.RepaymentSchedule.MonthlyPayment = ptr(monthly)
		offer.RepaymentSchedule.TotalRepayment = ptr(total)
		offer.TermsAndConditions = loanTerms(amount, baseAPR, tp.termMonths, tp.graceMonths)

	case OfferTypeISA:
		paymentCap := math.Round(amount * isaPaymentCapRatio)
		offer.ISAPercentage = ptr(tp.isaPercent)
		offer.RepaymentTermMonths = isaTermMonths
		offer.GracePeriodMonths = isaGraceMonths
		offer.RepaymentSchedule.PaymentCap = ptr(paymentCap)
		offer.TermsAndConditions = isaTerms(tp.isaPercent, paymentCap)

	default:
		loanPortion := math.Round(amount * hybridLoanShare)
		isaPortion := amount - loanPortion
		apr := round1(baseAPR + hybridAPRUplift)
		isaPercent := tp.isaPercent - hybridISADiscount
		monthly := math.Round(MonthlyPayment(loanPortion, apr, hybridTermMonths))
		paymentCap := math.Round(isaPortion * isaPaymentCapRatio)

		offer.APRRate = ptr(apr)
		offer.ISAPercentage = ptr(isaPercent)
		offer.LoanPortion = ptr(loanPortion)
		offer.ISAPortion = ptr(isaPortion)
		offer.RepaymentTermMonths = hybridTermMonths
		offer.GracePeriodMonths = hybridGraceMonths
		offer.RepaymentSchedule.MonthlyPayment = ptr(monthly)
		offer.RepaymentSchedule.TotalRepayment = ptr(TotalRepayment(monthly, hybridTermMonths))
		offer.RepaymentSchedule.PaymentCap = ptr(paymentCap)
		offer.TermsAndConditions = hybridTerms(apr, isaPercent, paymentCap)
	}

	// 5) First payment after the grace period
	offer.RepaymentSchedule.FirstPaymentDate = now.AddDate(0, offer.GracePeriodMonths, 0).Format("2006-01-02")

	return offer
}

func loanTerms(amount, apr float64, term, grace int) TermsAndConditions {
	return TermsAndConditions{
		EligibilityRequirements: []string{
			"Proof of enrolment or admission to the programme",
			"Valid government-issued photo ID",
			"UK bank account for disbursement and repayments",
		},
		SpecialConditions: []string{
			fmt.Sprintf("Fixed APR of %.1f%% for the full %d-month term", apr, term),
			fmt.Sprintf("Repayments begin %d months after disbursement", grace),
			"Early repayment permitted without penalty",
		},
		Benefits: []string{
			fmt.Sprintf("Funding of £%.0f towards tuition and living costs", amount),
			"Predictable fixed monthly repayments",
			"Payment holiday available on request during study",
		},
	}
}

func isaTerms(percent, paymentCap float64) TermsAndConditions {
	return TermsAndConditions{
		EligibilityRequirements: []string{
			"Proof of enrolment or admission to the programme",
			"Valid government-issued photo ID",
			"Consent to annual income verification",
		},
		SpecialConditions: []string{
			fmt.Sprintf("Pay %.0f%% of gross monthly income for %d months", percent, isaTermMonths),
			"No payments due while income is below £25,000 per year",
			fmt.Sprintf("Total repayments capped at 1.5x the amount funded (£%.0f)", paymentCap),
		},
		Benefits: []string{
			"Repayments scale with your earnings",
			"No fixed monthly payment",
			fmt.Sprintf("Repayments begin %d months after programme completion", isaGraceMonths),
		},
	}
}

func hybridTerms(apr, percent, paymentCap float64) TermsAndConditions {
	return TermsAndConditions{
		EligibilityRequirements: []string{
			"Proof of enrolment or admission to the programme",
			"Valid government-issued photo ID",
			"Consent to annual income verification",
		},
		SpecialConditions: []string{
			fmt.Sprintf("60%% of funding as a fixed-rate loan at %.1f%% APR over %d months", apr, hybridTermMonths),
			fmt.Sprintf("40%% of funding as an income share of %.0f%%", percent),
			fmt.Sprintf("Income-share repayments capped at £%.0f", paymentCap),
		},
		Benefits: []string{
			"Lower fixed payments than a full loan",
			"Income-linked portion protects you if earnings dip",
			fmt.Sprintf("Repayments begin %d months after disbursement", hybridGraceMonths),
		},
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func ptr[T any](v T) *T {
	return &v
}
