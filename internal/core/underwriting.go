package core

import (
	"context"
	"fmt"
	"math"
	"time"
)

type RiskTier string
type Decision string
type RuleType string

const (
	RiskTierLow    RiskTier = "low"
	RiskTierMedium RiskTier = "medium"
	RiskTierHigh   RiskTier = "high"
)

const (
	DecisionAutoApprove  Decision = "auto-approve"
	DecisionManualReview Decision = "manual-review"
	DecisionDecline      Decision = "decline"
)

const (
	RuleTypeIncome     RuleType = "income"
	RuleTypeEducation  RuleType = "education"
	RuleTypeEmployment RuleType = "employment"
	RuleTypeCredit     RuleType = "credit"
	RuleTypeSponsor    RuleType = "sponsor"
)

// Sub-score weights. They sum to exactly 1.0.
const (
	WeightAffordability = 0.30
	WeightEducation     = 0.25
	WeightEmployment    = 0.25
	WeightSponsor       = 0.20
)

// Tier and decision thresholds. The decision bands are stricter than the tier
// bands: a low-tier score below 80 and a high-tier score of 35 or more both go
// to manual review.
const (
	lowTierMinScore     = 75
	mediumTierMinScore  = 50
	autoApproveMinScore = 80
	declineBelowScore   = 35
)

// UnderwritingRule is one entry of the externally managed rule set.
type UnderwritingRule struct {
	Name       string         `json:"rule_name" yaml:"rule_name"`
	Type       RuleType       `json:"rule_type" yaml:"rule_type"`
	Conditions map[string]any `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Weight     float64        `json:"weight" yaml:"weight"`
	Active     bool           `json:"active" yaml:"active"`
}

// RuleSource supplies the current rule set.
type RuleSource interface {
	Rules(ctx context.Context) ([]UnderwritingRule, error)
}

type SubScores struct {
	Affordability SubScore `json:"affordability"`
	Education     SubScore `json:"education"`
	Employment    SubScore `json:"employment"`
	Sponsor       SubScore `json:"sponsor"`
}

// RiskAssessment is immutable once computed. Re-running underwriting creates
// a new assessment.
type RiskAssessment struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	RiskScore     int       `json:"risk_score"`
	RiskTier      RiskTier  `json:"risk_tier"`
	Decision      Decision  `json:"decision"`
	SubScores     SubScores `json:"sub_scores"`
	RulesApplied  []string  `json:"rules_applied"`
	CreatedAt     time.Time `json:"created_at"`
}

type AssessmentRepo interface {
	Create(ctx context.Context, a RiskAssessment) error
	Get(ctx context.Context, id string) (RiskAssessment, error)
	GetLatestByApplicationID(ctx context.Context, appID string) (RiskAssessment, error)
}

// Engine scores applications. Build one with NewEngine.
type Engine struct {
	rules []string
}

// NewEngine fails when the rule set has no active rule.
func NewEngine(rules []UnderwritingRule) (*Engine, error) {
	var active []string
	for _, r := range rules {
		if r.Active {
			active = append(active, r.Name)
		}
	}
	if len(active) == 0 {
		return nil, ErrNoActiveRules
	}
	return &Engine{rules: active}, nil
}

// Assess computes a risk assessment. It never fails: missing or malformed
// fields fall back to the lowest sub-score.
func (e *Engine) Assess(app LoanApplication) RiskAssessment {
	edu := app.EducationInfo
	subs := SubScores{
		Affordability: ScoreIncome(app.FinancialInfo.HouseholdIncome),
		Education:     ScoreEducation(edu.HighestQualification),
		Employment:    ScoreEmployment(edu.CurrentEmployment, len(edu.EmploymentHistory) > 0),
		Sponsor:       ScoreCompleteness(app.PersonalInfo),
	}

	score := WeightedScore(subs)
	tier := TierFor(score)

	rules := make([]string, len(e.rules))
	copy(rules, e.rules)

	return RiskAssessment{
		ApplicationID: app.ID,
		RiskScore:     score,
		RiskTier:      tier,
		Decision:      DecisionFor(tier, score),
		SubScores:     subs,
		RulesApplied:  rules,
	}
}

// WeightedScore combines the four sub-scores into a 0-100 risk score.
func WeightedScore(s SubScores) int {
	raw := WeightAffordability*float64(s.Affordability.Score) +
		WeightEducation*float64(s.Education.Score) +
		WeightEmployment*float64(s.Employment.Score) +
		WeightSponsor*float64(s.Sponsor.Score)
	return clamp(int(math.Round(raw)), 0, 100)
}

// TierFor maps a score to its risk tier; lower bounds are inclusive.
func TierFor(score int) RiskTier {
	switch {
	case score >= lowTierMinScore:
		return RiskTierLow
	case score >= mediumTierMinScore:
		return RiskTierMedium
	default:
		return RiskTierHigh
	}
}

// DecisionFor is the only place a decision is derived.
func DecisionFor(tier RiskTier, score int) Decision {
	switch {
	case tier == RiskTierLow && score >= autoApproveMinScore:
		return DecisionAutoApprove
	case tier == RiskTierHigh && score < declineBelowScore:
		return DecisionDecline
	default:
		return DecisionManualReview
	}
}

type ReviewOutcome string

const (
	ReviewApprove ReviewOutcome = "approve"
	ReviewReject  ReviewOutcome = "reject"
)

// ReviewInput is an underwriter's decision on a manual-review application.
type ReviewInput struct {
	Outcome    ReviewOutcome `json:"outcome"`
	Reason     string        `json:"reason"`
	ReviewerID string        `json:"reviewer_id"`
}

func (in ReviewInput) Validate() error {
	if in.Outcome != ReviewApprove && in.Outcome != ReviewReject {
		return fmt.Errorf("%w: outcome must be 'approve' or 'reject'", ErrValidation)
	}
	if in.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrValidation)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var (
	ErrNoActiveRules      = fmt.Errorf("%w: no active underwriting rules", ErrConfiguration)
	ErrAssessmentNotFound = fmt.Errorf("%w: risk assessment not found", ErrNotFound)
	ErrNotReviewable      = fmt.Errorf("%w: application is not awaiting manual review", ErrInvalidState)
)
