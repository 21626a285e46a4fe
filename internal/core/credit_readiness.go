package core

import (
	"sort"
	"strings"
)

type CreditTier string

const (
	CreditTierExcellent        CreditTier = "excellent"
	CreditTierGood             CreditTier = "good"
	CreditTierFair             CreditTier = "fair"
	CreditTierNeedsImprovement CreditTier = "needs-improvement"
)

// Income ranges, lowest first.
const (
	IncomeUnder20k  = "under-20k"
	Income20kTo40k  = "20k-40k"
	Income40kTo60k  = "40k-60k"
	Income60kPlus   = "60k-plus"
	PurposeUpskills = "upskilling"
)

// Employment statuses accepted by the readiness check.
const (
	StatusFullTime     = "full-time"
	StatusSelfEmployed = "self-employed"
	StatusPartTime     = "part-time"
	StatusStudent      = "student"
	StatusUnemployed   = "unemployed"
)

const (
	maxIncomePoints     = 40
	maxEmploymentPoints = 30
	maxEducationPoints  = 10
	coSignerPoints      = 20

	educationBasePoints      = 5
	highDemandFieldPoints    = 3
	upskillingPurposePoints  = 2
	maxSpecificReadinessTips = 3
)

var incomePoints = map[string]int{
	IncomeUnder20k: 10,
	Income20kTo40k: 20,
	Income40kTo60k: 30,
	Income60kPlus:  maxIncomePoints,
}

var employmentPoints = map[string]int{
	StatusFullTime:     maxEmploymentPoints,
	StatusSelfEmployed: 22,
	StatusPartTime:     20,
	StatusStudent:      12,
	StatusUnemployed:   5,
}

var highDemandFields = []string{
	"computer science", "software", "data science", "engineering", "cyber",
	"medicine", "nursing", "health", "artificial intelligence", "finance",
}

// ApplicantProfile is the self-reported input of a pre-application check.
type ApplicantProfile struct {
	IncomeRange      string `json:"income_range"`
	EmploymentStatus string `json:"employment_status"`
	FieldOfStudy     string `json:"field_of_study"`
	HasCoSigner      bool   `json:"has_co_signer"`
	CreditHistory    string `json:"credit_history,omitempty"`
	LoanPurpose      string `json:"loan_purpose,omitempty"`
}

type CreditBreakdown struct {
	Income     int `json:"income"`
	Employment int `json:"employment"`
	Education  int `json:"education"`
	CoSigner   int `json:"co_signer"`
}

type CreditScore struct {
	Score     int             `json:"score"`
	Tier      CreditTier      `json:"tier"`
	Breakdown CreditBreakdown `json:"breakdown"`
	Tips      []string        `json:"tips"`
}

const (
	tipApplyWidely = "Apply to multiple lenders to compare offers; pre-qualification checks do not affect your credit file."
	tipOnTrack     = "Your profile is in good shape. Keep your finances steady until you apply."
)

// ScoreReadiness estimates how likely a profile is to qualify for funding.
func ScoreReadiness(p ApplicantProfile) CreditScore {
	b := CreditBreakdown{
		Income:     incomePoints[normalize(p.IncomeRange)],
		Employment: employmentPoints[normalize(p.EmploymentStatus)],
		Education:  educationPoints(p.FieldOfStudy, p.LoanPurpose),
	}
	if p.HasCoSigner {
		b.CoSigner = coSignerPoints
	}

	score := clamp(b.Income+b.Employment+b.Education+b.CoSigner, 0, 100)
	return CreditScore{
		Score:     score,
		Tier:      CreditTierFor(score),
		Breakdown: b,
		Tips:      readinessTips(b),
	}
}

// CreditTierFor maps a readiness score to its tier; lower bounds are inclusive.
func CreditTierFor(score int) CreditTier {
	switch {
	case score >= 80:
		return CreditTierExcellent
	case score >= 65:
		return CreditTierGood
	case score >= 45:
		return CreditTierFair
	default:
		return CreditTierNeedsImprovement
	}
}

func educationPoints(field, purpose string) int {
	points := educationBasePoints
	if f := normalize(field); f != "" && containsAny(f, highDemandFields...) {
		points += highDemandFieldPoints
	}
	if normalize(purpose) == PurposeUpskills {
		points += upskillingPurposePoints
	}
	return min(points, maxEducationPoints)
}

type readinessFactor struct {
	ratio float64
	tip   string
}

// readinessTips ranks factors that are below their maximum, weakest first.
func readinessTips(b CreditBreakdown) []string {
	factors := []readinessFactor{
		{float64(b.Income) / maxIncomePoints, "Build a record of stable income; a higher income bracket improves affordability."},
		{float64(b.Employment) / maxEmploymentPoints, "Secure steady employment, ideally full-time, before applying."},
		{float64(b.Education) / maxEducationPoints, "Programmes in high-demand fields such as engineering or data science are viewed more favourably."},
		{float64(b.CoSigner) / coSignerPoints, "Adding a co-signer with good credit can significantly strengthen your application."},
	}

	sort.SliceStable(factors, func(i, j int) bool { return factors[i].ratio < factors[j].ratio })

	var tips []string
	for _, f := range factors {
		if f.ratio >= 1 || len(tips) == maxSpecificReadinessTips {
			continue
		}
		tips = append(tips, f.tip)
	}
	tips = append(tips, tipApplyWidely)
	if len(tips) == 1 {
		tips = append(tips, tipOnTrack)
	}
	return tips
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
