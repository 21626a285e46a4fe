package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreReadiness_StrongProfile(t *testing.T) {
	got := ScoreReadiness(ApplicantProfile{
		IncomeRange:      Income60kPlus,
		EmploymentStatus: StatusFullTime,
		FieldOfStudy:     "Computer Science",
		HasCoSigner:      true,
		LoanPurpose:      "upskilling",
	})

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, CreditTierExcellent, got.Tier)
	assert.Equal(t, CreditBreakdown{Income: 40, Employment: 30, Education: 10, CoSigner: 20}, got.Breakdown)
	assert.Equal(t, []string{tipApplyWidely, tipOnTrack}, got.Tips)
}

func TestScoreReadiness_WeakProfile(t *testing.T) {
	got := ScoreReadiness(ApplicantProfile{
		IncomeRange:      "under-20k",
		EmploymentStatus: "Unemployed",
	})

	assert.Equal(t, 20, got.Score)
	assert.Equal(t, CreditTierNeedsImprovement, got.Tier)
	assert.Equal(t, CreditBreakdown{Income: 10, Employment: 5, Education: 5}, got.Breakdown)
	// Three weakest factors, then the general tip.
	assert.Len(t, got.Tips, 4)
	assert.Contains(t, got.Tips[0], "co-signer")
	assert.Contains(t, got.Tips[1], "employment")
	assert.Equal(t, tipApplyWidely, got.Tips[3])
}

func TestScoreReadiness_UnknownValuesScoreZero(t *testing.T) {
	got := ScoreReadiness(ApplicantProfile{IncomeRange: "lots", EmploymentStatus: "retired"})
	assert.Equal(t, 0, got.Breakdown.Income)
	assert.Equal(t, 0, got.Breakdown.Employment)
	assert.Equal(t, educationBasePoints, got.Breakdown.Education)
}

func TestCreditTierFor(t *testing.T) {
	assert.Equal(t, CreditTierExcellent, CreditTierFor(80))
	assert.Equal(t, CreditTierGood, CreditTierFor(79))
	assert.Equal(t, CreditTierGood, CreditTierFor(65))
	assert.Equal(t, CreditTierFair, CreditTierFor(64))
	assert.Equal(t, CreditTierFair, CreditTierFor(45))
	assert.Equal(t, CreditTierNeedsImprovement, CreditTierFor(44))
}

func TestScoreReadiness_Monotonic(t *testing.T) {
	incomes := []string{Income20kTo40k, Income40kTo60k, Income60kPlus}
	employment := []string{StatusUnemployed, StatusStudent, StatusPartTime, StatusSelfEmployed, StatusFullTime}

	prev := -1
	for _, in := range append([]string{IncomeUnder20k}, incomes...) {
		s := ScoreReadiness(ApplicantProfile{IncomeRange: in, EmploymentStatus: StatusStudent}).Score
		assert.GreaterOrEqual(t, s, prev, in)
		prev = s
	}

	prev = -1
	for _, e := range employment {
		s := ScoreReadiness(ApplicantProfile{IncomeRange: Income20kTo40k, EmploymentStatus: e}).Score
		assert.GreaterOrEqual(t, s, prev, e)
		prev = s
	}

	base := ApplicantProfile{IncomeRange: Income40kTo60k, EmploymentStatus: StatusPartTime}
	with := base
	with.HasCoSigner = true
	assert.Greater(t, ScoreReadiness(with).Score, ScoreReadiness(base).Score)
}
