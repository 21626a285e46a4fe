package core

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SubScore is one scored applicant attribute with a human-readable rationale.
type SubScore struct {
	Score   int    `json:"score"`
	Details string `json:"details"`
}

var numericRun = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parseFirstNumber extracts the first numeric run from free text after
// stripping thousands separators: "£60,000 per year" -> 60000.
func parseFirstNumber(s string) (float64, bool) {
	m := numericRun.FindString(strings.ReplaceAll(s, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ScoreIncome buckets annual household income into the affordability ladder.
func ScoreIncome(householdIncome string) SubScore {
	income, ok := parseFirstNumber(householdIncome)
	if !ok {
		return SubScore{Score: 10, Details: fmt.Sprintf("Household income %q could not be read; lowest bracket applied", householdIncome)}
	}

	switch {
	case income >= 100000:
		return SubScore{Score: 100, Details: fmt.Sprintf("Household income £%.0f is in the top bracket (£100,000+)", income)}
	case income >= 60000:
		return SubScore{Score: 85, Details: fmt.Sprintf("Household income £%.0f is in the £60,000-£99,999 bracket", income)}
	case income >= 40000:
		return SubScore{Score: 70, Details: fmt.Sprintf("Household income £%.0f is in the £40,000-£59,999 bracket", income)}
	case income >= 25000:
		return SubScore{Score: 55, Details: fmt.Sprintf("Household income £%.0f is in the £25,000-£39,999 bracket", income)}
	case income >= 15000:
		return SubScore{Score: 40, Details: fmt.Sprintf("Household income £%.0f is in the £15,000-£24,999 bracket", income)}
	case income > 0:
		return SubScore{Score: 25, Details: fmt.Sprintf("Household income £%.0f is below £15,000", income)}
	default:
		return SubScore{Score: 10, Details: "No household income reported; lowest bracket applied"}
	}
}

// Short forms must stand alone so "diploma" and "mba" do not count as MA or BA.
var (
	postgradAbbrev  = regexp.MustCompile(`\bma\b`)
	undergradAbbrev = regexp.MustCompile(`\bba\b`)
)

// ScoreEducation inspects a free-text qualification for degree-level keywords.
// Matching is deliberately fuzzy: source data is typed by applicants.
func ScoreEducation(qualification string) SubScore {
	q := strings.ToLower(strings.TrimSpace(qualification))

	switch {
	case q == "":
		return SubScore{Score: 40, Details: "No qualification provided"}
	case containsAny(q, "doctorate", "phd", "dphil"):
		return SubScore{Score: 100, Details: fmt.Sprintf("Doctoral qualification (%s)", qualification)}
	case containsAny(q, "master", "mba", "msc", "mres") || postgradAbbrev.MatchString(q):
		return SubScore{Score: 90, Details: fmt.Sprintf("Postgraduate qualification (%s)", qualification)}
	case containsAny(q, "bachelor", "degree", "bsc", "undergraduate") || undergradAbbrev.MatchString(q):
		return SubScore{Score: 80, Details: fmt.Sprintf("Undergraduate qualification (%s)", qualification)}
	case containsAny(q, "diploma", "hnd", "hnc", "certificate", "a-level", "a level"):
		return SubScore{Score: 65, Details: fmt.Sprintf("Diploma-level qualification (%s)", qualification)}
	default:
		return SubScore{Score: 50, Details: fmt.Sprintf("Qualification %q not recognised as degree level", qualification)}
	}
}

// ScoreEmployment buckets the applicant's current employment.
func ScoreEmployment(current *CurrentEmployment, hasHistory bool) SubScore {
	if current == nil {
		if hasHistory {
			return SubScore{Score: 50, Details: "Not currently employed; previous employment on record"}
		}
		return SubScore{Score: 40, Details: "No current or previous employment provided"}
	}

	employer := current.Employer
	if employer == "" {
		employer = "unnamed employer"
	}

	switch strings.ToLower(strings.TrimSpace(current.EmploymentType)) {
	case EmploymentFullTime:
		return SubScore{Score: 85, Details: fmt.Sprintf("Full-time employment at %s", employer)}
	case EmploymentContract:
		return SubScore{Score: 75, Details: fmt.Sprintf("Contract employment at %s", employer)}
	case EmploymentPartTime:
		return SubScore{Score: 70, Details: fmt.Sprintf("Part-time employment at %s", employer)}
	case EmploymentSelfEmployed:
		return SubScore{Score: 70, Details: "Self-employed"}
	case EmploymentInternship:
		return SubScore{Score: 65, Details: fmt.Sprintf("Internship at %s", employer)}
	default:
		return SubScore{Score: 65, Details: fmt.Sprintf("Currently employed at %s (type %q not specified)", employer, current.EmploymentType)}
	}
}

// ScoreCompleteness rates how much of the applicant's personal profile is filled in.
func ScoreCompleteness(p PersonalInfo) SubScore {
	fields := []string{p.FullName, p.DateOfBirth, p.Email, p.Phone, p.Address, p.Nationality}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	score := int(math.Round(100 * float64(filled) / float64(len(fields))))
	return SubScore{
		Score:   score,
		Details: fmt.Sprintf("%d of %d personal details provided", filled, len(fields)),
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
