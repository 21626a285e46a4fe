package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// MinSponsorMatchScore is the floor below which a candidate is not a match.
const MinSponsorMatchScore = 50

const (
	sponsorPointsField    = 30
	sponsorPointsCountry  = 25
	sponsorPointsAmount   = 20
	sponsorPointsPurpose  = 15
	sponsorPointsCapacity = 10
)

// Sponsor is a third-party funder. Capacity counts how many more applicants it
// will take on.
type Sponsor struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ExpertiseAreas []string  `json:"expertise_areas"`
	Countries      []string  `json:"countries"`
	CareerFocus    []string  `json:"career_focus"`
	MinFunding     float64   `json:"min_funding"`
	MaxFunding     float64   `json:"max_funding"`
	Capacity       int       `json:"capacity"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SponsorMatch is computed fresh per request and never stored.
type SponsorMatch struct {
	SponsorID   string   `json:"sponsor_id"`
	SponsorName string   `json:"sponsor_name"`
	MatchScore  int      `json:"match_score"`
	Reason      string   `json:"reason"`
	MaxFunding  float64  `json:"max_funding"`
	Expertise   []string `json:"expertise"`
}

type SponsorRepo interface {
	// ListActive returns active sponsors in insertion order.
	ListActive(ctx context.Context) ([]Sponsor, error)
	Get(ctx context.Context, id string) (Sponsor, error)
	Upsert(ctx context.Context, s Sponsor) error
	// DecrementCapacity fails with ErrSponsorAtCapacity when capacity is already zero.
	DecrementCapacity(ctx context.Context, id string) error
}

// Eligible reports whether the sponsor can take another applicant.
func (s Sponsor) Eligible() bool {
	return s.Active && s.Capacity > 0
}

// ScoreSponsor scores one sponsor against an application and returns the
// reasons that contributed points.
func ScoreSponsor(app LoanApplication, s Sponsor) (int, []string) {
	score := 0
	var reasons []string

	// 1) Field of study vs expertise
	field := strings.ToLower(strings.TrimSpace(app.ProgramInfo.FieldOfStudy))
	if field != "" {
		for _, area := range s.ExpertiseAreas {
			a := strings.ToLower(strings.TrimSpace(area))
			if a != "" && (strings.Contains(field, a) || strings.Contains(a, field)) {
				score += sponsorPointsField
				reasons = append(reasons, fmt.Sprintf("funds %s", area))
				break
			}
		}
	}

	// 2) Destination country
	country := strings.TrimSpace(app.ProgramInfo.Country)
	if country != "" {
		for _, c := range s.Countries {
			if strings.EqualFold(strings.TrimSpace(c), country) {
				score += sponsorPointsCountry
				reasons = append(reasons, fmt.Sprintf("supports study in %s", c))
				break
			}
		}
	}

	// 3) Requested amount within funding range
	if amount, ok := ParseAmount(app.Loan.Amount); ok && amount >= s.MinFunding && amount <= s.MaxFunding {
		score += sponsorPointsAmount
		reasons = append(reasons, fmt.Sprintf("funds £%.0f-£%.0f", s.MinFunding, s.MaxFunding))
	}

	// 4) Purpose vs career focus
	if focus, ok := keywordOverlap(app.Loan.Purpose+" "+app.ProgramInfo.Name, s.CareerFocus); ok {
		score += sponsorPointsPurpose
		reasons = append(reasons, fmt.Sprintf("focuses on %s careers", focus))
	}

	// 5) Capacity
	if s.Capacity > 0 {
		score += sponsorPointsCapacity
		reasons = append(reasons, "has capacity for new applicants")
	}

	return clamp(score, 0, 100), reasons
}

// FindBestMatch returns the highest-scoring eligible sponsor, or nil when no
// candidate reaches MinSponsorMatchScore. Ties keep input order.
func FindBestMatch(app LoanApplication, sponsors []Sponsor) *SponsorMatch {
	var matches []SponsorMatch
	for _, s := range sponsors {
		if !s.Eligible() {
			continue
		}
		score, reasons := ScoreSponsor(app, s)
		matches = append(matches, SponsorMatch{
			SponsorID:   s.ID,
			SponsorName: s.Name,
			MatchScore:  score,
			Reason:      matchReason(s.Name, reasons),
			MaxFunding:  s.MaxFunding,
			Expertise:   append([]string(nil), s.ExpertiseAreas...),
		})
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	best := matches[0]
	if best.MatchScore < MinSponsorMatchScore {
		return nil
	}
	return &best
}

func matchReason(name string, reasons []string) string {
	if len(reasons) == 0 {
		return fmt.Sprintf("%s has no matching criteria", name)
	}
	return fmt.Sprintf("%s %s", name, strings.Join(reasons, "; "))
}

// keywordOverlap reports the first focus term that shares a word of four or
// more letters with text.
func keywordOverlap(text string, focus []string) (string, bool) {
	words := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(strings.ToLower(text), notLetter) {
		if len(w) >= 4 {
			words[w] = struct{}{}
		}
	}
	if len(words) == 0 {
		return "", false
	}
	for _, f := range focus {
		for _, w := range strings.FieldsFunc(strings.ToLower(f), notLetter) {
			if _, ok := words[w]; ok {
				return f, true
			}
		}
	}
	return "", false
}

func notLetter(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
}

var (
	ErrSponsorNotFound   = fmt.Errorf("%w: sponsor not found", ErrNotFound)
	ErrSponsorAtCapacity = fmt.Errorf("%w: sponsor has no remaining capacity", ErrConflict)
	ErrNoSponsorMatch    = fmt.Errorf("%w: no sponsor matches this application", ErrNotFound)
	ErrSponsorAssigned   = fmt.Errorf("%w: application already has a sponsor", ErrConflict)
)
