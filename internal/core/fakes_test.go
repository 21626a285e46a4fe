package core

import (
	"context"
	"sync"
	"time"
)

// In-memory repositories shared by the service tests.

type memApps struct {
	mu   sync.Mutex
	apps map[string]LoanApplication
}

func newMemApps(apps ...LoanApplication) *memApps {
	m := &memApps{apps: map[string]LoanApplication{}}
	for _, a := range apps {
		m.apps[a.ID] = a
	}
	return m
}

func (m *memApps) Create(_ context.Context, app LoanApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[app.ID]; ok {
		return ErrApplicationExists
	}
	m.apps[app.ID] = app
	return nil
}

func (m *memApps) Get(_ context.Context, id string) (LoanApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return LoanApplication{}, ErrApplicationNotFound
	}
	return app, nil
}

func (m *memApps) Update(_ context.Context, app LoanApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[app.ID]; !ok {
		return ErrApplicationNotFound
	}
	m.apps[app.ID] = app
	return nil
}

func (m *memApps) UpdateStatus(_ context.Context, id string, from, to ApplicationStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return ErrApplicationNotFound
	}
	if app.Status != from {
		return ErrStatusChanged
	}
	app.Status = to
	app.UpdatedAt = updatedAt
	m.apps[id] = app
	return nil
}

func (m *memApps) FindByStatus(_ context.Context, status ApplicationStatus, limit int) ([]LoanApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LoanApplication
	for _, a := range m.apps {
		if a.Status == status && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

type memAssessments struct {
	mu    sync.Mutex
	items []RiskAssessment
}

func (m *memAssessments) Create(_ context.Context, a RiskAssessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, a)
	return nil
}

func (m *memAssessments) Get(_ context.Context, id string) (RiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return RiskAssessment{}, ErrAssessmentNotFound
}

func (m *memAssessments) GetLatestByApplicationID(_ context.Context, appID string) (RiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].ApplicationID == appID {
			return m.items[i], nil
		}
	}
	return RiskAssessment{}, ErrAssessmentNotFound
}

type memOffers struct {
	mu     sync.Mutex
	offers []LoanOffer
}

func (m *memOffers) Create(_ context.Context, offer LoanOffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.offers {
		if o.ID == offer.ID || o.AssessmentID == offer.AssessmentID {
			return ErrOfferExists
		}
	}
	m.offers = append(m.offers, offer)
	return nil
}

func (m *memOffers) Get(_ context.Context, id string) (LoanOffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.offers {
		if o.ID == id {
			return o, nil
		}
	}
	return LoanOffer{}, ErrOfferNotFound
}

func (m *memOffers) GetByApplicationID(_ context.Context, appID string) (LoanOffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.offers) - 1; i >= 0; i-- {
		if m.offers[i].ApplicationID == appID {
			return m.offers[i], nil
		}
	}
	return LoanOffer{}, ErrOfferNotFound
}

func (m *memOffers) Update(_ context.Context, offer LoanOffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.offers {
		if o.ID == offer.ID {
			m.offers[i] = offer
			return nil
		}
	}
	return ErrOfferNotFound
}

func (m *memOffers) ExpireOffers(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i, o := range m.offers {
		if o.Status == OfferStatusPending && o.OfferValidUntil.Before(before) {
			m.offers[i].Status = OfferStatusExpired
			n++
		}
	}
	return n, nil
}

type memSponsors struct {
	mu       sync.Mutex
	sponsors []Sponsor
}

func (m *memSponsors) ListActive(context.Context) ([]Sponsor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Sponsor
	for _, s := range m.sponsors {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSponsors) Get(_ context.Context, id string) (Sponsor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sponsors {
		if s.ID == id {
			return s, nil
		}
	}
	return Sponsor{}, ErrSponsorNotFound
}

func (m *memSponsors) Upsert(_ context.Context, sp Sponsor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sponsors {
		if s.ID == sp.ID {
			m.sponsors[i] = sp
			return nil
		}
	}
	m.sponsors = append(m.sponsors, sp)
	return nil
}

func (m *memSponsors) DecrementCapacity(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sponsors {
		if s.ID != id {
			continue
		}
		if s.Capacity <= 0 {
			return ErrSponsorAtCapacity
		}
		m.sponsors[i].Capacity--
		return nil
	}
	return ErrSponsorNotFound
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) types() []NotificationType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]NotificationType, len(r.sent))
	for i, n := range r.sent {
		out[i] = n.Type
	}
	return out
}

type staticRules []UnderwritingRule

func (s staticRules) Rules(context.Context) ([]UnderwritingRule, error) {
	return s, nil
}

var activeRules = staticRules{
	{Name: "income-check", Type: RuleTypeIncome, Weight: 0.3, Active: true},
	{Name: "education-check", Type: RuleTypeEducation, Weight: 0.25, Active: true},
	{Name: "bureau-score", Type: RuleTypeCredit, Weight: 0.1, Active: false},
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

// strongApplication scores 96: low tier, auto-approve.
func strongApplication(id string) LoanApplication {
	return LoanApplication{
		ID:     id,
		UserID: "user-1",
		PersonalInfo: PersonalInfo{
			FullName:    "Grace Hopper",
			DateOfBirth: "1990-12-09",
			Email:       "grace@example.com",
			Phone:       "+44 20 7946 0001",
			Address:     "1 Navy Road, Portsmouth",
			Nationality: "British",
		},
		EducationInfo: EducationInfo{
			HighestQualification: "PhD in Mathematics",
			CurrentEmployment:    &CurrentEmployment{Employer: "Acme", JobTitle: "Engineer", EmploymentType: EmploymentFullTime},
		},
		ProgramInfo: ProgramInfo{
			Name:         "MSc Data Science",
			FieldOfStudy: "Data Science",
			Institution:  "University of Edinburgh",
			Country:      "United Kingdom",
		},
		FinancialInfo: FinancialInfo{HouseholdIncome: "£120,000"},
		Loan:          LoanRequest{Type: LoanTypeEducation, Amount: "£22,000", Purpose: "Retrain for a career in data engineering"},
		Declarations:  Declarations{InformationAccurate: true, ConsentCreditCheck: true, AcceptTerms: true},
		Status:        ApplicationStatusSubmitted,
		CreatedAt:     testNow.Add(-time.Hour),
		UpdatedAt:     testNow.Add(-time.Hour),
	}
}

// reviewApplication scores 64: medium tier, manual review.
func reviewApplication(id string) LoanApplication {
	app := strongApplication(id)
	app.PersonalInfo.Phone = ""
	app.PersonalInfo.Address = ""
	app.EducationInfo.HighestQualification = "HND Computing"
	app.EducationInfo.CurrentEmployment.EmploymentType = EmploymentPartTime
	app.FinancialInfo.HouseholdIncome = "£30,000"
	return app
}

// weakApplication scores below 35: high tier, decline.
func weakApplication(id string) LoanApplication {
	app := strongApplication(id)
	app.PersonalInfo = PersonalInfo{FullName: "Low Score", Email: "low@example.com"}
	app.EducationInfo = EducationInfo{}
	app.FinancialInfo = FinancialInfo{}
	return app
}
