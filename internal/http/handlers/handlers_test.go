package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/go-eduloan/internal/core"
	"github.com/MrKriegler/go-eduloan/pkg/problem"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func serve(t *testing.T, m Mountable, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	m.Mount(r)

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) problem.Problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p problem.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

type stubApplications struct {
	core.ApplicationService
	created core.ApplicationInput
	err     error
}

func (s *stubApplications) Create(_ context.Context, in core.ApplicationInput) (core.LoanApplication, error) {
	s.created = in
	if s.err != nil {
		return core.LoanApplication{}, s.err
	}
	return core.LoanApplication{ID: "app-1", UserID: in.UserID, Status: core.ApplicationStatusDraft}, nil
}

func (s *stubApplications) Get(_ context.Context, id string) (core.LoanApplication, error) {
	if s.err != nil {
		return core.LoanApplication{}, s.err
	}
	return core.LoanApplication{ID: id, Status: core.ApplicationStatusDraft}, nil
}

func (s *stubApplications) Submit(_ context.Context, id string) (core.LoanApplication, error) {
	if s.err != nil {
		return core.LoanApplication{}, s.err
	}
	return core.LoanApplication{ID: id, Status: core.ApplicationStatusSubmitted}, nil
}

func TestApplicationHandler_Create(t *testing.T) {
	svc := &stubApplications{}
	h := NewApplicationHandler(svc, discard)

	rec := serve(t, h, http.MethodPost, "/applications", `{"user_id":"u-1","loan":{"type":"education-loan","amount":"£20,000"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u-1", svc.created.UserID)
	assert.Equal(t, "£20,000", svc.created.Loan.Amount)

	var app core.LoanApplication
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	assert.Equal(t, "app-1", app.ID)
}

func TestApplicationHandler_BadJSON(t *testing.T) {
	h := NewApplicationHandler(&stubApplications{}, discard)

	rec := serve(t, h, http.MethodPost, "/applications", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON", decodeProblem(t, rec).Title)
}

func TestApplicationHandler_Submit(t *testing.T) {
	h := NewApplicationHandler(&stubApplications{}, discard)

	rec := serve(t, h, http.MethodPost, "/applications/app-9:submit", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var app core.LoanApplication
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	assert.Equal(t, "app-9", app.ID)
	assert.Equal(t, core.ApplicationStatusSubmitted, app.Status)
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		title  string
	}{
		{core.ErrApplicationNotFound, http.StatusNotFound, "Not Found"},
		{fmt.Errorf("%w: bad", core.ErrValidation), http.StatusBadRequest, "Validation Error"},
		{core.ErrSponsorAtCapacity, http.StatusConflict, "Conflict"},
		{core.ErrOfferExpired, http.StatusConflict, "Invalid State"},
		{core.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{core.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{core.ErrNoActiveRules, http.StatusInternalServerError, "Configuration Error"},
		{fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Timeout"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			h := NewApplicationHandler(&stubApplications{err: tt.err}, discard)
			rec := serve(t, h, http.MethodGet, "/applications/app-1", "")
			assert.Equal(t, tt.status, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, tt.title, p.Title)
			assert.Equal(t, tt.status, p.Status)
		})
	}
}

type stubUnderwriting struct {
	core.UnderwritingService
	review core.ReviewInput
	err    error
}

func (s *stubUnderwriting) ProcessApplication(_ context.Context, id string) (core.UnderwritingResult, error) {
	if s.err != nil {
		return core.UnderwritingResult{}, s.err
	}
	return core.UnderwritingResult{
		Application: core.LoanApplication{ID: id, Status: core.ApplicationStatusApproved},
		Assessment:  core.RiskAssessment{ID: "as-1", ApplicationID: id, RiskScore: 90, Decision: core.DecisionAutoApprove},
		Offer:       &core.LoanOffer{ID: "of-1", ApplicationID: id},
	}, nil
}

func (s *stubUnderwriting) Review(_ context.Context, id string, in core.ReviewInput) (core.LoanApplication, error) {
	s.review = in
	if err := in.Validate(); err != nil {
		return core.LoanApplication{}, err
	}
	return core.LoanApplication{ID: id, Status: core.ApplicationStatusApproved}, nil
}

func (s *stubUnderwriting) GetLatestAssessment(_ context.Context, id string) (core.RiskAssessment, error) {
	return core.RiskAssessment{}, core.ErrAssessmentNotFound
}

func TestUnderwritingHandler_Underwrite(t *testing.T) {
	h := NewUnderwritingHandler(&stubUnderwriting{}, discard)

	rec := serve(t, h, http.MethodPost, "/applications/app-1:underwrite", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res core.UnderwritingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 90, res.Assessment.RiskScore)
	require.NotNil(t, res.Offer)
	assert.Equal(t, "of-1", res.Offer.ID)
}

func TestUnderwritingHandler_ConfigurationError(t *testing.T) {
	h := NewUnderwritingHandler(&stubUnderwriting{err: core.ErrNoActiveRules}, discard)

	rec := serve(t, h, http.MethodPost, "/applications/app-1:underwrite", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, "Configuration Error", p.Title)
	assert.NotContains(t, p.Detail, "rules")
}

func TestUnderwritingHandler_Review(t *testing.T) {
	svc := &stubUnderwriting{}
	h := NewUnderwritingHandler(svc, discard)

	rec := serve(t, h, http.MethodPost, "/applications/app-1:review", `{"outcome":"approve","reason":"verified","reviewer_id":"uw-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uw-1", svc.review.ReviewerID)

	rec = serve(t, h, http.MethodPost, "/applications/app-1:review", `{"outcome":"maybe","reason":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnderwritingHandler_NoAssessment(t *testing.T) {
	h := NewUnderwritingHandler(&stubUnderwriting{}, discard)

	rec := serve(t, h, http.MethodGet, "/applications/app-1/assessment", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type stubOffers struct {
	core.OfferService
	acceptErr error
}

func (s *stubOffers) GetByApplicationID(_ context.Context, appID string) (core.LoanOffer, error) {
	return core.LoanOffer{ID: "of-1", ApplicationID: appID, Status: core.OfferStatusPending}, nil
}

func (s *stubOffers) Accept(_ context.Context, id string) (core.LoanOffer, error) {
	if s.acceptErr != nil {
		return core.LoanOffer{}, s.acceptErr
	}
	return core.LoanOffer{ID: id, Status: core.OfferStatusAccepted}, nil
}

func (s *stubOffers) Decline(_ context.Context, id string) (core.LoanOffer, error) {
	return core.LoanOffer{ID: id, Status: core.OfferStatusDeclined}, nil
}

func TestOfferHandler(t *testing.T) {
	h := NewOfferHandler(&stubOffers{}, discard)

	rec := serve(t, h, http.MethodGet, "/applications/app-1/offer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var offer core.LoanOffer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &offer))
	assert.Equal(t, "app-1", offer.ApplicationID)

	rec = serve(t, h, http.MethodPost, "/offers/of-1:accept", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &offer))
	assert.Equal(t, core.OfferStatusAccepted, offer.Status)

	rec = serve(t, h, http.MethodPost, "/offers/of-1:decline", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &offer))
	assert.Equal(t, core.OfferStatusDeclined, offer.Status)
}

func TestOfferHandler_AcceptExpired(t *testing.T) {
	h := NewOfferHandler(&stubOffers{acceptErr: core.ErrOfferExpired}, discard)

	rec := serve(t, h, http.MethodPost, "/offers/of-1:accept", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Invalid State", decodeProblem(t, rec).Title)
}

type stubSponsors struct {
	core.SponsorService
	match *core.SponsorMatch
}

func (s *stubSponsors) FindMatch(context.Context, string) (*core.SponsorMatch, error) {
	return s.match, nil
}

func (s *stubSponsors) Assign(context.Context, string) (core.SponsorMatch, error) {
	if s.match == nil {
		return core.SponsorMatch{}, core.ErrNoSponsorMatch
	}
	return *s.match, nil
}

func (s *stubSponsors) ListActive(context.Context) ([]core.Sponsor, error) {
	return []core.Sponsor{{ID: "sp-1", Name: "Fund", Active: true}}, nil
}

func TestSponsorHandler_NoMatchIsNull(t *testing.T) {
	h := NewSponsorHandler(&stubSponsors{}, discard)

	rec := serve(t, h, http.MethodGet, "/applications/app-1/sponsor-match", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"match":null}`, rec.Body.String())

	rec = serve(t, h, http.MethodPost, "/applications/app-1/sponsor:assign", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSponsorHandler_Match(t *testing.T) {
	match := &core.SponsorMatch{SponsorID: "sp-1", SponsorName: "Fund", MatchScore: 85}
	h := NewSponsorHandler(&stubSponsors{match: match}, discard)

	rec := serve(t, h, http.MethodGet, "/applications/app-1/sponsor-match", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body matchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Match)
	assert.Equal(t, 85, body.Match.MatchScore)

	rec = serve(t, h, http.MethodGet, "/sponsors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sponsors []core.Sponsor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sponsors))
	assert.Len(t, sponsors, 1)
}

type tierRecorder struct{ tiers []core.CreditTier }

func (r *tierRecorder) ObserveReadiness(tier core.CreditTier) { r.tiers = append(r.tiers, tier) }

func TestCreditReadinessHandler(t *testing.T) {
	obs := &tierRecorder{}
	h := NewCreditReadinessHandler(obs, discard)

	rec := serve(t, h, http.MethodPost, "/credit-readiness",
		`{"income_range":"60k-plus","employment_status":"full-time","field_of_study":"Software Engineering","has_co_signer":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var score core.CreditScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, 98, score.Score)
	assert.Equal(t, core.CreditTierExcellent, score.Tier)
	assert.Equal(t, []core.CreditTier{core.CreditTierExcellent}, obs.tiers)

	rec = serve(t, h, http.MethodPost, "/credit-readiness", `[`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
