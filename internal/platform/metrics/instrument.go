package metrics

import (
	"context"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

type underwriting struct {
	core.UnderwritingService
	m *Metrics
}

// InstrumentUnderwriting counts assessments and generated offers.
func InstrumentUnderwriting(svc core.UnderwritingService, m *Metrics) core.UnderwritingService {
	if m == nil {
		return svc
	}
	return &underwriting{UnderwritingService: svc, m: m}
}

func (u *underwriting) ProcessApplication(ctx context.Context, appID string) (core.UnderwritingResult, error) {
	res, err := u.UnderwritingService.ProcessApplication(ctx, appID)
	if err != nil {
		return res, err
	}
	u.m.ObserveAssessment(res.Assessment)
	if res.Offer != nil {
		u.m.ObserveOffer(*res.Offer)
	}
	return res, nil
}

type sponsors struct {
	core.SponsorService
	m *Metrics
}

// InstrumentSponsors counts match lookups by outcome.
func InstrumentSponsors(svc core.SponsorService, m *Metrics) core.SponsorService {
	if m == nil {
		return svc
	}
	return &sponsors{SponsorService: svc, m: m}
}

func (s *sponsors) FindMatch(ctx context.Context, appID string) (*core.SponsorMatch, error) {
	match, err := s.SponsorService.FindMatch(ctx, appID)
	if err != nil {
		return nil, err
	}
	s.m.ObserveSponsorMatch(match != nil)
	return match, nil
}

type offers struct {
	core.OfferService
	m *Metrics
}

// InstrumentOffers counts offers expired by sweeps.
func InstrumentOffers(svc core.OfferService, m *Metrics) core.OfferService {
	if m == nil {
		return svc
	}
	return &offers{OfferService: svc, m: m}
}

func (o *offers) ExpireStale(ctx context.Context) (int64, error) {
	n, err := o.OfferService.ExpireStale(ctx)
	o.m.AddExpiredOffers(n)
	return n, err
}
