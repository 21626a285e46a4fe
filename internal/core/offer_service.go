package core

import (
	"context"
	"fmt"
	"time"
)

type OfferService interface {
	// Get retrieves an offer by ID
	Get(ctx context.Context, id string) (LoanOffer, error)

	// GetByApplicationID retrieves the current offer for an application
	GetByApplicationID(ctx context.Context, appID string) (LoanOffer, error)

	// Accept marks an offer as accepted. The application must be approved.
	Accept(ctx context.Context, id string) (LoanOffer, error)

	// Decline marks an offer as declined
	Decline(ctx context.Context, id string) (LoanOffer, error)

	// ExpireStale moves every pending offer past its validity to expired
	ExpireStale(ctx context.Context) (int64, error)
}

type offerService struct {
	offers   OfferRepo
	apps     ApplicationRepo
	notifier Notifier
	clock    func() time.Time
}

func NewOfferService(offers OfferRepo, apps ApplicationRepo, notifier Notifier) OfferService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &offerService{
		offers:   offers,
		apps:     apps,
		notifier: notifier,
		clock:    time.Now,
	}
}

func (s *offerService) Get(ctx context.Context, id string) (LoanOffer, error) {
	if id == "" {
		return LoanOffer{}, fmt.Errorf("%w: missing offer ID", ErrValidation)
	}
	return s.offers.Get(ctx, id)
}

func (s *offerService) GetByApplicationID(ctx context.Context, appID string) (LoanOffer, error) {
	if appID == "" {
		return LoanOffer{}, fmt.Errorf("%w: missing application ID", ErrValidation)
	}
	return s.offers.GetByApplicationID(ctx, appID)
}

func (s *offerService) Accept(ctx context.Context, id string) (LoanOffer, error) {
	// 1) Load offer
	offer, err := s.offers.Get(ctx, id)
	if err != nil {
		return LoanOffer{}, err
	}

	// 2) Verify offer is pending
	if offer.Status != OfferStatusPending {
		return LoanOffer{}, ErrOfferNotPending
	}

	// 3) Check if expired
	now := s.clock()
	if offer.IsExpired(now) {
		offer.Status = OfferStatusExpired
		_ = s.offers.Update(ctx, offer) // best-effort, ErrOfferExpired is returned either way
		return LoanOffer{}, ErrOfferExpired
	}

	// 4) Manual-review offers can only be accepted after approval
	app, err := s.apps.Get(ctx, offer.ApplicationID)
	if err != nil {
		return LoanOffer{}, err
	}
	if app.Status != ApplicationStatusApproved {
		return LoanOffer{}, ErrAppNotApproved
	}

	// 5) Update offer
	offer.Status = OfferStatusAccepted
	offer.AcceptedAt = &now

	if err := s.offers.Update(ctx, offer); err != nil {
		return LoanOffer{}, err
	}

	// 6) Notify (best-effort)
	_ = s.notifier.Notify(ctx, Notification{
		Type:    NotificationApplicationStatusChange,
		UserID:  app.UserID,
		Email:   app.PersonalInfo.Email,
		Title:   "Offer accepted",
		Message: "Thanks for accepting your offer. We will be in touch about disbursement.",
		Data:    map[string]any{"application_id": app.ID, "offer_id": offer.ID, "event": "offer_accepted"},
	})

	return offer, nil
}

func (s *offerService) Decline(ctx context.Context, id string) (LoanOffer, error) {
	// 1) Load offer
	offer, err := s.offers.Get(ctx, id)
	if err != nil {
		return LoanOffer{}, err
	}

	// 2) Verify offer is pending
	if offer.Status != OfferStatusPending {
		return LoanOffer{}, ErrOfferNotPending
	}

	// 3) Update offer
	now := s.clock()
	offer.Status = OfferStatusDeclined
	offer.DeclinedAt = &now

	if err := s.offers.Update(ctx, offer); err != nil {
		return LoanOffer{}, err
	}

	return offer, nil
}

func (s *offerService) ExpireStale(ctx context.Context) (int64, error) {
	return s.offers.ExpireOffers(ctx, s.clock())
}
