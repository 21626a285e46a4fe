package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrKriegler/go-eduloan/internal/platform/ids"
)

type SponsorService interface {
	// FindMatch returns the best sponsor for an application, or nil when none qualifies
	FindMatch(ctx context.Context, appID string) (*SponsorMatch, error)

	// Assign records the best match on the application and consumes one unit of capacity
	Assign(ctx context.Context, appID string) (SponsorMatch, error)

	// Upsert creates or replaces a sponsor
	Upsert(ctx context.Context, s Sponsor) (Sponsor, error)

	// ListActive returns sponsors that are currently taking applicants
	ListActive(ctx context.Context) ([]Sponsor, error)
}

type sponsorService struct {
	sponsors SponsorRepo
	apps     ApplicationRepo
	notifier Notifier
	clock    func() time.Time
}

func NewSponsorService(sponsors SponsorRepo, apps ApplicationRepo, notifier Notifier) SponsorService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &sponsorService{
		sponsors: sponsors,
		apps:     apps,
		notifier: notifier,
		clock:    time.Now,
	}
}

func (s *sponsorService) FindMatch(ctx context.Context, appID string) (*SponsorMatch, error) {
	if appID == "" {
		return nil, fmt.Errorf("%w: missing application ID", ErrValidation)
	}
	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.sponsors.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return FindBestMatch(app, candidates), nil
}

func (s *sponsorService) Assign(ctx context.Context, appID string) (SponsorMatch, error) {
	// 1) Load application
	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return SponsorMatch{}, err
	}
	if app.AssignedSponsorID != "" {
		return SponsorMatch{}, ErrSponsorAssigned
	}
	if app.Status == ApplicationStatusDraft || app.Status == ApplicationStatusRejected {
		return SponsorMatch{}, fmt.Errorf("%w: cannot assign a sponsor to a %s application", ErrInvalidState, app.Status)
	}

	// 2) Match
	candidates, err := s.sponsors.ListActive(ctx)
	if err != nil {
		return SponsorMatch{}, err
	}
	match := FindBestMatch(app, candidates)
	if match == nil {
		return SponsorMatch{}, ErrNoSponsorMatch
	}

	// 3) Consume capacity; conditional in the store so concurrent assigns cannot overdraw
	if err := s.sponsors.DecrementCapacity(ctx, match.SponsorID); err != nil {
		return SponsorMatch{}, err
	}

	// 4) Record on application
	app.AssignedSponsorID = match.SponsorID
	app.UpdatedAt = s.clock()
	if err := s.apps.Update(ctx, app); err != nil {
		return SponsorMatch{}, err
	}

	// 5) Notify (best-effort)
	_ = s.notifier.Notify(ctx, Notification{
		Type:    NotificationApplicationStatusChange,
		UserID:  app.UserID,
		Email:   app.PersonalInfo.Email,
		Title:   "Sponsor matched",
		Message: fmt.Sprintf("You have been matched with %s.", match.SponsorName),
		Data: map[string]any{
			"event":          "sponsor_matched",
			"application_id": app.ID,
			"sponsor_id":     match.SponsorID,
			"match_score":    match.MatchScore,
		},
	})

	return *match, nil
}

func (s *sponsorService) Upsert(ctx context.Context, sp Sponsor) (Sponsor, error) {
	// 1) Validate
	if strings.TrimSpace(sp.Name) == "" {
		return Sponsor{}, fmt.Errorf("%w: sponsor name is required", ErrValidation)
	}
	if sp.MinFunding < 0 || sp.MaxFunding < sp.MinFunding {
		return Sponsor{}, fmt.Errorf("%w: funding range must satisfy 0 <= min <= max", ErrValidation)
	}
	if sp.Capacity < 0 {
		return Sponsor{}, fmt.Errorf("%w: capacity cannot be negative", ErrValidation)
	}

	// 2) Stamp
	now := s.clock()
	if sp.ID == "" {
		sp.ID = ids.New()
	}
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = now
	}
	sp.UpdatedAt = now

	// 3) Persist
	if err := s.sponsors.Upsert(ctx, sp); err != nil {
		return Sponsor{}, err
	}
	return sp, nil
}

func (s *sponsorService) ListActive(ctx context.Context) ([]Sponsor, error) {
	return s.sponsors.ListActive(ctx)
}
