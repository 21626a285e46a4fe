package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrKriegler/go-eduloan/internal/platform/ids"
)

// UnderwritingResult is what one underwriting pass produced. Offer is nil when
// the application was declined.
type UnderwritingResult struct {
	Application LoanApplication `json:"application"`
	Assessment  RiskAssessment  `json:"assessment"`
	Offer       *LoanOffer      `json:"offer,omitempty"`
}

type UnderwritingService interface {
	// ProcessApplication scores a submitted application, records its
	// assessment and, unless declined, generates an offer.
	ProcessApplication(ctx context.Context, appID string) (UnderwritingResult, error)

	// Review settles an application that was sent to manual review
	Review(ctx context.Context, appID string, input ReviewInput) (LoanApplication, error)

	// GetAssessment retrieves an assessment by ID
	GetAssessment(ctx context.Context, id string) (RiskAssessment, error)

	// GetLatestAssessment retrieves the most recent assessment for an application
	GetLatestAssessment(ctx context.Context, appID string) (RiskAssessment, error)
}

type underwritingService struct {
	rules       RuleSource
	apps        ApplicationRepo
	assessments AssessmentRepo
	offers      OfferRepo
	notifier    Notifier
	clock       func() time.Time
}

func NewUnderwritingService(rules RuleSource, apps ApplicationRepo, assessments AssessmentRepo, offers OfferRepo, notifier Notifier) UnderwritingService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &underwritingService{
		rules:       rules,
		apps:        apps,
		assessments: assessments,
		offers:      offers,
		notifier:    notifier,
		clock:       time.Now,
	}
}

func (s *underwritingService) ProcessApplication(ctx context.Context, appID string) (UnderwritingResult, error) {
	// 1) Load application
	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return UnderwritingResult{}, err
	}

	// 2) Verify application is in submitted status
	if app.Status != ApplicationStatusSubmitted {
		return UnderwritingResult{}, fmt.Errorf("%w: application must be in submitted status", ErrInvalidState)
	}

	// 3) Load rules and build the engine; a broken rule set fails before any write
	rules, err := s.rules.Rules(ctx)
	if err != nil {
		return UnderwritingResult{}, fmt.Errorf("%w: load rules: %v", ErrConfiguration, err)
	}
	engine, err := NewEngine(rules)
	if err != nil {
		return UnderwritingResult{}, err
	}

	// 4) Claim the application; a concurrent run loses here with ErrStatusChanged
	now := s.clock()
	if err := s.apps.UpdateStatus(ctx, appID, ApplicationStatusSubmitted, ApplicationStatusUnderReview, now); err != nil {
		return UnderwritingResult{}, err
	}
	app.Status = ApplicationStatusUnderReview
	app.UpdatedAt = now

	// 5) Score
	assessment := engine.Assess(app)
	assessment.ID = ids.New()
	assessment.CreatedAt = now

	// 6) Save assessment
	if err := s.assessments.Create(ctx, assessment); err != nil {
		return UnderwritingResult{}, s.release(ctx, appID, err)
	}

	result := UnderwritingResult{Assessment: assessment}

	// 7) Generate offer unless declined. It is written before the final status
	// so an approved application always has one.
	if assessment.Decision != DecisionDecline {
		offer := GenerateOffer(app, assessment, now)
		offer.ID = ids.New()
		if err := s.offers.Create(ctx, offer); err != nil {
			return UnderwritingResult{}, s.release(ctx, appID, err)
		}
		result.Offer = &offer
	}

	// 8) Apply decision
	switch assessment.Decision {
	case DecisionAutoApprove:
		app.Status = ApplicationStatusApproved
	case DecisionDecline:
		app.Status = ApplicationStatusRejected
	}
	if app.Status != ApplicationStatusUnderReview {
		if err := s.apps.UpdateStatus(ctx, appID, ApplicationStatusUnderReview, app.Status, now); err != nil {
			if result.Offer != nil {
				s.withdraw(ctx, *result.Offer)
			}
			return UnderwritingResult{}, s.release(ctx, appID, err)
		}
	}
	result.Application = app

	// 9) Notify (best-effort)
	s.notifyOutcome(ctx, app, assessment, result.Offer)

	return result, nil
}

func (s *underwritingService) Review(ctx context.Context, appID string, input ReviewInput) (LoanApplication, error) {
	// 1) Validate input
	if err := input.Validate(); err != nil {
		return LoanApplication{}, err
	}

	// 2) Load application
	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return LoanApplication{}, err
	}
	if app.Status != ApplicationStatusUnderReview {
		return LoanApplication{}, ErrNotReviewable
	}

	// 3) Only manual-review assessments can be settled by hand
	assessment, err := s.assessments.GetLatestByApplicationID(ctx, appID)
	if err != nil {
		return LoanApplication{}, err
	}
	if assessment.Decision != DecisionManualReview {
		return LoanApplication{}, ErrNotReviewable
	}

	// 4) Update application status
	now := s.clock()
	next := ApplicationStatusApproved
	if input.Outcome == ReviewReject {
		next = ApplicationStatusRejected
	}
	if err := s.apps.UpdateStatus(ctx, appID, ApplicationStatusUnderReview, next, now); err != nil {
		return LoanApplication{}, err
	}
	app.Status = next
	app.UpdatedAt = now

	// 5) A rejected application's pending offer goes with it
	if next == ApplicationStatusRejected {
		offer, err := s.offers.GetByApplicationID(ctx, appID)
		switch {
		case err == nil && offer.Status == OfferStatusPending:
			offer.Status = OfferStatusDeclined
			offer.DeclinedAt = &now
			if err := s.offers.Update(ctx, offer); err != nil {
				return LoanApplication{}, err
			}
		case err != nil && !errors.Is(err, ErrOfferNotFound):
			return LoanApplication{}, err
		}
	}

	// 6) Notify (best-effort)
	title, message := "Application approved", "Your application has been approved. Your offer is ready to accept."
	if next == ApplicationStatusRejected {
		title, message = "Application update", "We are unable to offer funding for this application."
	}
	_ = s.notifier.Notify(ctx, Notification{
		Type:    NotificationApplicationStatusChange,
		UserID:  app.UserID,
		Email:   app.PersonalInfo.Email,
		Title:   title,
		Message: message,
		Data: map[string]any{
			"application_id": app.ID,
			"status":         string(next),
			"reason":         input.Reason,
			"reviewer_id":    input.ReviewerID,
		},
	})

	return app, nil
}

// release hands a half-processed application back to submitted so it can be
// retried, then returns cause. Orphaned assessments are harmless: the latest
// one wins.
func (s *underwritingService) release(ctx context.Context, appID string, cause error) error {
	if err := s.apps.UpdateStatus(ctx, appID, ApplicationStatusUnderReview, ApplicationStatusSubmitted, s.clock()); err != nil {
		return errors.Join(cause, fmt.Errorf("release application %s: %w", appID, err))
	}
	return cause
}

// withdraw expires an offer whose application never reached its decision.
func (s *underwritingService) withdraw(ctx context.Context, offer LoanOffer) {
	offer.Status = OfferStatusExpired
	_ = s.offers.Update(ctx, offer)
}

func (s *underwritingService) GetAssessment(ctx context.Context, id string) (RiskAssessment, error) {
	if id == "" {
		return RiskAssessment{}, fmt.Errorf("%w: missing assessment ID", ErrValidation)
	}
	return s.assessments.Get(ctx, id)
}

func (s *underwritingService) GetLatestAssessment(ctx context.Context, appID string) (RiskAssessment, error) {
	if appID == "" {
		return RiskAssessment{}, fmt.Errorf("%w: missing application ID", ErrValidation)
	}
	return s.assessments.GetLatestByApplicationID(ctx, appID)
}

func (s *underwritingService) notifyOutcome(ctx context.Context, app LoanApplication, a RiskAssessment, offer *LoanOffer) {
	data := map[string]any{
		"application_id": app.ID,
		"assessment_id":  a.ID,
		"status":         string(app.Status),
		"decision":       string(a.Decision),
	}

	var title, message string
	switch a.Decision {
	case DecisionAutoApprove:
		title, message = "Application approved", "Good news, your application has been approved."
	case DecisionDecline:
		title, message = "Application update", "We are unable to offer funding for this application."
	default:
		title, message = "Application under review", "Your application needs a closer look by our underwriting team."
	}
	_ = s.notifier.Notify(ctx, Notification{
		Type:    NotificationApplicationStatusChange,
		UserID:  app.UserID,
		Email:   app.PersonalInfo.Email,
		Title:   title,
		Message: message,
		Data:    data,
	})

	if offer == nil {
		return
	}
	_ = s.notifier.Notify(ctx, Notification{
		Type:    NotificationOfferAvailable,
		UserID:  app.UserID,
		Email:   app.PersonalInfo.Email,
		Title:   "Your offer is ready",
		Message: fmt.Sprintf("We can offer £%.0f. The offer is valid until %s.", offer.LoanAmount, offer.OfferValidUntil.Format("2 January 2006")),
		Data:    map[string]any{"application_id": app.ID, "offer_id": offer.ID, "offer_type": string(offer.OfferType)},
	})
}
