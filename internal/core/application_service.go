package core

import (
	"context"
	"fmt"
	"time"

	"github.com/MrKriegler/go-eduloan/internal/platform/ids"
)

type ApplicationService interface {
	Create(ctx context.Context, in ApplicationInput) (LoanApplication, error)
	Get(ctx context.Context, id string) (LoanApplication, error)
	Patch(ctx context.Context, id string, patch ApplicationPatch) (LoanApplication, error)
	Submit(ctx context.Context, id string) (LoanApplication, error)
}

type applicationService struct {
	apps     ApplicationRepo
	notifier Notifier
	clock    func() time.Time
}

func NewApplicationService(apps ApplicationRepo, notifier Notifier) ApplicationService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &applicationService{
		apps:     apps,
		notifier: notifier,
		clock:    time.Now,
	}
}

func (s *applicationService) Create(ctx context.Context, in ApplicationInput) (LoanApplication, error) {
	// 1) Validate input
	if err := in.Validate(); err != nil {
		return LoanApplication{}, err
	}

	// 2) Build draft
	now := s.clock()
	app := LoanApplication{
		ID:            ids.New(),
		UserID:        in.UserID,
		PersonalInfo:  in.PersonalInfo,
		KYCDocuments:  in.KYCDocuments,
		EducationInfo: in.EducationInfo,
		ProgramInfo:   in.ProgramInfo,
		FinancialInfo: in.FinancialInfo,
		Loan:          in.Loan,
		Declarations:  in.Declarations,
		Status:        ApplicationStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 3) Persist
	if err := s.apps.Create(ctx, app); err != nil {
		return LoanApplication{}, err
	}

	return app, nil
}

func (s *applicationService) Get(ctx context.Context, id string) (LoanApplication, error) {
	if id == "" {
		return LoanApplication{}, fmt.Errorf("%w: missing application ID", ErrValidation)
	}
	return s.apps.Get(ctx, id)
}

func (s *applicationService) Patch(ctx context.Context, id string, patch ApplicationPatch) (LoanApplication, error) {
	// 1) Load application
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return LoanApplication{}, err
	}

	// 2) Only allow patching in draft status
	if app.Status != ApplicationStatusDraft {
		return LoanApplication{}, fmt.Errorf("%w: can only update applications in draft status", ErrInvalidState)
	}

	// 3) Apply patch
	if patch.PersonalInfo != nil {
		if err := patch.PersonalInfo.Validate(); err != nil {
			return LoanApplication{}, err
		}
	}
	app.Apply(patch)
	app.UpdatedAt = s.clock()

	// 4) Persist
	if err := s.apps.Update(ctx, app); err != nil {
		return LoanApplication{}, err
	}

	return app, nil
}

func (s *applicationService) Submit(ctx context.Context, id string) (LoanApplication, error) {
	// 1) Load application
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return LoanApplication{}, err
	}

	// 2) Validate current status allows submission
	if !app.Status.CanTransitionTo(ApplicationStatusSubmitted) {
		return LoanApplication{}, fmt.Errorf("%w: cannot submit application in %s status", ErrInvalidState, app.Status)
	}

	// 3) Validate application is complete enough for underwriting
	if err := app.ValidateForSubmission(); err != nil {
		return LoanApplication{}, err
	}

	// 4) Update status
	now := s.clock()
	app.Status = ApplicationStatusSubmitted
	app.UpdatedAt = now
	app.SubmittedAt = &now

	// 5) Persist
	if err := s.apps.Update(ctx, app); err != nil {
		return LoanApplication{}, err
	}

	// 6) Notify (best-effort)
	_ = s.notifier.Notify(ctx, Notification{
		Type:    NotificationApplicationSubmitted,
		UserID:  app.UserID,
		Email:   app.PersonalInfo.Email,
		Title:   "Application submitted",
		Message: "Your loan application has been submitted and is awaiting review.",
		Data:    map[string]any{"application_id": app.ID},
	})

	return app, nil
}
