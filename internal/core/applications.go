package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusDraft       ApplicationStatus = "draft"
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// LoanType is the product the applicant asked for.
type LoanType string

const (
	LoanTypeEducation       LoanType = "education-loan"
	LoanTypeCareerMicroloan LoanType = "career-microloan"
	LoanTypeISA             LoanType = "income-share"
)

// Employment types recognised by the employment sub-score.
const (
	EmploymentFullTime     = "full-time"
	EmploymentPartTime     = "part-time"
	EmploymentContract     = "contract"
	EmploymentSelfEmployed = "self-employed"
	EmploymentInternship   = "internship"
)

// PersonalInfo holds contact and identity details. Every field is optional at
// draft time; completeness feeds the sponsor sub-score.
type PersonalInfo struct {
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Nationality string `json:"nationality"`
}

// KYCDocuments holds references to stored identity documents. The documents
// themselves live in external storage.
type KYCDocuments struct {
	IDDocumentRef      string `json:"id_document_ref,omitempty"`
	ProofOfAddressRef  string `json:"proof_of_address_ref,omitempty"`
	AdmissionLetterRef string `json:"admission_letter_ref,omitempty"`
}

// Employment is one entry of the applicant's career history.
type Employment struct {
	Employer string `json:"employer"`
	JobTitle string `json:"job_title"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

// CurrentEmployment is present only when the applicant is currently employed.
type CurrentEmployment struct {
	Employer       string `json:"employer"`
	JobTitle       string `json:"job_title"`
	EmploymentType string `json:"employment_type"`
	StartDate      string `json:"start_date,omitempty"`
	AnnualSalary   string `json:"annual_salary,omitempty"`
}

type EducationInfo struct {
	HighestQualification string             `json:"highest_qualification"`
	Institution          string             `json:"institution,omitempty"`
	GraduationYear       int                `json:"graduation_year,omitempty"`
	EmploymentHistory    []Employment       `json:"employment_history,omitempty"`
	CurrentEmployment    *CurrentEmployment `json:"current_employment,omitempty"`
}

type ProgramInfo struct {
	Name           string `json:"name"`
	FieldOfStudy   string `json:"field_of_study"`
	Institution    string `json:"institution"`
	Country        string `json:"country"`
	StartDate      string `json:"start_date,omitempty"`
	DurationMonths int    `json:"duration_months,omitempty"`
}

type FinancialInfo struct {
	HouseholdIncome string `json:"household_income"` // free text, e.g. "£60,000"
	ExistingLoans   string `json:"existing_loans,omitempty"`
}

type LoanRequest struct {
	Type    LoanType `json:"type"`
	Amount  string   `json:"amount"` // free text, e.g. "£25,000"
	Purpose string   `json:"purpose"`
}

type Declarations struct {
	InformationAccurate bool `json:"information_accurate"`
	ConsentCreditCheck  bool `json:"consent_credit_check"`
	AcceptTerms         bool `json:"accept_terms"`
}

// LoanApplication is the applicant-owned record fed into underwriting.
type LoanApplication struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	PersonalInfo      PersonalInfo      `json:"personal_info"`
	KYCDocuments      KYCDocuments      `json:"kyc_documents"`
	EducationInfo     EducationInfo     `json:"education_info"`
	ProgramInfo       ProgramInfo       `json:"program_info"`
	FinancialInfo     FinancialInfo     `json:"financial_info"`
	Loan              LoanRequest       `json:"loan"`
	Declarations      Declarations      `json:"declarations"`
	AssignedSponsorID string            `json:"assigned_sponsor_id,omitempty"`
	Status            ApplicationStatus `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	SubmittedAt       *time.Time        `json:"submitted_at,omitempty"`
}

type ApplicationInput struct {
	UserID        string        `json:"user_id"`
	PersonalInfo  PersonalInfo  `json:"personal_info"`
	KYCDocuments  KYCDocuments  `json:"kyc_documents"`
	EducationInfo EducationInfo `json:"education_info"`
	ProgramInfo   ProgramInfo   `json:"program_info"`
	FinancialInfo FinancialInfo `json:"financial_info"`
	Loan          LoanRequest   `json:"loan"`
	Declarations  Declarations  `json:"declarations"`
}

// ApplicationPatch replaces whole sub-records; nil sections are left untouched.
type ApplicationPatch struct {
	PersonalInfo  *PersonalInfo  `json:"personal_info,omitempty"`
	KYCDocuments  *KYCDocuments  `json:"kyc_documents,omitempty"`
	EducationInfo *EducationInfo `json:"education_info,omitempty"`
	ProgramInfo   *ProgramInfo   `json:"program_info,omitempty"`
	FinancialInfo *FinancialInfo `json:"financial_info,omitempty"`
	Loan          *LoanRequest   `json:"loan,omitempty"`
	Declarations  *Declarations  `json:"declarations,omitempty"`
}

type ApplicationRepo interface {
	Create(ctx context.Context, app LoanApplication) error
	Get(ctx context.Context, id string) (LoanApplication, error)
	Update(ctx context.Context, app LoanApplication) error
	// UpdateStatus moves the application from one status to another only if
	// it is still in from. A lost race returns ErrStatusChanged.
	UpdateStatus(ctx context.Context, id string, from, to ApplicationStatus, updatedAt time.Time) error
	FindByStatus(ctx context.Context, status ApplicationStatus, limit int) ([]LoanApplication, error)
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate checks fields that must be well-formed whenever they are present.
func (p PersonalInfo) Validate() error {
	if p.Email != "" && !emailRegex.MatchString(p.Email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if p.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", p.DateOfBirth); err != nil {
			return fmt.Errorf("%w: date of birth must be YYYY-MM-DD", ErrValidation)
		}
	}
	return nil
}

func (in ApplicationInput) Validate() error {
	if in.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	return in.PersonalInfo.Validate()
}

// ValidateForSubmission checks the minimum an application needs before it can
// enter underwriting. Everything else degrades to low sub-scores instead.
func (a LoanApplication) ValidateForSubmission() error {
	if err := a.PersonalInfo.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(a.PersonalInfo.FullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if a.PersonalInfo.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if strings.TrimSpace(a.Loan.Amount) == "" {
		return fmt.Errorf("%w: loan amount is required", ErrValidation)
	}
	d := a.Declarations
	if !d.InformationAccurate || !d.ConsentCreditCheck || !d.AcceptTerms {
		return fmt.Errorf("%w: all declarations must be accepted", ErrValidation)
	}
	return nil
}

// Apply merges a patch into the application.
func (a *LoanApplication) Apply(p ApplicationPatch) {
	if p.PersonalInfo != nil {
		a.PersonalInfo = *p.PersonalInfo
	}
	if p.KYCDocuments != nil {
		a.KYCDocuments = *p.KYCDocuments
	}
	if p.EducationInfo != nil {
		a.EducationInfo = *p.EducationInfo
	}
	if p.ProgramInfo != nil {
		a.ProgramInfo = *p.ProgramInfo
	}
	if p.FinancialInfo != nil {
		a.FinancialInfo = *p.FinancialInfo
	}
	if p.Loan != nil {
		a.Loan = *p.Loan
	}
	if p.Declarations != nil {
		a.Declarations = *p.Declarations
	}
}

// CanTransitionTo checks if a status transition is valid.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	transitions := map[ApplicationStatus][]ApplicationStatus{
		ApplicationStatusDraft:       {ApplicationStatusSubmitted},
		ApplicationStatusSubmitted:   {ApplicationStatusUnderReview},
		ApplicationStatusUnderReview: {ApplicationStatusApproved, ApplicationStatusRejected},
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var (
	ErrApplicationNotFound = fmt.Errorf("%w: application not found", ErrNotFound)
	ErrApplicationExists   = fmt.Errorf("%w: application already exists", ErrConflict)
	ErrStatusChanged       = fmt.Errorf("%w: application status changed concurrently", ErrConflict)
)
