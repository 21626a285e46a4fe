package dynamo

import (
	"time"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

// timeLayout is fixed-width so stored timestamps sort lexicographically in
// range keys.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseTime(s)
	return &t
}

// Application

type PersonalInfoItem struct {
	FullName    string `dynamodbav:"full_name"`
	DateOfBirth string `dynamodbav:"date_of_birth"`
	Email       string `dynamodbav:"email"`
	Phone       string `dynamodbav:"phone"`
	Address     string `dynamodbav:"address"`
	Nationality string `dynamodbav:"nationality"`
}

type KYCDocumentsItem struct {
	IDDocumentRef      string `dynamodbav:"id_document_ref,omitempty"`
	ProofOfAddressRef  string `dynamodbav:"proof_of_address_ref,omitempty"`
	AdmissionLetterRef string `dynamodbav:"admission_letter_ref,omitempty"`
}

type EmploymentItem struct {
	Employer string `dynamodbav:"employer"`
	JobTitle string `dynamodbav:"job_title"`
	From     string `dynamodbav:"from,omitempty"`
	To       string `dynamodbav:"to,omitempty"`
}

type CurrentEmploymentItem struct {
	Employer       string `dynamodbav:"employer"`
	JobTitle       string `dynamodbav:"job_title"`
	EmploymentType string `dynamodbav:"employment_type"`
	StartDate      string `dynamodbav:"start_date,omitempty"`
	AnnualSalary   string `dynamodbav:"annual_salary,omitempty"`
}

type EducationInfoItem struct {
	HighestQualification string                 `dynamodbav:"highest_qualification"`
	Institution          string                 `dynamodbav:"institution,omitempty"`
	GraduationYear       int                    `dynamodbav:"graduation_year,omitempty"`
	EmploymentHistory    []EmploymentItem       `dynamodbav:"employment_history,omitempty"`
	CurrentEmployment    *CurrentEmploymentItem `dynamodbav:"current_employment,omitempty"`
}

type ProgramInfoItem struct {
	Name           string `dynamodbav:"name"`
	FieldOfStudy   string `dynamodbav:"field_of_study"`
	Institution    string `dynamodbav:"institution"`
	Country        string `dynamodbav:"country"`
	StartDate      string `dynamodbav:"start_date,omitempty"`
	DurationMonths int    `dynamodbav:"duration_months,omitempty"`
}

type FinancialInfoItem struct {
	HouseholdIncome string `dynamodbav:"household_income"`
	ExistingLoans   string `dynamodbav:"existing_loans,omitempty"`
}

type LoanRequestItem struct {
	Type    string `dynamodbav:"type"`
	Amount  string `dynamodbav:"amount"`
	Purpose string `dynamodbav:"purpose"`
}

type DeclarationsItem struct {
	InformationAccurate bool `dynamodbav:"information_accurate"`
	ConsentCreditCheck  bool `dynamodbav:"consent_credit_check"`
	AcceptTerms         bool `dynamodbav:"accept_terms"`
}

type ApplicationItem struct {
	ID                string            `dynamodbav:"id"`
	UserID            string            `dynamodbav:"user_id"`
	PersonalInfo      PersonalInfoItem  `dynamodbav:"personal_info"`
	KYCDocuments      KYCDocumentsItem  `dynamodbav:"kyc_documents"`
	EducationInfo     EducationInfoItem `dynamodbav:"education_info"`
	ProgramInfo       ProgramInfoItem   `dynamodbav:"program_info"`
	FinancialInfo     FinancialInfoItem `dynamodbav:"financial_info"`
	Loan              LoanRequestItem   `dynamodbav:"loan"`
	Declarations      DeclarationsItem  `dynamodbav:"declarations"`
	AssignedSponsorID string            `dynamodbav:"assigned_sponsor_id,omitempty"`
	Status            string            `dynamodbav:"status"`
	CreatedAt         string            `dynamodbav:"created_at"`
	UpdatedAt         string            `dynamodbav:"updated_at"`
	SubmittedAt       string            `dynamodbav:"submitted_at,omitempty"`
}

func (i ApplicationItem) ToCore() core.LoanApplication {
	edu := core.EducationInfo{
		HighestQualification: i.EducationInfo.HighestQualification,
		Institution:          i.EducationInfo.Institution,
		GraduationYear:       i.EducationInfo.GraduationYear,
	}
	for _, h := range i.EducationInfo.EmploymentHistory {
		edu.EmploymentHistory = append(edu.EmploymentHistory, core.Employment(h))
	}
	if ce := i.EducationInfo.CurrentEmployment; ce != nil {
		cur := core.CurrentEmployment(*ce)
		edu.CurrentEmployment = &cur
	}

	return core.LoanApplication{
		ID:                i.ID,
		UserID:            i.UserID,
		PersonalInfo:      core.PersonalInfo(i.PersonalInfo),
		KYCDocuments:      core.KYCDocuments(i.KYCDocuments),
		EducationInfo:     edu,
		ProgramInfo:       core.ProgramInfo(i.ProgramInfo),
		FinancialInfo:     core.FinancialInfo(i.FinancialInfo),
		Loan:              core.LoanRequest{Type: core.LoanType(i.Loan.Type), Amount: i.Loan.Amount, Purpose: i.Loan.Purpose},
		Declarations:      core.Declarations(i.Declarations),
		AssignedSponsorID: i.AssignedSponsorID,
		Status:            core.ApplicationStatus(i.Status),
		CreatedAt:         parseTime(i.CreatedAt),
		UpdatedAt:         parseTime(i.UpdatedAt),
		SubmittedAt:       parseTimePtr(i.SubmittedAt),
	}
}

func applicationItemFromCore(a core.LoanApplication) ApplicationItem {
	edu := EducationInfoItem{
		HighestQualification: a.EducationInfo.HighestQualification,
		Institution:          a.EducationInfo.Institution,
		GraduationYear:       a.EducationInfo.GraduationYear,
	}
	for _, h := range a.EducationInfo.EmploymentHistory {
		edu.EmploymentHistory = append(edu.EmploymentHistory, EmploymentItem(h))
	}
	if ce := a.EducationInfo.CurrentEmployment; ce != nil {
		cur := CurrentEmploymentItem(*ce)
		edu.CurrentEmployment = &cur
	}

	return ApplicationItem{
		ID:                a.ID,
		UserID:            a.UserID,
		PersonalInfo:      PersonalInfoItem(a.PersonalInfo),
		KYCDocuments:      KYCDocumentsItem(a.KYCDocuments),
		EducationInfo:     edu,
		ProgramInfo:       ProgramInfoItem(a.ProgramInfo),
		FinancialInfo:     FinancialInfoItem(a.FinancialInfo),
		Loan:              LoanRequestItem{Type: string(a.Loan.Type), Amount: a.Loan.Amount, Purpose: a.Loan.Purpose},
		Declarations:      DeclarationsItem(a.Declarations),
		AssignedSponsorID: a.AssignedSponsorID,
		Status:            string(a.Status),
		CreatedAt:         formatTime(a.CreatedAt),
		UpdatedAt:         formatTime(a.UpdatedAt),
		SubmittedAt:       formatTimePtr(a.SubmittedAt),
	}
}

// Risk assessment

type SubScoreItem struct {
	Score   int    `dynamodbav:"score"`
	Details string `dynamodbav:"details"`
}

type AssessmentItem struct {
	ID            string       `dynamodbav:"id"`
	ApplicationID string       `dynamodbav:"application_id"`
	RiskScore     int          `dynamodbav:"risk_score"`
	RiskTier      string       `dynamodbav:"risk_tier"`
	Decision      string       `dynamodbav:"decision"`
	Affordability SubScoreItem `dynamodbav:"affordability"`
	Education     SubScoreItem `dynamodbav:"education"`
	Employment    SubScoreItem `dynamodbav:"employment"`
	Sponsor       SubScoreItem `dynamodbav:"sponsor"`
	RulesApplied  []string     `dynamodbav:"rules_applied"`
	CreatedAt     string       `dynamodbav:"created_at"`
}

func (i AssessmentItem) ToCore() core.RiskAssessment {
	rules := i.RulesApplied
	if rules == nil {
		rules = []string{}
	}
	return core.RiskAssessment{
		ID:            i.ID,
		ApplicationID: i.ApplicationID,
		RiskScore:     i.RiskScore,
		RiskTier:      core.RiskTier(i.RiskTier),
		Decision:      core.Decision(i.Decision),
		SubScores: core.SubScores{
			Affordability: core.SubScore(i.Affordability),
			Education:     core.SubScore(i.Education),
			Employment:    core.SubScore(i.Employment),
			Sponsor:       core.SubScore(i.Sponsor),
		},
		RulesApplied: rules,
		CreatedAt:    parseTime(i.CreatedAt),
	}
}

func assessmentItemFromCore(a core.RiskAssessment) AssessmentItem {
	return AssessmentItem{
		ID:            a.ID,
		ApplicationID: a.ApplicationID,
		RiskScore:     a.RiskScore,
		RiskTier:      string(a.RiskTier),
		Decision:      string(a.Decision),
		Affordability: SubScoreItem(a.SubScores.Affordability),
		Education:     SubScoreItem(a.SubScores.Education),
		Employment:    SubScoreItem(a.SubScores.Employment),
		Sponsor:       SubScoreItem(a.SubScores.Sponsor),
		RulesApplied:  a.RulesApplied,
		CreatedAt:     formatTime(a.CreatedAt),
	}
}

// Loan offer

type RepaymentScheduleItem struct {
	MonthlyPayment   *float64 `dynamodbav:"monthly_payment,omitempty"`
	TotalRepayment   *float64 `dynamodbav:"total_repayment,omitempty"`
	PaymentCap       *float64 `dynamodbav:"payment_cap,omitempty"`
	FirstPaymentDate string   `dynamodbav:"first_payment_date"`
}

type TermsItem struct {
	EligibilityRequirements []string `dynamodbav:"eligibility_requirements"`
	SpecialConditions       []string `dynamodbav:"special_conditions"`
	Benefits                []string `dynamodbav:"benefits"`
}

type OfferItem struct {
	ID                  string                `dynamodbav:"id"`
	ApplicationID       string                `dynamodbav:"application_id"`
	AssessmentID        string                `dynamodbav:"assessment_id"`
	OfferType           string                `dynamodbav:"offer_type"`
	RequestedAmount     float64               `dynamodbav:"requested_amount"`
	LoanAmount          float64               `dynamodbav:"loan_amount"`
	APRRate             *float64              `dynamodbav:"apr_rate,omitempty"`
	ISAPercentage       *float64              `dynamodbav:"isa_percentage,omitempty"`
	LoanPortion         *float64              `dynamodbav:"loan_portion,omitempty"`
	ISAPortion          *float64              `dynamodbav:"isa_portion,omitempty"`
	RepaymentTermMonths int                   `dynamodbav:"repayment_term_months"`
	GracePeriodMonths   int                   `dynamodbav:"grace_period_months"`
	RepaymentSchedule   RepaymentScheduleItem `dynamodbav:"repayment_schedule"`
	TermsAndConditions  TermsItem             `dynamodbav:"terms_and_conditions"`
	Status              string                `dynamodbav:"status"`
	CreatedAt           string                `dynamodbav:"created_at"`
	OfferValidUntil     string                `dynamodbav:"offer_valid_until"`
	AcceptedAt          string                `dynamodbav:"accepted_at,omitempty"`
	DeclinedAt          string                `dynamodbav:"declined_at,omitempty"`
}

func (i OfferItem) ToCore() core.LoanOffer {
	return core.LoanOffer{
		ID:                  i.ID,
		ApplicationID:       i.ApplicationID,
		AssessmentID:        i.AssessmentID,
		OfferType:           core.OfferType(i.OfferType),
		RequestedAmount:     i.RequestedAmount,
		LoanAmount:          i.LoanAmount,
		APRRate:             i.APRRate,
		ISAPercentage:       i.ISAPercentage,
		LoanPortion:         i.LoanPortion,
		ISAPortion:          i.ISAPortion,
		RepaymentTermMonths: i.RepaymentTermMonths,
		GracePeriodMonths:   i.GracePeriodMonths,
		RepaymentSchedule:   core.RepaymentSchedule(i.RepaymentSchedule),
		TermsAndConditions:  core.TermsAndConditions(i.TermsAndConditions),
		Status:              core.OfferStatus(i.Status),
		CreatedAt:           parseTime(i.CreatedAt),
		OfferValidUntil:     parseTime(i.OfferValidUntil),
		AcceptedAt:          parseTimePtr(i.AcceptedAt),
		DeclinedAt:          parseTimePtr(i.DeclinedAt),
	}
}

func offerItemFromCore(o core.LoanOffer) OfferItem {
	return OfferItem{
		ID:                  o.ID,
		ApplicationID:       o.ApplicationID,
		AssessmentID:        o.AssessmentID,
		OfferType:           string(o.OfferType),
		RequestedAmount:     o.RequestedAmount,
		LoanAmount:          o.LoanAmount,
		APRRate:             o.APRRate,
		ISAPercentage:       o.ISAPercentage,
		LoanPortion:         o.LoanPortion,
		ISAPortion:          o.ISAPortion,
		RepaymentTermMonths: o.RepaymentTermMonths,
		GracePeriodMonths:   o.GracePeriodMonths,
		RepaymentSchedule:   RepaymentScheduleItem(o.RepaymentSchedule),
		TermsAndConditions:  TermsItem(o.TermsAndConditions),
		Status:              string(o.Status),
		CreatedAt:           formatTime(o.CreatedAt),
		OfferValidUntil:     formatTime(o.OfferValidUntil),
		AcceptedAt:          formatTimePtr(o.AcceptedAt),
		DeclinedAt:          formatTimePtr(o.DeclinedAt),
	}
}

// Sponsor

type SponsorItem struct {
	ID             string   `dynamodbav:"id"`
	Name           string   `dynamodbav:"name"`
	ExpertiseAreas []string `dynamodbav:"expertise_areas"`
	Countries      []string `dynamodbav:"countries"`
	CareerFocus    []string `dynamodbav:"career_focus"`
	MinFunding     float64  `dynamodbav:"min_funding"`
	MaxFunding     float64  `dynamodbav:"max_funding"`
	Capacity       int      `dynamodbav:"capacity"`
	Active         bool     `dynamodbav:"active"`
	CreatedAt      string   `dynamodbav:"created_at"`
	UpdatedAt      string   `dynamodbav:"updated_at"`
}

func (i SponsorItem) ToCore() core.Sponsor {
	return core.Sponsor{
		ID:             i.ID,
		Name:           i.Name,
		ExpertiseAreas: i.ExpertiseAreas,
		Countries:      i.Countries,
		CareerFocus:    i.CareerFocus,
		MinFunding:     i.MinFunding,
		MaxFunding:     i.MaxFunding,
		Capacity:       i.Capacity,
		Active:         i.Active,
		CreatedAt:      parseTime(i.CreatedAt),
		UpdatedAt:      parseTime(i.UpdatedAt),
	}
}

func sponsorItemFromCore(s core.Sponsor) SponsorItem {
	return SponsorItem{
		ID:             s.ID,
		Name:           s.Name,
		ExpertiseAreas: s.ExpertiseAreas,
		Countries:      s.Countries,
		CareerFocus:    s.CareerFocus,
		MinFunding:     s.MinFunding,
		MaxFunding:     s.MaxFunding,
		Capacity:       s.Capacity,
		Active:         s.Active,
		CreatedAt:      formatTime(s.CreatedAt),
		UpdatedAt:      formatTime(s.UpdatedAt),
	}
}
