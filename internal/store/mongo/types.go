package mongo

import (
	"time"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

const (
	ColApplications = "applications"
	ColAssessments  = "risk_assessments"
	ColOffers       = "loan_offers"
	ColSponsors     = "sponsors"
)

// Application

type PersonalInfoDoc struct {
	FullName    string `bson:"full_name"`
	DateOfBirth string `bson:"date_of_birth"`
	Email       string `bson:"email"`
	Phone       string `bson:"phone"`
	Address     string `bson:"address"`
	Nationality string `bson:"nationality"`
}

type KYCDocumentsDoc struct {
	IDDocumentRef      string `bson:"id_document_ref,omitempty"`
	ProofOfAddressRef  string `bson:"proof_of_address_ref,omitempty"`
	AdmissionLetterRef string `bson:"admission_letter_ref,omitempty"`
}

type EmploymentDoc struct {
	Employer string `bson:"employer"`
	JobTitle string `bson:"job_title"`
	From     string `bson:"from,omitempty"`
	To       string `bson:"to,omitempty"`
}

type CurrentEmploymentDoc struct {
	Employer       string `bson:"employer"`
	JobTitle       string `bson:"job_title"`
	EmploymentType string `bson:"employment_type"`
	StartDate      string `bson:"start_date,omitempty"`
	AnnualSalary   string `bson:"annual_salary,omitempty"`
}

type EducationInfoDoc struct {
	HighestQualification string                `bson:"highest_qualification"`
	Institution          string                `bson:"institution,omitempty"`
	GraduationYear       int                   `bson:"graduation_year,omitempty"`
	EmploymentHistory    []EmploymentDoc       `bson:"employment_history,omitempty"`
	CurrentEmployment    *CurrentEmploymentDoc `bson:"current_employment,omitempty"`
}

type ProgramInfoDoc struct {
	Name           string `bson:"name"`
	FieldOfStudy   string `bson:"field_of_study"`
	Institution    string `bson:"institution"`
	Country        string `bson:"country"`
	StartDate      string `bson:"start_date,omitempty"`
	DurationMonths int    `bson:"duration_months,omitempty"`
}

type ApplicationDoc struct {
	ID                string           `bson:"_id"`
	UserID            string           `bson:"user_id"`
	PersonalInfo      PersonalInfoDoc  `bson:"personal_info"`
	KYCDocuments      KYCDocumentsDoc  `bson:"kyc_documents"`
	EducationInfo     EducationInfoDoc `bson:"education_info"`
	ProgramInfo       ProgramInfoDoc   `bson:"program_info"`
	HouseholdIncome   string           `bson:"household_income"`
	ExistingLoans     string           `bson:"existing_loans,omitempty"`
	LoanType          string           `bson:"loan_type"`
	LoanAmount        string           `bson:"loan_amount"`
	LoanPurpose       string           `bson:"loan_purpose"`
	InfoAccurate      bool             `bson:"decl_information_accurate"`
	ConsentCredit     bool             `bson:"decl_consent_credit_check"`
	AcceptTerms       bool             `bson:"decl_accept_terms"`
	AssignedSponsorID string           `bson:"assigned_sponsor_id,omitempty"`
	Status            string           `bson:"status"`
	CreatedAt         time.Time        `bson:"created_at"`
	UpdatedAt         time.Time        `bson:"updated_at"`
	SubmittedAt       *time.Time       `bson:"submitted_at,omitempty"`
}

func toApplicationDoc(a core.LoanApplication) ApplicationDoc {
	p, e := a.PersonalInfo, a.EducationInfo
	doc := ApplicationDoc{
		ID:     a.ID,
		UserID: a.UserID,
		PersonalInfo: PersonalInfoDoc{
			FullName:    p.FullName,
			DateOfBirth: p.DateOfBirth,
			Email:       p.Email,
			Phone:       p.Phone,
			Address:     p.Address,
			Nationality: p.Nationality,
		},
		KYCDocuments: KYCDocumentsDoc(a.KYCDocuments),
		EducationInfo: EducationInfoDoc{
			HighestQualification: e.HighestQualification,
			Institution:          e.Institution,
			GraduationYear:       e.GraduationYear,
		},
		ProgramInfo:       ProgramInfoDoc(a.ProgramInfo),
		HouseholdIncome:   a.FinancialInfo.HouseholdIncome,
		ExistingLoans:     a.FinancialInfo.ExistingLoans,
		LoanType:          string(a.Loan.Type),
		LoanAmount:        a.Loan.Amount,
		LoanPurpose:       a.Loan.Purpose,
		InfoAccurate:      a.Declarations.InformationAccurate,
		ConsentCredit:     a.Declarations.ConsentCreditCheck,
		AcceptTerms:       a.Declarations.AcceptTerms,
		AssignedSponsorID: a.AssignedSponsorID,
		Status:            string(a.Status),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
		SubmittedAt:       a.SubmittedAt,
	}
	for _, h := range e.EmploymentHistory {
		doc.EducationInfo.EmploymentHistory = append(doc.EducationInfo.EmploymentHistory, EmploymentDoc(h))
	}
	if e.CurrentEmployment != nil {
		ce := CurrentEmploymentDoc(*e.CurrentEmployment)
		doc.EducationInfo.CurrentEmployment = &ce
	}
	return doc
}

func fromApplicationDoc(d ApplicationDoc) core.LoanApplication {
	app := core.LoanApplication{
		ID:           d.ID,
		UserID:       d.UserID,
		PersonalInfo: core.PersonalInfo(d.PersonalInfo),
		KYCDocuments: core.KYCDocuments(d.KYCDocuments),
		EducationInfo: core.EducationInfo{
			HighestQualification: d.EducationInfo.HighestQualification,
			Institution:          d.EducationInfo.Institution,
			GraduationYear:       d.EducationInfo.GraduationYear,
		},
		ProgramInfo: core.ProgramInfo(d.ProgramInfo),
		FinancialInfo: core.FinancialInfo{
			HouseholdIncome: d.HouseholdIncome,
			ExistingLoans:   d.ExistingLoans,
		},
		Loan: core.LoanRequest{
			Type:    core.LoanType(d.LoanType),
			Amount:  d.LoanAmount,
			Purpose: d.LoanPurpose,
		},
		Declarations: core.Declarations{
			InformationAccurate: d.InfoAccurate,
			ConsentCreditCheck:  d.ConsentCredit,
			AcceptTerms:         d.AcceptTerms,
		},
		AssignedSponsorID: d.AssignedSponsorID,
		Status:            core.ApplicationStatus(d.Status),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		SubmittedAt:       d.SubmittedAt,
	}
	for _, h := range d.EducationInfo.EmploymentHistory {
		app.EducationInfo.EmploymentHistory = append(app.EducationInfo.EmploymentHistory, core.Employment(h))
	}
	if ce := d.EducationInfo.CurrentEmployment; ce != nil {
		cur := core.CurrentEmployment(*ce)
		app.EducationInfo.CurrentEmployment = &cur
	}
	return app
}

// Risk assessment

type SubScoreDoc struct {
	Score   int    `bson:"score"`
	Details string `bson:"details"`
}

type AssessmentDoc struct {
	ID            string      `bson:"_id"`
	ApplicationID string      `bson:"application_id"`
	RiskScore     int         `bson:"risk_score"`
	RiskTier      string      `bson:"risk_tier"`
	Decision      string      `bson:"decision"`
	Affordability SubScoreDoc `bson:"affordability"`
	Education     SubScoreDoc `bson:"education"`
	Employment    SubScoreDoc `bson:"employment"`
	Sponsor       SubScoreDoc `bson:"sponsor"`
	RulesApplied  []string    `bson:"rules_applied"`
	CreatedAt     time.Time   `bson:"created_at"`
}

func toAssessmentDoc(a core.RiskAssessment) AssessmentDoc {
	return AssessmentDoc{
		ID:            a.ID,
		ApplicationID: a.ApplicationID,
		RiskScore:     a.RiskScore,
		RiskTier:      string(a.RiskTier),
		Decision:      string(a.Decision),
		Affordability: SubScoreDoc(a.SubScores.Affordability),
		Education:     SubScoreDoc(a.SubScores.Education),
		Employment:    SubScoreDoc(a.SubScores.Employment),
		Sponsor:       SubScoreDoc(a.SubScores.Sponsor),
		RulesApplied:  a.RulesApplied,
		CreatedAt:     a.CreatedAt,
	}
}

func fromAssessmentDoc(d AssessmentDoc) core.RiskAssessment {
	rules := d.RulesApplied
	if rules == nil {
		rules = []string{}
	}
	return core.RiskAssessment{
		ID:            d.ID,
		ApplicationID: d.ApplicationID,
		RiskScore:     d.RiskScore,
		RiskTier:      core.RiskTier(d.RiskTier),
		Decision:      core.Decision(d.Decision),
		SubScores: core.SubScores{
			Affordability: core.SubScore(d.Affordability),
			Education:     core.SubScore(d.Education),
			Employment:    core.SubScore(d.Employment),
			Sponsor:       core.SubScore(d.Sponsor),
		},
		RulesApplied: rules,
		CreatedAt:    d.CreatedAt,
	}
}

// Loan offer

type RepaymentScheduleDoc struct {
	MonthlyPayment   *float64 `bson:"monthly_payment,omitempty"`
	TotalRepayment   *float64 `bson:"total_repayment,omitempty"`
	PaymentCap       *float64 `bson:"payment_cap,omitempty"`
	FirstPaymentDate string   `bson:"first_payment_date"`
}

type TermsDoc struct {
	EligibilityRequirements []string `bson:"eligibility_requirements"`
	SpecialConditions       []string `bson:"special_conditions"`
	Benefits                []string `bson:"benefits"`
}

type OfferDoc struct {
	ID                  string               `bson:"_id"`
	ApplicationID       string               `bson:"application_id"`
	AssessmentID        string               `bson:"assessment_id"`
	OfferType           string               `bson:"offer_type"`
	RequestedAmount     float64              `bson:"requested_amount"`
	LoanAmount          float64              `bson:"loan_amount"`
	APRRate             *float64             `bson:"apr_rate,omitempty"`
	ISAPercentage       *float64             `bson:"isa_percentage,omitempty"`
	LoanPortion         *float64             `bson:"loan_portion,omitempty"`
	ISAPortion          *float64             `bson:"isa_portion,omitempty"`
	RepaymentTermMonths int                  `bson:"repayment_term_months"`
	GracePeriodMonths   int                  `bson:"grace_period_months"`
	RepaymentSchedule   RepaymentScheduleDoc `bson:"repayment_schedule"`
	TermsAndConditions  TermsDoc             `bson:"terms_and_conditions"`
	Status              string               `bson:"status"`
	CreatedAt           time.Time            `bson:"created_at"`
	OfferValidUntil     time.Time            `bson:"offer_valid_until"`
	AcceptedAt          *time.Time           `bson:"accepted_at,omitempty"`
	DeclinedAt          *time.Time           `bson:"declined_at,omitempty"`
}

func toOfferDoc(o core.LoanOffer) OfferDoc {
	return OfferDoc{
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
		RepaymentSchedule:   RepaymentScheduleDoc(o.RepaymentSchedule),
		TermsAndConditions:  TermsDoc(o.TermsAndConditions),
		Status:              string(o.Status),
		CreatedAt:           o.CreatedAt,
		OfferValidUntil:     o.OfferValidUntil,
		AcceptedAt:          o.AcceptedAt,
		DeclinedAt:          o.DeclinedAt,
	}
}

func fromOfferDoc(d OfferDoc) core.LoanOffer {
	return core.LoanOffer{
		ID:                  d.ID,
		ApplicationID:       d.ApplicationID,
		AssessmentID:        d.AssessmentID,
		OfferType:           core.OfferType(d.OfferType),
		RequestedAmount:     d.RequestedAmount,
		LoanAmount:          d.LoanAmount,
		APRRate:             d.APRRate,
		ISAPercentage:       d.ISAPercentage,
		LoanPortion:         d.LoanPortion,
		ISAPortion:          d.ISAPortion,
		RepaymentTermMonths: d.RepaymentTermMonths,
		GracePeriodMonths:   d.GracePeriodMonths,
		RepaymentSchedule:   core.RepaymentSchedule(d.RepaymentSchedule),
		TermsAndConditions:  core.TermsAndConditions(d.TermsAndConditions),
		Status:              core.OfferStatus(d.Status),
		CreatedAt:           d.CreatedAt,
		OfferValidUntil:     d.OfferValidUntil,
		AcceptedAt:          d.AcceptedAt,
		DeclinedAt:          d.DeclinedAt,
	}
}

// Sponsor

type SponsorDoc struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	ExpertiseAreas []string  `bson:"expertise_areas"`
	Countries      []string  `bson:"countries"`
	CareerFocus    []string  `bson:"career_focus"`
	MinFunding     float64   `bson:"min_funding"`
	MaxFunding     float64   `bson:"max_funding"`
	Capacity       int       `bson:"capacity"`
	Active         bool      `bson:"active"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toSponsorDoc(s core.Sponsor) SponsorDoc {
	return SponsorDoc(s)
}

func fromSponsorDoc(d SponsorDoc) core.Sponsor {
	return core.Sponsor(d)
}
