package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/MrKriegler/go-eduloan/internal/core"
	"github.com/MrKriegler/go-eduloan/internal/platform/config"
	"github.com/MrKriegler/go-eduloan/internal/platform/logging"
	"github.com/MrKriegler/go-eduloan/internal/store"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env, cfg.LogLevel)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	backend, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", "err", err)
		os.Exit(1)
	}
	defer backend.Close(context.Background())

	log.Info("seeding sponsors")
	sponsorSvc := core.NewSponsorService(backend.Sponsors, backend.Apps, nil)
	for _, sp := range seedSponsors() {
		existing, err := backend.Sponsors.Get(ctx, sp.ID)
		switch {
		case err == nil:
			sp = keepLiveState(sp, existing)
		case !errors.Is(err, core.ErrSponsorNotFound):
			log.Error("failed to read sponsor", "sponsor_id", sp.ID, "err", err)
			continue
		}

		saved, err := sponsorSvc.Upsert(ctx, sp)
		if err != nil {
			log.Error("failed to seed sponsor", "sponsor_id", sp.ID, "err", err)
			continue
		}
		log.Info("sponsor seeded", "sponsor_id", saved.ID, "name", saved.Name, "capacity", saved.Capacity)
	}

	log.Info("seeding demo application")
	app := demoApplication()
	switch err := backend.Apps.Create(ctx, app); {
	case err == nil:
		log.Info("demo application seeded", "app_id", app.ID, "status", app.Status)
	case errors.Is(err, core.ErrApplicationExists):
		log.Info("demo application already present", "app_id", app.ID)
	default:
		log.Error("failed to seed demo application", "err", err)
	}

	log.Info("done seeding")
}

// keepLiveState carries over what assignments have consumed, so re-seeding
// refreshes a sponsor's profile without refilling its capacity.
func keepLiveState(seed, existing core.Sponsor) core.Sponsor {
	seed.Capacity = existing.Capacity
	seed.CreatedAt = existing.CreatedAt
	return seed
}

// Stable IDs keep seeding idempotent.
func seedSponsors() []core.Sponsor {
	return []core.Sponsor{
		{
			ID:             "sponsor-techbridge",
			Name:           "TechBridge Futures Fund",
			ExpertiseAreas: []string{"Computer Science", "Software Engineering", "Data Science"},
			Countries:      []string{"United Kingdom", "Ireland"},
			CareerFocus:    []string{"software", "data", "engineering", "cloud"},
			MinFunding:     5000,
			MaxFunding:     40000,
			Capacity:       25,
			Active:         true,
		},
		{
			ID:             "sponsor-carewell",
			Name:           "CareWell Health Scholars",
			ExpertiseAreas: []string{"Nursing", "Medicine", "Public Health"},
			Countries:      []string{"United Kingdom"},
			CareerFocus:    []string{"nursing", "clinical", "healthcare"},
			MinFunding:     3000,
			MaxFunding:     30000,
			Capacity:       15,
			Active:         true,
		},
		{
			ID:             "sponsor-greenfield",
			Name:           "Greenfield Sustainability Trust",
			ExpertiseAreas: []string{"Environmental Science", "Renewable Energy"},
			Countries:      []string{"United Kingdom", "Netherlands", "Germany"},
			CareerFocus:    []string{"energy", "climate", "sustainability"},
			MinFunding:     10000,
			MaxFunding:     50000,
			Capacity:       8,
			Active:         true,
		},
		{
			ID:             "sponsor-archive",
			Name:           "Legacy Bursary (closed)",
			ExpertiseAreas: []string{"History"},
			Countries:      []string{"United Kingdom"},
			MinFunding:     1000,
			MaxFunding:     5000,
			Capacity:       0,
			Active:         false,
		},
	}
}

func demoApplication() core.LoanApplication {
	now := time.Now().UTC()
	return core.LoanApplication{
		ID:     "demo-application",
		UserID: "demo-user",
		PersonalInfo: core.PersonalInfo{
			FullName:    "Ada Demo",
			DateOfBirth: "1996-04-12",
			Email:       "ada.demo@example.com",
			Phone:       "+44 20 7946 0000",
			Address:     "1 Example Street, London",
			Nationality: "British",
		},
		EducationInfo: core.EducationInfo{
			HighestQualification: "Bachelor's Degree in Mathematics",
			Institution:          "University of Leeds",
			CurrentEmployment: &core.CurrentEmployment{
				Employer:       "Northwind Analytics",
				JobTitle:       "Data Analyst",
				EmploymentType: core.EmploymentFullTime,
			},
		},
		ProgramInfo: core.ProgramInfo{
			Name:           "MSc Data Science",
			FieldOfStudy:   "Data Science",
			Institution:    "University of Edinburgh",
			Country:        "United Kingdom",
			DurationMonths: 12,
		},
		FinancialInfo: core.FinancialInfo{HouseholdIncome: "£48,000"},
		Loan: core.LoanRequest{
			Type:    core.LoanTypeEducation,
			Amount:  "£22,000",
			Purpose: "Retrain for a career in data engineering",
		},
		Declarations: core.Declarations{
			InformationAccurate: true,
			ConsentCreditCheck:  true,
			AcceptTerms:         true,
		},
		Status:    core.ApplicationStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
