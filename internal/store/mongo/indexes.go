package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := ensureApplicationsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure applications indexes: %w", err)
	}
	if err := ensureAssessmentsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure risk_assessments indexes: %w", err)
	}
	if err := ensureOffersIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure loan_offers indexes: %w", err)
	}
	if err := ensureSponsorsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure sponsors indexes: %w", err)
	}
	return nil
}

func ensureApplicationsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColApplications)
	models := []mongo.IndexModel{
		newIndex("user_id", 1, "apps_user_id", false),
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("apps_status_created_at"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureAssessmentsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColAssessments)
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "application_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("assessments_application_latest"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureOffersIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColOffers)
	models := []mongo.IndexModel{
		// One offer per assessment.
		newIndex("assessment_id", 1, "offers_assessment_id_unique", true),
		{
			Keys:    bson.D{{Key: "application_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("offers_application_latest"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "offer_valid_until", Value: 1}},
			Options: options.Index().SetName("offers_status_valid_until"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureSponsorsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColSponsors)
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "active", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("sponsors_active_created_at"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func newIndex(field string, asc int32, name string, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts = opts.SetUnique(true)
	}
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: asc}},
		Options: opts,
	}
}
