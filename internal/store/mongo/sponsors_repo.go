package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

type SponsorRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewSponsorRepo(db *mongodrv.Database, opTimeout time.Duration) *SponsorRepoMongo {
	return &SponsorRepoMongo{
		coll:      db.Collection(ColSponsors),
		opTimeout: opTimeout,
	}
}

// ListActive returns active sponsors in creation order. Matching breaks ties
// by this order, so it must be stable.
func (r *SponsorRepoMongo) ListActive(ctx context.Context) ([]core.Sponsor, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bsonAsc("created_at", "_id"))
	return findAll(ctx, r.coll, "sponsors", bson.M{"active": true}, fromSponsorDoc, opts)
}

func (r *SponsorRepoMongo) Get(ctx context.Context, id string) (core.Sponsor, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	return findOne(ctx, r.coll, "sponsors.findOne", bson.M{"_id": id}, fromSponsorDoc, core.ErrSponsorNotFound)
}

// Upsert replaces the sponsor by ID, keeping the original created_at.
func (r *SponsorRepoMongo) Upsert(ctx context.Context, s core.Sponsor) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	doc := toSponsorDoc(s)
	set := bson.M{
		"name":            doc.Name,
		"expertise_areas": doc.ExpertiseAreas,
		"countries":       doc.Countries,
		"career_focus":    doc.CareerFocus,
		"min_funding":     doc.MinFunding,
		"max_funding":     doc.MaxFunding,
		"capacity":        doc.Capacity,
		"active":          doc.Active,
		"updated_at":      doc.UpdatedAt,
	}

	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$set": set, "$setOnInsert": bson.M{"created_at": doc.CreatedAt}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("sponsors.upsert: %w", err)
	}
	return nil
}

// DecrementCapacity takes one unit of capacity only while some remains.
func (r *SponsorRepoMongo) DecrementCapacity(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "capacity": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"capacity": -1}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("sponsors.decrementCapacity: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// Distinguish a missing sponsor from an exhausted one.
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return core.ErrSponsorAtCapacity
}
