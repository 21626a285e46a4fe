package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

type OfferRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewOfferRepo(db *mongodrv.Database, opTimeout time.Duration) *OfferRepoMongo {
	return &OfferRepoMongo{
		coll:      db.Collection(ColOffers),
		opTimeout: opTimeout,
	}
}

func (repo *OfferRepoMongo) Create(ctx context.Context, offer core.LoanOffer) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toOfferDoc(offer))
	if err != nil {
		if mongodrv.IsDuplicateKeyError(err) {
			return core.ErrOfferExists
		}
		return fmt.Errorf("offers.insert: %w", err)
	}
	return nil
}

func (repo *OfferRepoMongo) Get(ctx context.Context, id string) (core.LoanOffer, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	return findOne(ctx, repo.coll, "offers.findOne", bson.M{"_id": id}, fromOfferDoc, core.ErrOfferNotFound)
}

// GetByApplicationID returns the most recent offer for the application.
func (repo *OfferRepoMongo) GetByApplicationID(ctx context.Context, appID string) (core.LoanOffer, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	return findOne(ctx, repo.coll, "offers.findByApp", bson.M{"application_id": appID}, fromOfferDoc, core.ErrOfferNotFound, newest())
}

func (repo *OfferRepoMongo) Update(ctx context.Context, offer core.LoanOffer) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	result, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": offer.ID}, toOfferDoc(offer))
	if err != nil {
		return fmt.Errorf("offers.replace: %w", err)
	}
	if result.MatchedCount == 0 {
		return core.ErrOfferNotFound
	}
	return nil
}

func (repo *OfferRepoMongo) ExpireOffers(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	filter := bson.M{
		"status":            string(core.OfferStatusPending),
		"offer_valid_until": bson.M{"$lt": before},
	}
	update := bson.M{
		"$set": bson.M{"status": string(core.OfferStatusExpired)},
	}

	result, err := repo.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("offers.expireMany: %w", err)
	}
	return result.ModifiedCount, nil
}
