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

type ApplicationRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewApplicationRepo(db *mongodrv.Database, opTimeout time.Duration) *ApplicationRepoMongo {
	return &ApplicationRepoMongo{
		coll:      db.Collection(ColApplications),
		opTimeout: opTimeout,
	}
}

func (repo *ApplicationRepoMongo) Create(ctx context.Context, app core.LoanApplication) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toApplicationDoc(app))
	if err != nil {
		if mongodrv.IsDuplicateKeyError(err) {
			return core.ErrApplicationExists
		}
		return fmt.Errorf("applications.insert: %w", err)
	}
	return nil
}

func (repo *ApplicationRepoMongo) Get(ctx context.Context, id string) (core.LoanApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	return findOne(ctx, repo.coll, "applications.findOne", bson.M{"_id": id}, fromApplicationDoc, core.ErrApplicationNotFound)
}

func (repo *ApplicationRepoMongo) Update(ctx context.Context, app core.LoanApplication) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	result, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": app.ID}, toApplicationDoc(app))
	if err != nil {
		return fmt.Errorf("applications.replace: %w", err)
	}
	if result.MatchedCount == 0 {
		return core.ErrApplicationNotFound
	}
	return nil
}

// UpdateStatus is a compare-and-set on status so two underwriting runs
// cannot both claim the same application.
func (repo *ApplicationRepoMongo) UpdateStatus(ctx context.Context, id string, from, to core.ApplicationStatus, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":     string(to),
			"updated_at": updatedAt,
		},
	}

	result, err := repo.coll.UpdateOne(ctx, statusFilter(id, from), update)
	if err != nil {
		return fmt.Errorf("applications.updateStatus: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	if _, err := repo.Get(ctx, id); err != nil {
		return err
	}
	return core.ErrStatusChanged
}

func statusFilter(id string, status core.ApplicationStatus) bson.M {
	return bson.M{"_id": id, "status": string(status)}
}

// FindByStatus returns the oldest applications in the given status first.
func (repo *ApplicationRepoMongo) FindByStatus(ctx context.Context, status core.ApplicationStatus, limit int) ([]core.LoanApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	opts := options.Find().SetLimit(int64(limit)).SetSort(bsonAsc("created_at"))
	return findAll(ctx, repo.coll, "applications", bson.M{"status": string(status)}, fromApplicationDoc, opts)
}
