package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

// AssessmentRepoMongo is append-only: assessments are never updated.
type AssessmentRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewAssessmentRepo(db *mongodrv.Database, opTimeout time.Duration) *AssessmentRepoMongo {
	return &AssessmentRepoMongo{
		coll:      db.Collection(ColAssessments),
		opTimeout: opTimeout,
	}
}

func (repo *AssessmentRepoMongo) Create(ctx context.Context, a core.RiskAssessment) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toAssessmentDoc(a))
	if err != nil {
		if mongodrv.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: assessment %s already exists", core.ErrConflict, a.ID)
		}
		return fmt.Errorf("assessments.insert: %w", err)
	}
	return nil
}

func (repo *AssessmentRepoMongo) Get(ctx context.Context, id string) (core.RiskAssessment, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	return findOne(ctx, repo.coll, "assessments.findOne", bson.M{"_id": id}, fromAssessmentDoc, core.ErrAssessmentNotFound)
}

func (repo *AssessmentRepoMongo) GetLatestByApplicationID(ctx context.Context, appID string) (core.RiskAssessment, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	return findOne(ctx, repo.coll, "assessments.findLatest", bson.M{"application_id": appID}, fromAssessmentDoc, core.ErrAssessmentNotFound, newest())
}
