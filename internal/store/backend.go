// Package store selects and opens the configured persistence backend.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrKriegler/go-eduloan/internal/core"
	"github.com/MrKriegler/go-eduloan/internal/platform/config"
	"github.com/MrKriegler/go-eduloan/internal/store/dynamo"
	"github.com/MrKriegler/go-eduloan/internal/store/mongo"
)

// Backend bundles the repositories of one storage engine.
type Backend struct {
	Apps        core.ApplicationRepo
	Assessments core.AssessmentRepo
	Offers      core.OfferRepo
	Sponsors    core.SponsorRepo

	pinger interface{ Ping(context.Context) error }
	closer func(context.Context) error
}

// Open connects to the backend named by cfg.DBType and makes sure its
// tables or indexes exist.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	switch cfg.DBType {
	case "mongo":
		log.Info("connecting to mongo", "db", cfg.MongoDB)
		mc, err := mongo.NewClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, mc.DB); err != nil {
			_ = mc.Close(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return &Backend{
			Apps:        mongo.NewApplicationRepo(mc.DB, mc.OpTimeout),
			Assessments: mongo.NewAssessmentRepo(mc.DB, mc.OpTimeout),
			Offers:      mongo.NewOfferRepo(mc.DB, mc.OpTimeout),
			Sponsors:    mongo.NewSponsorRepo(mc.DB, mc.OpTimeout),
			pinger:      mc,
			closer:      mc.Close,
		}, nil

	case "dynamodb":
		log.Info("connecting to dynamodb", "region", cfg.AWSRegion, "endpoint", cfg.DynamoDBEndpoint)
		dc, err := dynamo.NewClient(ctx, dynamo.Config{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoDBEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}, log)
		if err != nil {
			return nil, err
		}
		if err := dynamo.EnsureTables(ctx, dc.DB, log); err != nil {
			return nil, fmt.Errorf("ensure tables: %w", err)
		}
		return &Backend{
			Apps:        dynamo.NewApplicationRepo(dc.DB),
			Assessments: dynamo.NewAssessmentRepo(dc.DB),
			Offers:      dynamo.NewOfferRepo(dc.DB),
			Sponsors:    dynamo.NewSponsorRepo(dc.DB),
			pinger:      dc,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported DB_TYPE %q", core.ErrConfiguration, cfg.DBType)
	}
}

// Ping checks the backend is reachable (used by /readyz).
func (b *Backend) Ping(ctx context.Context) error {
	return b.pinger.Ping(ctx)
}

// Close releases the connection, when the backend holds one.
func (b *Backend) Close(ctx context.Context) error {
	if b.closer == nil {
		return nil
	}
	return b.closer(ctx)
}
