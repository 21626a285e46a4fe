package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findOne decodes the first document matching filter into D and converts it.
// A miss returns notFound; other failures are prefixed with op.
func findOne[D, T any](ctx context.Context, coll *mongodrv.Collection, op string, filter any, conv func(D) T, notFound error, opts ...*options.FindOneOptions) (T, error) {
	var zero T
	var doc D
	if err := coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return zero, notFound
		}
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return conv(doc), nil
}

// findAll drains a cursor over filter, converting each document.
func findAll[D, T any](ctx context.Context, coll *mongodrv.Collection, op string, filter any, conv func(D) T, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s.find: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []T
	for cur.Next(ctx) {
		var doc D
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s.decode: %w", op, err)
		}
		out = append(out, conv(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s.cursor: %w", op, err)
	}
	return out, nil
}

// newest sorts so the latest created document comes first.
func newest() *options.FindOneOptions {
	return options.FindOne().SetSort(bsonDesc("created_at"))
}

func bsonAsc(keys ...string) bson.D {
	d := make(bson.D, len(keys))
	for i, k := range keys {
		d[i] = bson.E{Key: k, Value: 1}
	}
	return d
}

func bsonDesc(key string) bson.D {
	return bson.D{{Key: key, Value: -1}}
}
