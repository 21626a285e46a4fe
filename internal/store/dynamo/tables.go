package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Table names
const (
	TableApplications = "eduloan_applications"
	TableAssessments  = "eduloan_risk_assessments"
	TableOffers       = "eduloan_loan_offers"
	TableSponsors     = "eduloan_sponsors"
)

// GSI names
const (
	GSIApplicationsStatus = "status-created_at-index"
	GSIAssessmentsAppID   = "application_id-created_at-index"
	GSIOffersAppID        = "application_id-created_at-index"
	GSIOffersStatus       = "status-offer_valid_until-index"
)

// EnsureTables creates all required tables if they don't exist.
func EnsureTables(ctx context.Context, client *dynamodb.Client, log *slog.Logger) error {
	tables := []*dynamodb.CreateTableInput{
		tableWithIndexes(TableApplications, "status", "created_at", GSIApplicationsStatus),
		tableWithIndexes(TableAssessments, "application_id", "created_at", GSIAssessmentsAppID),
		offersTable(),
		tableWithIndexes(TableSponsors, "", "", ""),
	}

	for _, in := range tables {
		name := aws.ToString(in.TableName)
		exists, err := tableExists(ctx, client, name)
		if err != nil {
			return fmt.Errorf("check table %s: %w", name, err)
		}
		if exists {
			log.Info("table exists", "table", name)
			continue
		}

		log.Info("creating table", "table", name)
		if _, err := client.CreateTable(ctx, in); err != nil {
			return fmt.Errorf("create table %s: %w", name, err)
		}
		log.Info("table created", "table", name)
	}

	return nil
}

func tableExists(ctx context.Context, client *dynamodb.Client, name string) (bool, error) {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// tableWithIndexes builds a table keyed by "id" with at most one GSI on
// (hashKey, rangeKey). An empty hashKey means no GSI.
func tableWithIndexes(name, hashKey, rangeKey, index string) *dynamodb.CreateTableInput {
	in := &dynamodb.CreateTableInput{
		TableName: aws.String(name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	}
	if hashKey == "" {
		return in
	}

	in.AttributeDefinitions = append(in.AttributeDefinitions,
		types.AttributeDefinition{AttributeName: aws.String(hashKey), AttributeType: types.ScalarAttributeTypeS},
		types.AttributeDefinition{AttributeName: aws.String(rangeKey), AttributeType: types.ScalarAttributeTypeS},
	)
	in.GlobalSecondaryIndexes = append(in.GlobalSecondaryIndexes, gsi(index, hashKey, rangeKey))
	return in
}

func offersTable() *dynamodb.CreateTableInput {
	in := tableWithIndexes(TableOffers, "application_id", "created_at", GSIOffersAppID)
	in.AttributeDefinitions = append(in.AttributeDefinitions,
		types.AttributeDefinition{AttributeName: aws.String("status"), AttributeType: types.ScalarAttributeTypeS},
		types.AttributeDefinition{AttributeName: aws.String("offer_valid_until"), AttributeType: types.ScalarAttributeTypeS},
	)
	in.GlobalSecondaryIndexes = append(in.GlobalSecondaryIndexes, gsi(GSIOffersStatus, "status", "offer_valid_until"))
	return in
}

func gsi(name, hashKey, rangeKey string) types.GlobalSecondaryIndex {
	return types.GlobalSecondaryIndex{
		IndexName: aws.String(name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(rangeKey), KeyType: types.KeyTypeRange},
		},
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}
