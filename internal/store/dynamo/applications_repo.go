package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

type ApplicationRepo struct {
	client *dynamodb.Client
}

func NewApplicationRepo(client *dynamodb.Client) *ApplicationRepo {
	return &ApplicationRepo{client: client}
}

func (r *ApplicationRepo) Create(ctx context.Context, app core.LoanApplication) error {
	err := putConditional(ctx, r.client, TableApplications, applicationItemFromCore(app),
		expression.AttributeNotExists(expression.Name("id")))
	if err != nil {
		if isConditionFailed(err) {
			return core.ErrApplicationExists
		}
		return fmt.Errorf("applications.putItem: %w", err)
	}
	return nil
}

func (r *ApplicationRepo) Get(ctx context.Context, id string) (core.LoanApplication, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableApplications),
		Key:       idKey(id),
	})
	if err != nil {
		return core.LoanApplication{}, fmt.Errorf("applications.getItem: %w", err)
	}
	if out.Item == nil {
		return core.LoanApplication{}, core.ErrApplicationNotFound
	}

	var item ApplicationItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.LoanApplication{}, fmt.Errorf("applications.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

func (r *ApplicationRepo) Update(ctx context.Context, app core.LoanApplication) error {
	err := putConditional(ctx, r.client, TableApplications, applicationItemFromCore(app),
		expression.AttributeExists(expression.Name("id")))
	if err != nil {
		if isConditionFailed(err) {
			return core.ErrApplicationNotFound
		}
		return fmt.Errorf("applications.putItem: %w", err)
	}
	return nil
}

// UpdateStatus is a compare-and-set on status so two underwriting runs
// cannot both claim the same application.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, from, to core.ApplicationStatus, updatedAt time.Time) error {
	update := expression.Set(
		expression.Name("status"), expression.Value(string(to)),
	).Set(
		expression.Name("updated_at"), expression.Value(formatTime(updatedAt)),
	)
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(statusCondition(from)).Build()
	if err != nil {
		return fmt.Errorf("applications.buildExpr: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(TableApplications),
		Key:                       idKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err == nil {
		return nil
	}
	if !isConditionFailed(err) {
		return fmt.Errorf("applications.updateItem: %w", err)
	}

	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return core.ErrStatusChanged
}

func statusCondition(from core.ApplicationStatus) expression.ConditionBuilder {
	return expression.AttributeExists(expression.Name("id")).
		And(expression.Name("status").Equal(expression.Value(string(from))))
}

// FindByStatus returns the oldest applications in the given status first.
func (r *ApplicationRepo) FindByStatus(ctx context.Context, status core.ApplicationStatus, limit int) ([]core.LoanApplication, error) {
	keyCond := expression.Key("status").Equal(expression.Value(string(status)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("applications.buildExpr: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(TableApplications),
		IndexName:                 aws.String(GSIApplicationsStatus),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
		Limit:                     aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("applications.query: %w", err)
	}

	var items []ApplicationItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("applications.unmarshal: %w", err)
	}

	apps := make([]core.LoanApplication, len(items))
	for i, item := range items {
		apps[i] = item.ToCore()
	}
	return apps, nil
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// putConditional writes item only when cond holds.
func putConditional(ctx context.Context, client *dynamodb.Client, table string, item any, cond expression.ConditionBuilder) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("buildExpr: %w", err)
	}

	_, err = client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(table),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	return err
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
