package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

// AssessmentRepo is append-only: assessments are never updated.
type AssessmentRepo struct {
	client *dynamodb.Client
}

func NewAssessmentRepo(client *dynamodb.Client) *AssessmentRepo {
	return &AssessmentRepo{client: client}
}

func (r *AssessmentRepo) Create(ctx context.Context, a core.RiskAssessment) error {
	err := putConditional(ctx, r.client, TableAssessments, assessmentItemFromCore(a),
		expression.AttributeNotExists(expression.Name("id")))
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("%w: assessment %s already exists", core.ErrConflict, a.ID)
		}
		return fmt.Errorf("assessments.putItem: %w", err)
	}
	return nil
}

func (r *AssessmentRepo) Get(ctx context.Context, id string) (core.RiskAssessment, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableAssessments),
		Key:       idKey(id),
	})
	if err != nil {
		return core.RiskAssessment{}, fmt.Errorf("assessments.getItem: %w", err)
	}
	if out.Item == nil {
		return core.RiskAssessment{}, core.ErrAssessmentNotFound
	}

	var item AssessmentItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.RiskAssessment{}, fmt.Errorf("assessments.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

func (r *AssessmentRepo) GetLatestByApplicationID(ctx context.Context, appID string) (core.RiskAssessment, error) {
	keyCond := expression.Key("application_id").Equal(expression.Value(appID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return core.RiskAssessment{}, fmt.Errorf("assessments.buildExpr: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(TableAssessments),
		IndexName:                 aws.String(GSIAssessmentsAppID),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return core.RiskAssessment{}, fmt.Errorf("assessments.query: %w", err)
	}
	if len(out.Items) == 0 {
		return core.RiskAssessment{}, core.ErrAssessmentNotFound
	}

	var item AssessmentItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return core.RiskAssessment{}, fmt.Errorf("assessments.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}
