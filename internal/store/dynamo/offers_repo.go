package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

type OfferRepo struct {
	client *dynamodb.Client
}

func NewOfferRepo(client *dynamodb.Client) *OfferRepo {
	return &OfferRepo{client: client}
}

func (r *OfferRepo) Create(ctx context.Context, offer core.LoanOffer) error {
	err := putConditional(ctx, r.client, TableOffers, offerItemFromCore(offer),
		expression.AttributeNotExists(expression.Name("id")))
	if err != nil {
		if isConditionFailed(err) {
			return core.ErrOfferExists
		}
		return fmt.Errorf("offers.putItem: %w", err)
	}
	return nil
}

func (r *OfferRepo) Get(ctx context.Context, id string) (core.LoanOffer, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableOffers),
		Key:       idKey(id),
	})
	if err != nil {
		return core.LoanOffer{}, fmt.Errorf("offers.getItem: %w", err)
	}
	if out.Item == nil {
		return core.LoanOffer{}, core.ErrOfferNotFound
	}

	var item OfferItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.LoanOffer{}, fmt.Errorf("offers.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

// GetByApplicationID returns the most recent offer for the application.
func (r *OfferRepo) GetByApplicationID(ctx context.Context, appID string) (core.LoanOffer, error) {
	keyCond := expression.Key("application_id").Equal(expression.Value(appID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return core.LoanOffer{}, fmt.Errorf("offers.buildExpr: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(TableOffers),
		IndexName:                 aws.String(GSIOffersAppID),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return core.LoanOffer{}, fmt.Errorf("offers.query: %w", err)
	}
	if len(out.Items) == 0 {
		return core.LoanOffer{}, core.ErrOfferNotFound
	}

	var item OfferItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return core.LoanOffer{}, fmt.Errorf("offers.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

func (r *OfferRepo) Update(ctx context.Context, offer core.LoanOffer) error {
	err := putConditional(ctx, r.client, TableOffers, offerItemFromCore(offer),
		expression.AttributeExists(expression.Name("id")))
	if err != nil {
		if isConditionFailed(err) {
			return core.ErrOfferNotFound
		}
		return fmt.Errorf("offers.putItem: %w", err)
	}
	return nil
}

// ExpireOffers has no bulk update to lean on, so it pages through pending
// offers past their validity and flips each one while it is still pending.
func (r *OfferRepo) ExpireOffers(ctx context.Context, before time.Time) (int64, error) {
	keyCond := expression.Key("status").Equal(expression.Value(string(core.OfferStatusPending))).
		And(expression.Key("offer_valid_until").LessThan(expression.Value(formatTime(before))))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return 0, fmt.Errorf("offers.buildExpr: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(TableOffers),
		IndexName:                 aws.String(GSIOffersStatus),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	var count int64
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return count, fmt.Errorf("offers.query: %w", err)
		}

		var items []OfferItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return count, fmt.Errorf("offers.unmarshal: %w", err)
		}

		for _, item := range items {
			expired, err := r.expireOne(ctx, item.ID)
			if err != nil {
				return count, err
			}
			if expired {
				count++
			}
		}
	}

	return count, nil
}

func (r *OfferRepo) expireOne(ctx context.Context, id string) (bool, error) {
	update := expression.Set(expression.Name("status"), expression.Value(string(core.OfferStatusExpired)))
	cond := expression.Name("status").Equal(expression.Value(string(core.OfferStatusPending)))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return false, fmt.Errorf("offers.buildExpr: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(TableOffers),
		Key:                       idKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		// Accepted or declined since the query ran.
		if isConditionFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("offers.updateItem: %w", err)
	}
	return true, nil
}
