package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

type SponsorRepo struct {
	client *dynamodb.Client
}

func NewSponsorRepo(client *dynamodb.Client) *SponsorRepo {
	return &SponsorRepo{client: client}
}

// ListActive scans for active sponsors. Scan order is undefined, so results
// are sorted by creation time to keep match tie-breaks stable.
func (r *SponsorRepo) ListActive(ctx context.Context) ([]core.Sponsor, error) {
	filter := expression.Name("active").Equal(expression.Value(true))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("sponsors.buildExpr: %w", err)
	}

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(TableSponsors),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	var items []SponsorItem
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("sponsors.scan: %w", err)
		}
		var pageItems []SponsorItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageItems); err != nil {
			return nil, fmt.Errorf("sponsors.unmarshal: %w", err)
		}
		items = append(items, pageItems...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt < items[j].CreatedAt
		}
		return items[i].ID < items[j].ID
	})

	sponsors := make([]core.Sponsor, len(items))
	for i, item := range items {
		sponsors[i] = item.ToCore()
	}
	return sponsors, nil
}

func (r *SponsorRepo) Get(ctx context.Context, id string) (core.Sponsor, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableSponsors),
		Key:       idKey(id),
	})
	if err != nil {
		return core.Sponsor{}, fmt.Errorf("sponsors.getItem: %w", err)
	}
	if out.Item == nil {
		return core.Sponsor{}, core.ErrSponsorNotFound
	}

	var item SponsorItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.Sponsor{}, fmt.Errorf("sponsors.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

// Upsert writes every field except created_at, which is only set on insert.
func (r *SponsorRepo) Upsert(ctx context.Context, s core.Sponsor) error {
	item := sponsorItemFromCore(s)
	update := expression.Set(expression.Name("name"), expression.Value(item.Name)).
		Set(expression.Name("expertise_areas"), expression.Value(item.ExpertiseAreas)).
		Set(expression.Name("countries"), expression.Value(item.Countries)).
		Set(expression.Name("career_focus"), expression.Value(item.CareerFocus)).
		Set(expression.Name("min_funding"), expression.Value(item.MinFunding)).
		Set(expression.Name("max_funding"), expression.Value(item.MaxFunding)).
		Set(expression.Name("capacity"), expression.Value(item.Capacity)).
		Set(expression.Name("active"), expression.Value(item.Active)).
		Set(expression.Name("updated_at"), expression.Value(item.UpdatedAt)).
		Set(expression.Name("created_at"), expression.IfNotExists(expression.Name("created_at"), expression.Value(item.CreatedAt)))

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("sponsors.buildExpr: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(TableSponsors),
		Key:                       idKey(item.ID),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return fmt.Errorf("sponsors.updateItem: %w", err)
	}
	return nil
}

// DecrementCapacity takes one unit of capacity only while some remains.
func (r *SponsorRepo) DecrementCapacity(ctx context.Context, id string) error {
	update := expression.Set(
		expression.Name("capacity"), expression.Name("capacity").Minus(expression.Value(1)),
	).Set(
		expression.Name("updated_at"), expression.Value(formatTime(time.Now())),
	)
	cond := expression.AttributeExists(expression.Name("id")).
		And(expression.Name("capacity").GreaterThan(expression.Value(0)))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("sponsors.buildExpr: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(TableSponsors),
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
		return fmt.Errorf("sponsors.updateItem: %w", err)
	}

	// Distinguish a missing sponsor from an exhausted one.
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return core.ErrSponsorAtCapacity
}
