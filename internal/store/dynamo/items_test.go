package dynamo

import (
	"sort"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

func TestFormatTimeSortsLexicographically(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	times := []time.Time{
		base.Add(time.Second),
		base,
		base.Add(1500 * time.Millisecond),
		base.In(time.FixedZone("BST", 3600)).Add(-time.Nanosecond),
	}

	var formatted []string
	for _, tm := range times {
		s := formatTime(tm)
		assert.Len(t, s, len("2025-03-10T09:00:00.000000000Z"))
		formatted = append(formatted, s)
	}
	sort.Strings(formatted)

	assert.Equal(t, []string{
		"2025-03-10T08:59:59.999999999Z",
		"2025-03-10T09:00:00.000000000Z",
		"2025-03-10T09:00:01.000000000Z",
		"2025-03-10T09:00:01.500000000Z",
	}, formatted)
}

func TestParseTimeRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 15, 123456789, time.UTC)
	assert.True(t, now.Equal(parseTime(formatTime(now))))
	assert.Nil(t, parseTimePtr(""))
	assert.Equal(t, "", formatTimePtr(nil))
}

func TestOfferItemOmitsAbsentTerms(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	offer := core.LoanOffer{
		ID:                  "of-1",
		ApplicationID:       "app-1",
		AssessmentID:        "as-1",
		OfferType:           core.OfferTypeISA,
		LoanAmount:          5000,
		ISAPercentage:       aws.Float64(12),
		RepaymentTermMonths: 60,
		RepaymentSchedule:   core.RepaymentSchedule{PaymentCap: aws.Float64(7500), FirstPaymentDate: "2025-09-10"},
		Status:              core.OfferStatusPending,
		CreatedAt:           now,
		OfferValidUntil:     now.Add(core.OfferValidity),
	}

	av, err := attributevalue.MarshalMap(offerItemFromCore(offer))
	require.NoError(t, err)
	assert.NotContains(t, av, "apr_rate")
	assert.NotContains(t, av, "accepted_at")
	assert.Contains(t, av, "isa_percentage")
	assert.Contains(t, av, "offer_valid_until")

	var item OfferItem
	require.NoError(t, attributevalue.UnmarshalMap(av, &item))
	got := item.ToCore()
	assert.Nil(t, got.APRRate)
	assert.Nil(t, got.AcceptedAt)
	assert.Equal(t, 12.0, *got.ISAPercentage)
	assert.True(t, offer.OfferValidUntil.Equal(got.OfferValidUntil))
}

func TestOffersTableHasBothIndexes(t *testing.T) {
	in := offersTable()
	require.Len(t, in.GlobalSecondaryIndexes, 2)
	assert.Equal(t, GSIOffersAppID, aws.ToString(in.GlobalSecondaryIndexes[0].IndexName))
	assert.Equal(t, GSIOffersStatus, aws.ToString(in.GlobalSecondaryIndexes[1].IndexName))
	// id, application_id, created_at, status, offer_valid_until
	assert.Len(t, in.AttributeDefinitions, 5)

	plain := tableWithIndexes(TableSponsors, "", "", "")
	assert.Empty(t, plain.GlobalSecondaryIndexes)
	assert.Len(t, plain.AttributeDefinitions, 1)
}

func TestStatusConditionGuardsCurrentStatus(t *testing.T) {
	expr, err := expression.NewBuilder().WithCondition(statusCondition(core.ApplicationStatusSubmitted)).Build()
	require.NoError(t, err)

	assert.Contains(t, *expr.Condition(), "attribute_exists")
	assert.ElementsMatch(t, []string{"id", "status"}, valuesOf(expr.Names()))

	var from string
	for _, v := range expr.Values() {
		require.NoError(t, attributevalue.Unmarshal(v, &from))
	}
	assert.Equal(t, "submitted", from)
}

func valuesOf(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
