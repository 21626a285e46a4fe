package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

func TestSortHelpers(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}, bsonAsc("created_at", "_id"))
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, bsonDesc("created_at"))
	assert.Equal(t, bsonDesc("created_at"), newest().Sort)
}

func TestStatusFilterMatchesExpectedStatus(t *testing.T) {
	assert.Equal(t, bson.M{"_id": "app-1", "status": "submitted"}, statusFilter("app-1", core.ApplicationStatusSubmitted))
}
