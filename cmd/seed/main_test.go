package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeepLiveStateDoesNotRefillCapacity(t *testing.T) {
	seed := seedSponsors()[0]
	require.Greater(t, seed.Capacity, 1)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := seed
	existing.Name = "Old name"
	existing.Capacity = 1
	existing.CreatedAt = created

	got := keepLiveState(seed, existing)
	assert.Equal(t, 1, got.Capacity)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, seed.Name, got.Name)
}

func TestSeedSponsorsHaveStableIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, sp := range seedSponsors() {
		assert.NotEmpty(t, sp.ID)
		assert.False(t, seen[sp.ID], sp.ID)
		seen[sp.ID] = true
	}
}
