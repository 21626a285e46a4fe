package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, http.StatusConflict, "Invalid State", "offer is not pending")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var p Problem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, TypeBase+"invalid-state", p.Type)
	assert.Equal(t, "Invalid State", p.Title)
	assert.Equal(t, http.StatusConflict, p.Status)
	assert.Equal(t, "offer is not pending", p.Detail)
}

func TestNewBlankTitle(t *testing.T) {
	p := New(http.StatusInternalServerError, "  ", "")
	assert.Equal(t, "about:blank", p.Type)
}
