package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIDLengthAndAlphabet(t *testing.T) {
	id := GenerateID(14)
	assert.Len(t, id, 14)
	for _, r := range id {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
		assert.True(t, ok, string(r))
	}
}

func TestGenerateDigitCode(t *testing.T) {
	code := GenerateDigitCode(6)
	require.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestGetUUID(t *testing.T) {
	a, b := GetUUID(), GetUUID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestContains(t *testing.T) {
	xs := []string{"a", "b"}
	assert.True(t, Contains(xs, "a"))
	assert.False(t, Contains(xs, "c"))
	assert.False(t, Contains(nil, "a"))
}

func TestRespondSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSuccess(rec, 200, M{"hello": "world"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "world", body["data"].(map[string]interface{})["hello"])
}

func TestRespondErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, 404, "Order not found")

	assert.Equal(t, 404, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Order not found", body["message"])
}

func TestRespondErrorWithExtraFields(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWith(rec, 400, "Price mismatch", M{"clientTotal": 100, "serverTotal": 200})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(100), body["clientTotal"])
	assert.Equal(t, float64(200), body["serverTotal"])
}

func TestParseQueryOptionsDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/products", nil)
	opts := ParseQueryOptions(req)

	assert.Equal(t, 1, opts.Page)
	assert.Greater(t, opts.Limit, 0)
}

func TestParseQueryOptionsReadsParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/products?page=3&limit=5&category=Shoes&search=run", nil)
	opts := ParseQueryOptions(req)

	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 5, opts.Limit)
	assert.Equal(t, "Shoes", opts.Category)
	assert.Equal(t, "run", opts.Search)
}

func TestParseQueryOptionsClampsBadInput(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/products?page=-2&limit=0", nil)
	opts := ParseQueryOptions(req)

	assert.GreaterOrEqual(t, opts.Page, 1)
	assert.Greater(t, opts.Limit, 0)
}
