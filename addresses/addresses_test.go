package addresses

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"attira/globals"
	"attira/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() addressInput {
	return addressInput{
		Name:         "Asha Rao",
		AddressLine1: "14 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
		Phone:        "9876543210",
	}
}

func TestValidateAddressInputAccepts(t *testing.T) {
	assert.NoError(t, validateAddressInput(validInput()))
}

func TestValidateAddressInputRequiredFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*addressInput)
	}{
		{"name", func(in *addressInput) { in.Name = "" }},
		{"address line 1", func(in *addressInput) { in.AddressLine1 = "" }},
		{"city", func(in *addressInput) { in.City = "" }},
		{"state", func(in *addressInput) { in.State = "" }},
		{"pincode", func(in *addressInput) { in.Pincode = "" }},
		{"phone", func(in *addressInput) { in.Phone = "" }},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		err := validateAddressInput(in)
		assert.Error(t, err, tc.field)
	}
}

func TestValidateAddressInputLine2Optional(t *testing.T) {
	in := validInput()
	in.AddressLine2 = ""
	assert.NoError(t, validateAddressInput(in))
}

func TestCapacityMessageNamesTheLimit(t *testing.T) {
	assert.True(t, strings.Contains(capacityMessage, "5"))
	assert.True(t, strings.Contains(capacityMessage, "delete an existing address"))
}

func stubAddressStore(t *testing.T) {
	t.Helper()
	origCount := countUserAddresses
	origInsert := insertAddress
	t.Cleanup(func() {
		countUserAddresses = origCount
		insertAddress = origInsert
	})
}

func addAddressRequest(t *testing.T, userID string) *http.Request {
	t.Helper()
	payload, err := json.Marshal(validInput())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/users/addresses", bytes.NewReader(payload))
	return req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, userID))
}

func TestAddAddressRejectsSixthEntry(t *testing.T) {
	stubAddressStore(t)

	countUserAddresses = func(ctx context.Context, userID string) (int64, error) { return 5, nil }
	insertAddress = func(ctx context.Context, address models.Address) error {
		t.Fatal("a full address book must not accept another entry")
		return nil
	}

	rec := httptest.NewRecorder()
	AddAddress(rec, addAddressRequest(t, "u1"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, capacityMessage, body["message"])
}

func TestAddAddressUnderCapInserts(t *testing.T) {
	stubAddressStore(t)

	countUserAddresses = func(ctx context.Context, userID string) (int64, error) { return 4, nil }
	var saved *models.Address
	insertAddress = func(ctx context.Context, address models.Address) error {
		saved = &address
		return nil
	}

	rec := httptest.NewRecorder()
	AddAddress(rec, addAddressRequest(t, "u1"), nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, saved)
	assert.Equal(t, "u1", saved.UserID)
	assert.True(t, strings.HasPrefix(saved.AddressID, "adr"))
	assert.Equal(t, "Asha Rao", saved.Name)
}
