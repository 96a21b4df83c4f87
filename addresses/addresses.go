package addresses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"attira/db"
	"attira/models"
	"attira/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// maxAddresses caps the address book per user.
const maxAddresses = 5

const capacityMessage = "Maximum address limit (5) reached. Please delete an existing address to add a new one."

// Collection operations behind function values so the cap gate is testable.
var (
	countUserAddresses = func(ctx context.Context, userID string) (int64, error) {
		return db.AddressCollection.CountDocuments(ctx, bson.M{"userId": userID})
	}
	insertAddress = func(ctx context.Context, address models.Address) error {
		_, err := db.AddressCollection.InsertOne(ctx, address)
		return err
	}
)

type addressInput struct {
	Name              string `json:"name"`
	AddressLine1      string `json:"addressLine1"`
	AddressLine2      string `json:"addressLine2"`
	City              string `json:"city"`
	State             string `json:"state"`
	Pincode           string `json:"pincode"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	IsDefaultShipping bool   `json:"isDefaultShipping"`
	IsDefaultBilling  bool   `json:"isDefaultBilling"`
}

func validateAddressInput(in addressInput) error {
	switch {
	case in.Name == "":
		return fmt.Errorf("recipient name is required")
	case in.AddressLine1 == "":
		return fmt.Errorf("address line 1 is required")
	case in.City == "":
		return fmt.Errorf("city is required")
	case in.State == "":
		return fmt.Errorf("state is required")
	case in.Pincode == "":
		return fmt.Errorf("pincode is required")
	case in.Phone == "":
		return fmt.Errorf("phone number is required")
	}
	return nil
}

// GetAddresses lists the user's saved addresses.
func GetAddresses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	cursor, err := db.AddressCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Could not retrieve addresses")
		return
	}
	defer cursor.Close(ctx)

	var list []models.Address
	if err := cursor.All(ctx, &list); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Could not read addresses")
		return
	}
	if list == nil {
		list = []models.Address{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"count":   len(list),
		"data":    list,
	})
}

// AddAddress saves a new entry, enforcing the per-user cap.
func AddAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var input addressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validateAddressInput(input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := countUserAddresses(ctx, userID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count >= maxAddresses {
		utils.RespondError(w, http.StatusBadRequest, capacityMessage)
		return
	}

	now := time.Now()
	address := models.Address{
		AddressID:         "adr" + utils.GenerateID(12),
		UserID:            userID,
		Name:              input.Name,
		AddressLine1:      input.AddressLine1,
		AddressLine2:      input.AddressLine2,
		City:              input.City,
		State:             input.State,
		Pincode:           input.Pincode,
		Phone:             input.Phone,
		Email:             input.Email,
		IsDefaultShipping: input.IsDefaultShipping,
		IsDefaultBilling:  input.IsDefaultBilling,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := insertAddress(ctx, address); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to save address")
		return
	}

	utils.RespondSuccess(w, http.StatusCreated, address)
}

// UpdateAddress modifies an entry owned by the requesting user. A wrong
// owner gets the same 404 as a missing record.
func UpdateAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	addressID := ps.ByName("id")

	var input addressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validateAddressInput(input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// ownership is part of the filter so a foreign address looks missing
	filter := bson.M{"addressid": addressID, "userId": userID}
	update := bson.M{"$set": bson.M{
		"name":                input.Name,
		"address_line1":       input.AddressLine1,
		"address_line2":       input.AddressLine2,
		"city":                input.City,
		"state":               input.State,
		"pincode":             input.Pincode,
		"phone":               input.Phone,
		"email":               input.Email,
		"is_default_shipping": input.IsDefaultShipping,
		"is_default_billing":  input.IsDefaultBilling,
		"updated_at":          time.Now(),
	}}

	res, err := db.AddressCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update address")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Address not found")
		return
	}

	var address models.Address
	if err := db.AddressCollection.FindOne(ctx, filter).Decode(&address); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load address")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, address)
}

// DeleteAddress removes an entry owned by the requesting user, with the
// same not-found disguise as UpdateAddress.
func DeleteAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	addressID := ps.ByName("id")

	res, err := db.AddressCollection.DeleteOne(ctx, bson.M{"addressid": addressID, "userId": userID})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete address")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Address not found")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{})
}
