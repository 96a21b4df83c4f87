package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the store depends on: identity lookups,
// the one-cart-per-user constraint, unique gateway order ids on payment
// records, and the OTP expiry.
func EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{UserCollection, []mongo.IndexModel{
			{Keys: bson.M{"userid": 1}, Options: options.Index().SetUnique(true)},
			{Keys: bson.M{"email": 1}, Options: options.Index().SetUnique(true)},
		}},
		{AdminCollection, []mongo.IndexModel{
			{Keys: bson.M{"email": 1}, Options: options.Index().SetUnique(true)},
		}},
		{OTPCollection, []mongo.IndexModel{
			{Keys: bson.M{"email": 1, "code": 1}},
			// OTPs are valid for 10 minutes
			{Keys: bson.M{"created_at": 1}, Options: options.Index().SetExpireAfterSeconds(600)},
		}},
		{ProductCollection, []mongo.IndexModel{
			{Keys: bson.M{"productid": 1}, Options: options.Index().SetUnique(true)},
			{Keys: bson.M{"category": 1}},
		}},
		{CartCollection, []mongo.IndexModel{
			{Keys: bson.M{"userId": 1}, Options: options.Index().SetUnique(true)},
		}},
		{AddressCollection, []mongo.IndexModel{
			{Keys: bson.M{"addressid": 1}, Options: options.Index().SetUnique(true)},
			{Keys: bson.M{"userId": 1}},
		}},
		{OrderCollection, []mongo.IndexModel{
			{Keys: bson.M{"orderid": 1}, Options: options.Index().SetUnique(true)},
			{Keys: bson.M{"userId": 1, "created_at": -1}},
		}},
		{PaymentCollection, []mongo.IndexModel{
			{Keys: bson.M{"rzp_order_id": 1}, Options: options.Index().SetUnique(true)},
			{Keys: bson.M{"rzp_payment_id": 1}, Options: options.Index().SetUnique(true).SetSparse(true)},
		}},
	}

	for _, s := range specs {
		if _, err := s.coll.Indexes().CreateMany(ctx, s.models); err != nil {
			return err
		}
	}
	return nil
}
