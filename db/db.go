package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	UserCollection    *mongo.Collection
	AdminCollection   *mongo.Collection
	OTPCollection     *mongo.Collection
	ProductCollection *mongo.Collection
	CartCollection    *mongo.Collection
	AddressCollection *mongo.Collection
	OrderCollection   *mongo.Collection
	PaymentCollection *mongo.Collection
	Client            *mongo.Client
)

// Init connects to MongoDB and wires up the collection handles.
func Init(ctx context.Context, uri, database string) error {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return err
	}

	Client = client
	d := client.Database(database)
	UserCollection = d.Collection("users")
	AdminCollection = d.Collection("admins")
	OTPCollection = d.Collection("otps")
	ProductCollection = d.Collection("products")
	CartCollection = d.Collection("carts")
	AddressCollection = d.Collection("addresses")
	OrderCollection = d.Collection("orders")
	PaymentCollection = d.Collection("payments")
	return nil
}

// Close disconnects from MongoDB.
func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
