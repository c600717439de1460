package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client

// ConnectMongo initializes the MongoDB connection
func ConnectMongo(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database
	err = client.Ping(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	Client = client
	log.Println("Connected to MongoDB!")
	return nil
}

// GetCollection returns a handle to a MongoDB collection
func GetCollection(databaseName, collectionName string) *mongo.Collection {
	if Client == nil {
		log.Fatal("MongoDB client is not initialized")
	}
	return Client.Database(databaseName).Collection(collectionName)
}

// EnsureIndexes creates the indexes the app depends on. Safe to call on
// every startup; CreateMany is idempotent for identical definitions.
func EnsureIndexes(dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"wishlists": {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}}, Options: unique},
		},
		"bookmarks": {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "articleId", Value: 1}}, Options: unique},
		},
		"uploadedlooks": {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "imageKey", Value: 1}}, Options: unique},
		},
		"userbodyinfos": {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: unique},
		},
		"wardrobes": {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: unique},
		},
		"events": {
			// Mongo's TTL monitor removes the event once expiresAt passes.
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "startDate", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := GetCollection(dbName, coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}

	log.Println("MongoDB indexes ensured")
	return nil
}
