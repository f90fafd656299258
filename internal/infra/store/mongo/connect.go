package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collectionName = "analysis_reports"
	connectTimeout = 5 * time.Second
)

// Connect dials the server with bounded timeouts and verifies it with a ping.
// Failure is reported once here; callers construct a disconnected backend
// instead of propagating the error.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	ctx2, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(ctx2, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// ensureIndexes provisions the compound filter+sort index and the unique id
// index. Index failures are logged, not fatal.
func ensureIndexes(ctx context.Context, coll *mongo.Collection) {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "symbol", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		log.Printf("mongo store: create indexes: %v", err)
	}
}
