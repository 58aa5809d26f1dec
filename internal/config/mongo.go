package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChunksCollection is the single collection backing the vector index.
const ChunksCollection = "note_chunks"

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	if err := createIndexes(client, cfg.DBName); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

// EnsureVectorSearchIndex creates the Atlas vector search index used by
// the $vectorSearch retrieval path. Requires an Atlas deployment; local
// MongoDB rejects search index commands, so callers treat a failure as
// non-fatal (retrieval falls back to the in-process scan).
func EnsureVectorSearchIndex(cfg *Config, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := client.Database(cfg.DBName).Collection(ChunksCollection)
	_, err := collection.SearchIndexes().CreateOne(ctx,
		vectorSearchIndexModel(cfg.VectorIndexName, cfg.VectorDimensions))
	return err
}

func vectorSearchIndexModel(name string, dimensions int) mongo.SearchIndexModel {
	return mongo.SearchIndexModel{
		Definition: bson.D{{Key: "fields", Value: bson.A{
			bson.D{
				{Key: "type", Value: "vector"},
				{Key: "path", Value: "vector"},
				{Key: "numDimensions", Value: dimensions},
				{Key: "similarity", Value: "cosine"},
			},
		}}},
		Options: options.SearchIndexes().SetName(name).SetType("vectorSearch"),
	}
}

func createIndexes(client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	// chunk_id is the upsert key: re-ingesting a document must overwrite,
	// not duplicate. source backs the metadata-filtered fetch/delete paths.
	chunks := db.Collection(ChunksCollection)
	chunkIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "chunk_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "source", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "source", Value: 1}, {Key: "order", Value: 1}},
		},
	}
	_, err := chunks.Indexes().CreateMany(context.Background(), chunkIndexes)
	return err
}
