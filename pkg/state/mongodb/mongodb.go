package mongodb

import (
	"context"
	"errors"

	intMongo "github.com/retail-ai-inc/storagebridge/internal/db/mongodb"
	"github.com/retail-ai-inc/storagebridge/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultDatabase   = "storagebridge"
	DefaultCollection = "documents"
)

type document struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// MongoDBStore keeps each key as one document whose _id is the key.
type MongoDBStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoDBStore(client *mongo.Client, database, collection string) *MongoDBStore {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &MongoDBStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func Open(ctx context.Context, cfg config.StorageConfig) (*MongoDBStore, error) {
	client, err := intMongo.GetMongoClient(ctx, cfg.Connection)
	if err != nil {
		return nil, err
	}
	return NewMongoDBStore(client, cfg.Database, cfg.Collection), nil
}

func (s *MongoDBStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

func (s *MongoDBStore) Set(ctx context.Context, key, value string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoDBStore) Close() error {
	return s.client.Disconnect(context.Background())
}
