// Package mongodb persists record-store collections as one MongoDB document each.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const documentsCollectionName = "record_collections"

type collectionDocument struct {
	Name      string    `bson:"_id"`
	Data      string    `bson:"data"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Backend implements store.Backend on a MongoDB database.
type Backend struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *logger.Logger
}

// Connect dials MongoDB, pings it and returns a backend that owns the client.
func Connect(ctx context.Context, uri, database string, log *logger.Logger) (*Backend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	b := New(client.Database(database), log)
	b.client = client
	b.logger.Info("Successfully connected and pinged MongoDB.", zap.String("database", database))
	return b, nil
}

// New wraps an existing database handle. Close does not disconnect a client it does not own.
func New(db *mongo.Database, log *logger.Logger) *Backend {
	return &Backend{
		collection: db.Collection(documentsCollectionName),
		logger:     log.Named("MongoBackend"),
	}
}

func (b *Backend) Load(ctx context.Context, c store.Collection) (store.Snapshot, error) {
	var doc collectionDocument
	err := b.collection.FindOne(ctx, bson.M{"_id": string(c)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Snapshot{}, store.ErrCollectionNotFound
	}
	if err != nil {
		b.logger.Error("Failed to load collection document", zap.String("collection", string(c)), zap.Error(err))
		return store.Snapshot{}, fmt.Errorf("db findone failed: %w", err)
	}
	return store.Snapshot{Data: []byte(doc.Data), Version: doc.Version}, nil
}

func (b *Backend) Save(ctx context.Context, c store.Collection, data []byte, expectedVersion int64) (int64, error) {
	now := time.Now().UTC()
	switch expectedVersion {
	case store.AnyVersion:
		opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
		update := bson.M{
			"$set": bson.M{"data": string(data), "updated_at": now},
			"$inc": bson.M{"version": 1},
		}
		var doc collectionDocument
		if err := b.collection.FindOneAndUpdate(ctx, bson.M{"_id": string(c)}, update, opts).Decode(&doc); err != nil {
			return 0, fmt.Errorf("db upsert failed: %w", err)
		}
		return doc.Version, nil

	case 0:
		_, err := b.collection.InsertOne(ctx, collectionDocument{Name: string(c), Data: string(data), Version: 1, UpdatedAt: now})
		if mongo.IsDuplicateKeyError(err) {
			return 0, store.ErrVersionConflict
		}
		if err != nil {
			return 0, fmt.Errorf("db insert failed: %w", err)
		}
		return 1, nil

	default:
		next := expectedVersion + 1
		res, err := b.collection.UpdateOne(ctx,
			bson.M{"_id": string(c), "version": expectedVersion},
			bson.M{"$set": bson.M{"data": string(data), "version": next, "updated_at": now}},
		)
		if err != nil {
			return 0, fmt.Errorf("db update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			b.logger.Warn("Optimistic lock conflict on collection", zap.String("collection", string(c)), zap.Int64("expected_version", expectedVersion))
			return 0, store.ErrVersionConflict
		}
		return next, nil
	}
}

func (b *Backend) Close(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	b.logger.Info("Disconnecting from MongoDB...")
	return b.client.Disconnect(ctx)
}
