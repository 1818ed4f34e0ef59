package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const opTimeout = 5 * time.Second

// MongoStore maps store paths onto MongoDB: the tree segment is the
// collection name, the key segment the document _id.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB and pings it before returning. The
// connection is retried a few times so the service survives the store
// coming up after it.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	maxRetries := 5
	retryInterval := 5 * time.Second

	var client *mongo.Client
	var err error
	for i := 0; i < maxRetries; i++ {
		connectCtx, cancel := context.WithTimeout(ctx, opTimeout)
		client, err = mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
		if err == nil {
			err = client.Ping(connectCtx, readpref.Primary())
		}
		cancel()
		if err == nil {
			break
		}
		log.Printf("Failed to connect to store (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to store after %d attempts: %w", maxRetries, err)
	}

	log.Printf("Connected to store database: %s", dbName)
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Get(ctx context.Context, path string) (Document, error) {
	tree, key, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var raw bson.M
	err = s.db.Collection(tree).FindOne(ctx, bson.M{"_id": key}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return fromBSON(raw), nil
}

func (s *MongoStore) GetAll(ctx context.Context, tree string) (map[string]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := s.db.Collection(tree).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("get all %s: %w", tree, err)
	}
	defer cur.Close(ctx)

	docs := make(map[string]Document)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", tree, err)
		}
		key, _ := raw["_id"].(string)
		if key == "" {
			continue
		}
		docs[key] = fromBSON(raw)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", tree, err)
	}
	return docs, nil
}

func (s *MongoStore) Set(ctx context.Context, path string, doc Document) error {
	tree, key, err := splitPath(path)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err = s.db.Collection(tree).ReplaceOne(ctx,
		bson.M{"_id": key}, toBSON(key, doc), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (s *MongoStore) SetAll(ctx context.Context, tree string, docs map[string]Document) error {
	for key, doc := range docs {
		if err := s.Set(ctx, tree+"/"+key, doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, path string, doc Document) error {
	tree, key, err := splitPath(path)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err = s.db.Collection(tree).InsertOne(ctx, toBSON(key, doc))
	if mongo.IsDuplicateKeyError(err) {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, path string, fields Document) error {
	tree, key, err := splitPath(path)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.db.Collection(tree).UpdateOne(ctx,
		bson.M{"_id": key}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) UpdateIf(ctx context.Context, path string, guard Document, fields Document) error {
	tree, key, err := splitPath(path)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"_id": key}
	for k, v := range guard {
		filter[k] = v
	}

	// The guard rides in the filter, so claim and check are one
	// server-side operation. MatchedCount zero means either the guard
	// lost or the document is gone; a second lookup tells them apart.
	res, err := s.db.Collection(tree).UpdateOne(ctx, filter, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("conditional update %s: %w", path, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := s.db.Collection(tree).CountDocuments(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("conditional update %s: %w", path, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrGuardFailed
}

func (s *MongoStore) Remove(ctx context.Context, path string) error {
	tree, key, err := splitPath(path)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.db.Collection(tree).DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func toBSON(key string, doc Document) bson.M {
	out := bson.M{"_id": key}
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func fromBSON(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	return doc
}
