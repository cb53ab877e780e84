package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "radialtree"
	DefaultMongoCollection = "nodes"
	DefaultMongoTimeout    = 10 * time.Second
)

// MongoConfig holds connection settings for [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// MongoStore keeps one document per node in a MongoDB collection.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// mongoNode is the stored form of one node. Seq preserves document order.
type mongoNode struct {
	ID       string   `bson:"_id"`
	Seq      int      `bson:"seq"`
	Parents  []string `bson:"parents"`
	Children []string `bson:"children"`
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "mongo store requires a URI")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultMongoTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeStore, err, "ping mongo")
	}

	return &MongoStore{
		client:  client,
		coll:    client.Database(cfg.Database).Collection(cfg.Collection),
		timeout: cfg.Timeout,
	}, nil
}

// Load reads all nodes ordered by sequence number.
func (s *MongoStore) Load(ctx context.Context) (*hierarchy.Hierarchy, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "find nodes")
	}
	var docs []mongoNode
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "read nodes")
	}

	h := hierarchy.New()
	for _, d := range docs {
		if err := h.AddNode(hierarchy.Node{ID: d.ID, Parents: d.Parents, Children: d.Children}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "node %q", d.ID)
		}
	}
	return h, nil
}

// Save replaces the collection contents with h.
func (s *MongoStore) Save(ctx context.Context, h *hierarchy.Hierarchy) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	docs := make([]interface{}, 0, h.Len())
	for i, id := range h.IDs() {
		n, _ := h.Node(id)
		docs = append(docs, mongoNode{ID: id, Seq: i, Parents: n.Parents, Children: n.Children})
	}

	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "clear nodes")
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "insert nodes")
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
