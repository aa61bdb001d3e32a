package repositories

import (
	"context"
	"fmt"

	"github.com/tradevault/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryRepository defines append-only history operations for one entity
// collection (contracts, documents or KYC records).
type HistoryRepository interface {
	// Append adds an entry to the entity's history, creating the history
	// document on first use. Entries are never mutated or removed, and
	// concurrent appends to the same key must all survive.
	Append(ctx context.Context, entityKey string, entry models.LogEntry) error
	// Get returns the entity's history in append order. A missing history
	// is an empty slice, not an error.
	Get(ctx context.Context, entityKey string) ([]models.LogEntry, error)
	// FindByEntryField returns the histories of every entity that has at
	// least one entry whose field equals value, keyed by entity key.
	FindByEntryField(ctx context.Context, field string, value any) (map[string][]models.LogEntry, error)
}

// MongoHistoryRepository implements HistoryRepository on a MongoDB
// collection holding one EntityHistory document per entity key.
type MongoHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoHistoryRepository creates a HistoryRepository over the named
// collection ("contract_logs", "document_logs", "kyc_logs").
func NewMongoHistoryRepository(db *mongo.Database, collection string) *MongoHistoryRepository {
	return &MongoHistoryRepository{collection: db.Collection(collection)}
}

// Append upserts the history document and pushes the entry in a single
// atomic operation, so concurrent appenders to the same key never lose an
// entry to a read-modify-write race.
func (r *MongoHistoryRepository) Append(ctx context.Context, entityKey string, entry models.LogEntry) error {
	update := bson.M{"$push": bson.M{"history": entry}}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": entityKey}, update, opts); err != nil {
		return fmt.Errorf("appending history entry for %s: %w", entityKey, err)
	}
	return nil
}

// Get retrieves the entity's history in append order.
func (r *MongoHistoryRepository) Get(ctx context.Context, entityKey string) ([]models.LogEntry, error) {
	var doc models.EntityHistory
	err := r.collection.FindOne(ctx, bson.M{"_id": entityKey}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return []models.LogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching history for %s: %w", entityKey, err)
	}
	if doc.History == nil {
		return []models.LogEntry{}, nil
	}
	return doc.History, nil
}

// FindByEntryField matches entities by a field inside their history entries
// (e.g. all document histories touched by an account, or contracts linked to
// a token id inside extra). A matched entity with a nil history degrades to
// an empty slice rather than failing the batch.
func (r *MongoHistoryRepository) FindByEntryField(ctx context.Context, field string, value any) (map[string][]models.LogEntry, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"history." + field: value})
	if err != nil {
		return nil, fmt.Errorf("querying histories by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var docs []models.EntityHistory
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	result := make(map[string][]models.LogEntry, len(docs))
	for _, doc := range docs {
		if doc.History == nil {
			result[doc.EntityKey] = []models.LogEntry{}
			continue
		}
		result[doc.EntityKey] = doc.History
	}
	return result, nil
}
