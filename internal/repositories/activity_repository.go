package repositories

import (
	"context"
	"fmt"

	"github.com/tradevault/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultActivityPageSize = 50

// ActivityRepository defines the per-account global activity log.
type ActivityRepository interface {
	// Add stores a new activity entry and returns it.
	Add(ctx context.Context, entry models.ActivityLog) (*models.ActivityLog, error)
	// ListByAccount pages through one account's entries in descending
	// timestamp order. StartAfterTimestamp returns strictly older entries;
	// the caller chains the last entry's timestamp as the next cursor.
	ListByAccount(ctx context.Context, account string, filter models.ActivityFilter) ([]models.ActivityLog, error)
	// ListAll pages across all accounts with optional txHash and
	// contractAddress equality filters. An account filter delegates to
	// ListByAccount.
	ListAll(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityLog, error)
}

// MongoActivityRepository implements ActivityRepository with one document
// per entry, indexed by account and timestamp. Cross-account filters are
// served directly by the store instead of scanning each account's sub-log
// and re-sorting in the application.
type MongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoActivityRepository.
func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{collection: db.Collection("activity_logs")}
}

// Add stores a new activity entry.
func (r *MongoActivityRepository) Add(ctx context.Context, entry models.ActivityLog) (*models.ActivityLog, error) {
	res, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("inserting activity entry: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}
	return &entry, nil
}

// ListByAccount pages through one account's activity.
func (r *MongoActivityRepository) ListByAccount(ctx context.Context, account string, filter models.ActivityFilter) ([]models.ActivityLog, error) {
	filter.Account = account
	return r.find(ctx, filter)
}

// ListAll pages across all accounts.
func (r *MongoActivityRepository) ListAll(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityLog, error) {
	if filter.Account != "" {
		return r.ListByAccount(ctx, filter.Account, filter)
	}
	return r.find(ctx, filter)
}

func (r *MongoActivityRepository) find(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityLog, error) {
	query := bson.M{}
	if filter.Account != "" {
		query["account"] = filter.Account
	}
	if filter.TxHash != "" {
		query["tx_hash"] = filter.TxHash
	}
	if filter.ContractAddress != "" {
		query["contract_address"] = filter.ContractAddress
	}
	if filter.StartAfterTimestamp > 0 {
		query["timestamp"] = bson.M{"$lt": filter.StartAfterTimestamp}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultActivityPageSize
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []models.ActivityLog{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
