package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/tradevault/backend/internal/apperrors"
	"github.com/tradevault/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AggregatedRepository defines the denormalized activity index.
type AggregatedRepository interface {
	// Add writes the index row for an activity entry. The row id is
	// account_timestamp; a second write with the same id overwrites the
	// first (last write wins), which makes retried writers safe.
	Add(ctx context.Context, entry models.ActivityLog) (*models.AggregatedActivityLog, error)
	// GetByID returns the row or apperrors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.AggregatedActivityLog, error)
	// Query returns rows in descending timestamp order. Equality filters
	// are case-insensitive. The tags filter is intersected after the store
	// query; the store itself is not asked for tag containment.
	Query(ctx context.Context, filter models.AggregatedFilter) ([]models.AggregatedActivityLog, error)
	// AddTag adds a tag with set semantics: duplicate adds are no-ops and
	// concurrent adds of different tags all survive.
	AddTag(ctx context.Context, id, tag string) error
	// RemoveTag removes a tag; removing an absent tag is a no-op.
	RemoveTag(ctx context.Context, id, tag string) error
}

// MongoAggregatedRepository implements AggregatedRepository on MongoDB.
type MongoAggregatedRepository struct {
	collection *mongo.Collection
}

// NewMongoAggregatedRepository creates a new MongoAggregatedRepository.
func NewMongoAggregatedRepository(db *mongo.Database) *MongoAggregatedRepository {
	return &MongoAggregatedRepository{collection: db.Collection("aggregated_activity_logs")}
}

// Add upserts the index row by its derived id.
func (r *MongoAggregatedRepository) Add(ctx context.Context, entry models.ActivityLog) (*models.AggregatedActivityLog, error) {
	row := models.NewAggregatedActivityLog(entry)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": row.ID}, row, opts); err != nil {
		return nil, fmt.Errorf("upserting aggregated entry %s: %w", row.ID, err)
	}
	return &row, nil
}

// GetByID retrieves one index row.
func (r *MongoAggregatedRepository) GetByID(ctx context.Context, id string) (*models.AggregatedActivityLog, error) {
	var row models.AggregatedActivityLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("aggregated entry %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching aggregated entry %s: %w", id, err)
	}
	return &row, nil
}

// Query filters and pages the index.
func (r *MongoAggregatedRepository) Query(ctx context.Context, filter models.AggregatedFilter) ([]models.AggregatedActivityLog, error) {
	query := bson.M{}
	if filter.Account != "" {
		query["account_lower"] = strings.ToLower(filter.Account)
	}
	if filter.TxHash != "" {
		query["tx_hash_lower"] = strings.ToLower(filter.TxHash)
	}
	if filter.ContractAddress != "" {
		query["contract_lower"] = strings.ToLower(filter.ContractAddress)
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
		return nil, fmt.Errorf("querying aggregated activity: %w", err)
	}
	defer cursor.Close(ctx)

	rows := []models.AggregatedActivityLog{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return filterByTags(rows, filter.Tags), nil
}

// AddTag adds a tag via the store's atomic set-union primitive.
func (r *MongoAggregatedRepository) AddTag(ctx context.Context, id, tag string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"tags": tag}})
	if err != nil {
		return fmt.Errorf("tagging aggregated entry %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("aggregated entry %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// RemoveTag removes a tag via the store's atomic set-remove primitive.
func (r *MongoAggregatedRepository) RemoveTag(ctx context.Context, id, tag string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"tags": tag}})
	if err != nil {
		return fmt.Errorf("untagging aggregated entry %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("aggregated entry %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// filterByTags keeps rows containing every requested tag.
func filterByTags(rows []models.AggregatedActivityLog, tags []string) []models.AggregatedActivityLog {
	if len(tags) == 0 {
		return rows
	}
	filtered := rows[:0]
	for _, row := range rows {
		if containsAll(row.Tags, tags) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
