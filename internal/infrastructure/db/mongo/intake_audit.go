package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

const collectionIntakeEvents = "intake_events"

// IntakeAuditRepository implements ports.IntakeAuditRepository using MongoDB.
// Entries survive daily resets, unlike the snapshot log.
type IntakeAuditRepository struct {
	col *mongo.Collection
}

// NewIntakeAuditRepository creates a new IntakeAuditRepository.
func NewIntakeAuditRepository(db *mongo.Database) *IntakeAuditRepository {
	return &IntakeAuditRepository{col: db.Collection(collectionIntakeEvents)}
}

var _ ports.IntakeAuditRepository = (*IntakeAuditRepository)(nil)

// InsertEntry persists a log entry to the intake_events collection.
func (r *IntakeAuditRepository) InsertEntry(ctx context.Context, entry domain.LogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"entry_id":    entry.ID,
		"date":        entry.Date.UTC(),
		"amount":      entry.Amount,
		"kind":        string(entry.Kind),
		"recorded_at": time.Now().UTC(),
	}
	if entry.Note != "" {
		doc["note"] = entry.Note
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates the indexes used by audit queries.
func (r *IntakeAuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "entry_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
