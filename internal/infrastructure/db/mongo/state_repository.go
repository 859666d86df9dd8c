package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

const collectionState = "hydration_state"

// StateRepository keeps the hydration snapshot as a single document keyed by
// the storage key.
type StateRepository struct {
	col *mongo.Collection
	key string
}

var _ ports.StateRepository = (*StateRepository)(nil)

func NewStateRepository(db *mongo.Database, key string) *StateRepository {
	return &StateRepository{col: db.Collection(collectionState), key: key}
}

type stateDocument struct {
	ID        string       `bson:"_id"`
	State     domain.State `bson:",inline"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

// Load fetches the snapshot document.
func (r *StateRepository) Load(ctx context.Context) (*domain.State, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc stateDocument
	err := r.col.FindOne(ctx, bson.M{"_id": r.key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("find state: %w", err)
	}
	return &doc.State, nil
}

// Save replaces the snapshot document, creating it on first write.
func (r *StateRepository) Save(ctx context.Context, state *domain.State) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := stateDocument{ID: r.key, State: *state, UpdatedAt: time.Now().UTC()}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": r.key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func (r *StateRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}
