package registration

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivateStore is the storage surface of the activate operation.
// ApplyActivation must clear and set the flags as one atomic batch: a
// reader after commit sees exactly one active event, never both or
// neither.
type ActivateStore interface {
	ActiveEventIDs(ctx context.Context) ([]primitive.ObjectID, error)
	ApplyActivation(ctx context.Context, clear []primitive.ObjectID, set primitive.ObjectID) error
}

// Activate makes the target event the single active one: every currently
// active event is cleared and the target set in the same batch.
func Activate(ctx context.Context, store ActivateStore, target primitive.ObjectID) error {
	active, err := store.ActiveEventIDs(ctx)
	if err != nil {
		return err
	}
	var clear []primitive.ObjectID
	for _, id := range active {
		if id != target {
			clear = append(clear, id)
		}
	}
	return store.ApplyActivation(ctx, clear, target)
}
