package registration

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeActivateStore struct {
	active  []primitive.ObjectID
	applied int
	clear   []primitive.ObjectID
	set     primitive.ObjectID
}

func (s *fakeActivateStore) ActiveEventIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return s.active, nil
}

func (s *fakeActivateStore) ApplyActivation(ctx context.Context, clear []primitive.ObjectID, set primitive.ObjectID) error {
	s.applied++
	s.clear = clear
	s.set = set
	return nil
}

func TestActivateSwapsInOneBatch(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	store := &fakeActivateStore{active: []primitive.ObjectID{a}}

	if err := Activate(context.Background(), store, b); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if store.applied != 1 {
		t.Fatalf("ApplyActivation called %d times, want 1", store.applied)
	}
	if len(store.clear) != 1 || store.clear[0] != a {
		t.Errorf("clear = %v, want [%v]", store.clear, a)
	}
	if store.set != b {
		t.Errorf("set = %v, want %v", store.set, b)
	}
}

func TestActivateAlreadyActiveTarget(t *testing.T) {
	a := primitive.NewObjectID()
	store := &fakeActivateStore{active: []primitive.ObjectID{a}}

	if err := Activate(context.Background(), store, a); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(store.clear) != 0 {
		t.Errorf("clear = %v, want none", store.clear)
	}
	if store.set != a {
		t.Errorf("set = %v, want %v", store.set, a)
	}
}

func TestActivateClearsEveryOtherActive(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()
	store := &fakeActivateStore{active: []primitive.ObjectID{a, b}}

	if err := Activate(context.Background(), store, c); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(store.clear) != 2 {
		t.Fatalf("clear = %v, want both stale actives", store.clear)
	}
}
