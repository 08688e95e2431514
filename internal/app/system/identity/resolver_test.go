package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dforrest/communityhub/internal/app/system/faults"
	"github.com/dforrest/communityhub/internal/app/system/identity"
	"github.com/dforrest/communityhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// delayedStore returns mongo.ErrNoDocuments until attempt hitOn, then a
// user. hitOn = 0 means never.
type delayedStore struct {
	hitOn    int
	attempts int
	user     models.User
	err      error
}

func (s *delayedStore) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	s.attempts++
	if s.err != nil {
		return nil, s.err
	}
	if s.hitOn > 0 && s.attempts >= s.hitOn {
		u := s.user
		return &u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func TestResolveLocalUser_EventualHit(t *testing.T) {
	store := &delayedStore{
		hitOn: 3,
		user:  models.User{ID: primitive.NewObjectID(), ExternalID: "ext-slow"},
	}
	r := identity.NewResolver(store, 5, time.Millisecond, nil, zap.NewNop())

	got, err := r.ResolveLocalUser(context.Background(), "ext-slow")
	if err != nil {
		t.Fatalf("ResolveLocalUser failed: %v", err)
	}
	if got.ID != store.user.ID {
		t.Errorf("resolved wrong user: %s", got.ID.Hex())
	}
	if store.attempts != 3 {
		t.Errorf("expected the loop to stop on the 3rd attempt, got %d", store.attempts)
	}
}

func TestResolveLocalUser_ImmediateHit(t *testing.T) {
	store := &delayedStore{
		hitOn: 1,
		user:  models.User{ID: primitive.NewObjectID(), ExternalID: "ext-fast"},
	}
	r := identity.NewResolver(store, 5, 50*time.Millisecond, nil, zap.NewNop())

	start := time.Now()
	if _, err := r.ResolveLocalUser(context.Background(), "ext-fast"); err != nil {
		t.Fatalf("ResolveLocalUser failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("first-attempt hit must not wait out the interval, took %s", elapsed)
	}
	if store.attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", store.attempts)
	}
}

func TestResolveLocalUser_Exhaustion(t *testing.T) {
	store := &delayedStore{} // never mirrors
	r := identity.NewResolver(store, 4, time.Millisecond, nil, zap.NewNop())

	_, err := r.ResolveLocalUser(context.Background(), "ext-never")
	if !errors.Is(err, faults.ErrSyncTimeout) {
		t.Fatalf("expected ErrSyncTimeout, got %v", err)
	}
	if store.attempts != 4 {
		t.Errorf("expected exactly 4 attempts, got %d", store.attempts)
	}
}

func TestResolveLocalUser_StoreFailureAborts(t *testing.T) {
	storeErr := errors.New("connection reset")
	store := &delayedStore{err: storeErr}
	r := identity.NewResolver(store, 5, time.Millisecond, nil, zap.NewNop())

	_, err := r.ResolveLocalUser(context.Background(), "ext-broken")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected the store error, got %v", err)
	}
	if store.attempts != 1 {
		t.Errorf("expected the loop to abort after 1 attempt, got %d", store.attempts)
	}
}

func TestResolveLocalUser_EmptyExternalID(t *testing.T) {
	store := &delayedStore{}
	r := identity.NewResolver(store, 5, time.Millisecond, nil, zap.NewNop())

	_, err := r.ResolveLocalUser(context.Background(), "")
	if !errors.Is(err, faults.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
	if store.attempts != 0 {
		t.Errorf("expected no store calls, got %d", store.attempts)
	}
}

func TestResolveLocalUser_ContextCancel(t *testing.T) {
	store := &delayedStore{}
	r := identity.NewResolver(store, 50, 20*time.Millisecond, nil, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.ResolveLocalUser(ctx, "ext-cancelled")
	if err == nil {
		t.Fatal("expected an error after context cancellation")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("cancelled resolve took too long: %s", elapsed)
	}
}
