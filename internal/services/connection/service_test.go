package connection

import (
	"context"
	"errors"
	"testing"

	"github.com/wealthview/wealthview/internal/interfaces"
	"github.com/wealthview/wealthview/internal/models"
)

// --- fakes ---

type fakeConnectionStore struct {
	upserts      []*models.Connection
	disconnected []string
	active       []*models.Connection
	err          error
}

func (f *fakeConnectionStore) GetActive(ctx context.Context, userID, exchangeSlug string) (*models.Connection, error) {
	return nil, nil
}
func (f *fakeConnectionStore) ListActive(ctx context.Context, userID string) ([]*models.Connection, error) {
	return f.active, f.err
}
func (f *fakeConnectionStore) List(ctx context.Context, userID string) ([]*models.Connection, error) {
	return f.active, f.err
}
func (f *fakeConnectionStore) Upsert(ctx context.Context, conn *models.Connection) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, conn)
	return nil
}
func (f *fakeConnectionStore) Disconnect(ctx context.Context, userID, exchangeSlug string) error {
	if f.err != nil {
		return f.err
	}
	f.disconnected = append(f.disconnected, userID+"/"+exchangeSlug)
	return nil
}

type fakeStorage struct {
	connections *fakeConnectionStore
}

func (f *fakeStorage) InternalStore() interfaces.InternalStore     { return nil }
func (f *fakeStorage) ConnectionStore() interfaces.ConnectionStore { return f.connections }
func (f *fakeStorage) SnapshotStore() interfaces.SnapshotStore     { return nil }
func (f *fakeStorage) Close() error                                { return nil }

func newTestService() (*Service, *fakeConnectionStore) {
	store := &fakeConnectionStore{}
	return NewService(&fakeStorage{connections: store}, nil), store
}

// --- tests ---

func TestConnect_UpsertsActiveConnection(t *testing.T) {
	svc, store := newTestService()

	conn := &models.Connection{
		UserID:         "u1",
		ExchangeSlug:   "alpaca",
		ExchangeName:   "Alpaca",
		ConnectionType: models.ConnectionTypeAPIKey,
		APIKey:         "PK123",
		APISecret:      "secret",
	}
	if err := svc.Connect(context.Background(), conn); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}

	if len(store.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(store.upserts))
	}
	saved := store.upserts[0]
	if !saved.IsActive {
		t.Error("connected row should be active")
	}
	if saved.LastSyncedAt == nil {
		t.Error("connected row should carry a last_synced_at timestamp")
	}
}

func TestConnect_ValidatesRequiredFields(t *testing.T) {
	svc, store := newTestService()

	tests := []struct {
		name string
		conn *models.Connection
	}{
		{"missing user", &models.Connection{ExchangeSlug: "alpaca", ConnectionType: models.ConnectionTypeAPIKey, APIKey: "k", APISecret: "s"}},
		{"missing exchange", &models.Connection{UserID: "u1", ConnectionType: models.ConnectionTypeAPIKey, APIKey: "k", APISecret: "s"}},
		{"missing secret", &models.Connection{UserID: "u1", ExchangeSlug: "alpaca", ConnectionType: models.ConnectionTypeAPIKey, APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Connect(context.Background(), tt.conn)
			if !errors.Is(err, ErrInvalidConnection) {
				t.Errorf("err = %v, want ErrInvalidConnection", err)
			}
		})
	}

	if len(store.upserts) != 0 {
		t.Errorf("invalid connects should not reach storage, got %d upserts", len(store.upserts))
	}
}

func TestDisconnect(t *testing.T) {
	svc, store := newTestService()

	if err := svc.Disconnect(context.Background(), "u1", "alpaca"); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}
	if len(store.disconnected) != 1 || store.disconnected[0] != "u1/alpaca" {
		t.Errorf("disconnected = %v, want [u1/alpaca]", store.disconnected)
	}

	if err := svc.Disconnect(context.Background(), "", "alpaca"); !errors.Is(err, ErrInvalidConnection) {
		t.Errorf("missing user err = %v, want ErrInvalidConnection", err)
	}
}

func TestSeedDemo_UpsertsAllDemoExchanges(t *testing.T) {
	svc, store := newTestService()

	count, err := svc.SeedDemo(context.Background(), "u1")
	if err != nil {
		t.Fatalf("SeedDemo returned error: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if len(store.upserts) != 3 {
		t.Fatalf("upserts = %d, want 3", len(store.upserts))
	}

	slugs := map[string]bool{}
	for _, conn := range store.upserts {
		slugs[conn.ExchangeSlug] = true
		if conn.UserID != "u1" {
			t.Errorf("seeded row user = %q, want u1", conn.UserID)
		}
		if !conn.IsDemo() {
			t.Errorf("seeded row %s should carry demo credentials, got key %q", conn.ExchangeSlug, conn.APIKey)
		}
		if !conn.IsActive {
			t.Errorf("seeded row %s should be active", conn.ExchangeSlug)
		}
	}
	for _, want := range []string{"coinbase", "binance", "alpaca"} {
		if !slugs[want] {
			t.Errorf("missing seeded exchange %q", want)
		}
	}
}

func TestSeedDemo_Idempotent(t *testing.T) {
	svc, store := newTestService()

	if _, err := svc.SeedDemo(context.Background(), "u1"); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if _, err := svc.SeedDemo(context.Background(), "u1"); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	// Upsert semantics: same record IDs both times, no duplicate identities
	if len(store.upserts) != 6 {
		t.Fatalf("upserts = %d, want 6", len(store.upserts))
	}
	if store.upserts[0].ExchangeSlug != store.upserts[3].ExchangeSlug {
		t.Error("re-seed should target the same rows")
	}
}
