package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wealthview/wealthview/internal/app"
	"github.com/wealthview/wealthview/internal/common"
	"github.com/wealthview/wealthview/internal/interfaces"
	"github.com/wealthview/wealthview/internal/models"
)

// --- in-memory storage fakes ---

type memInternalStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	kv    map[string]string
}

func newMemInternalStore() *memInternalStore {
	return &memInternalStore{
		users: make(map[string]*models.User),
		kv:    make(map[string]string),
	}
}

func (s *memInternalStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID], nil
}

func (s *memInternalStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memInternalStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
	return nil
}

func (s *memInternalStore) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return nil
}

func (s *memInternalStore) GetSystemKV(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.kv[key]; ok {
		return v, nil
	}
	return "", errors.New("system KV not found")
}

func (s *memInternalStore) SetSystemKV(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
	return nil
}

func (s *memInternalStore) Close() error { return nil }

type memStorage struct {
	internal *memInternalStore
}

func (m *memStorage) InternalStore() interfaces.InternalStore     { return m.internal }
func (m *memStorage) ConnectionStore() interfaces.ConnectionStore { return nil }
func (m *memStorage) SnapshotStore() interfaces.SnapshotStore     { return nil }
func (m *memStorage) Close() error                                { return nil }

// --- service fakes ---

type fakePortfolioService struct {
	resolution *models.Resolution
	resolveErr error
	snapshots  []*models.PortfolioSnapshot
	png        []byte
	chartErr   error
}

func (f *fakePortfolioService) Resolve(ctx context.Context, userID string) (*models.Resolution, error) {
	return f.resolution, f.resolveErr
}
func (f *fakePortfolioService) History(ctx context.Context, userID string, limit int) ([]*models.PortfolioSnapshot, error) {
	return f.snapshots, nil
}
func (f *fakePortfolioService) RenderHistoryChart(ctx context.Context, userID string, limit int) ([]byte, error) {
	return f.png, f.chartErr
}

type fakeInsightService struct {
	result *models.InsightsResult
	err    error
}

func (f *fakeInsightService) Generate(ctx context.Context, userID string) (*models.InsightsResult, error) {
	return f.result, f.err
}

type fakeConnectionService struct {
	connectErr error
	listed     []*models.Connection
	seeded     int
	seedErr    error
}

func (f *fakeConnectionService) Connect(ctx context.Context, conn *models.Connection) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	now := time.Now().UTC()
	conn.IsActive = true
	conn.LastSyncedAt = &now
	return nil
}
func (f *fakeConnectionService) Disconnect(ctx context.Context, userID, exchangeSlug string) error {
	return nil
}
func (f *fakeConnectionService) List(ctx context.Context, userID string) ([]*models.Connection, error) {
	return f.listed, nil
}
func (f *fakeConnectionService) SeedDemo(ctx context.Context, userID string) (int, error) {
	return f.seeded, f.seedErr
}

// --- test server assembly ---

type testEnv struct {
	server      *Server
	store       *memInternalStore
	portfolios  *fakePortfolioService
	insights    *fakeInsightService
	connections *fakeConnectionService
}

func newTestServer() *testEnv {
	store := newMemInternalStore()
	portfolios := &fakePortfolioService{}
	insights := &fakeInsightService{}
	connections := &fakeConnectionService{}

	a := &app.App{
		Config:            common.NewDefaultConfig(),
		Logger:            common.NewSilentLogger(),
		Storage:           &memStorage{internal: store},
		PortfolioService:  portfolios,
		InsightService:    insights,
		ConnectionService: connections,
	}

	return &testEnv{
		server:      NewServer(a),
		store:       store,
		portfolios:  portfolios,
		insights:    insights,
		connections: connections,
	}
}
