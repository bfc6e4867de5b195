package application

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/revocation"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/sqldb"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

func init() {
	helpers.PasswordCost = bcrypt.MinCost
}

type testEnv struct {
	Auth     *AuthService
	Posts    *PostService
	Sessions *SessionManager
	Indexer  *fakeIndexer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		DBDriver:      config.DriverSQLite,
		DBPath:        filepath.Join(t.TempDir(), "blog.sqlite"),
		DBBusyTimeout: time.Second,
	}
	db, err := sqldb.Open(context.Background(), cfg.DBDriver, cfg.DSN(), 4, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	logger := helpers.NewNopLogger()
	require.NoError(t, sqldb.Migrate(db.DB, cfg.DBDriver, logger))

	users := sqldb.NewUserRepository(db)
	posts := sqldb.NewPostRepository(db)
	sessions := NewSessionManager(helpers.NewJWTManager("test-secret", 0), revocation.NewMemoryStore(), logger)
	idx := &fakeIndexer{}
	return &testEnv{
		Auth:     NewAuthService(users, sessions, logger),
		Posts:    NewPostService(posts, NewGuard(posts), idx, logger),
		Sessions: sessions,
		Indexer:  idx,
	}
}

func (e *testEnv) register(t *testing.T, username, password string) *entity.User {
	t.Helper()
	u, err := e.Auth.Register(context.Background(), username, password)
	require.NoError(t, err)
	return u
}

type fakeIndexer struct {
	mu      sync.Mutex
	indexed []entity.Post
	removed []int64
	err     error
}

func (f *fakeIndexer) IndexPost(_ context.Context, p entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, p)
	return f.err
}

func (f *fakeIndexer) RemovePost(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.err
}
