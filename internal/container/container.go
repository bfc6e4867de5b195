package container

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/revocation"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/sqldb"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

// Infra holds the external connections. Only DB is required.
type Infra struct {
	DB     *sqlx.DB
	Redis  *redis.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher
}

// Container carries the constructed components shared by the router
// modules.
type Container struct {
	Infra

	Config *config.Config
	Logger *logrus.Logger

	Cookies  *helpers.Manager
	Sessions *application.SessionManager
	Auth     *application.AuthService
	Guard    *application.Guard
	Posts    *application.PostService
	Search   *search.ESIndex // nil when Elasticsearch is not configured
}

// New wires the application on top of already opened infrastructure.
func New(cfg *config.Config, logger *logrus.Logger, infra Infra) *Container {
	users := sqldb.NewUserRepository(infra.DB)
	posts := sqldb.NewPostRepository(infra.DB)

	mem := revocation.NewMemoryStore()
	if cfg.RevocationMaxEntries > 0 {
		mem.MaxEntries = cfg.RevocationMaxEntries
	}
	var revoked application.RevocationStore = mem
	if infra.Redis != nil {
		revoked = revocation.NewRedisStore(infra.Redis)
	}
	sessions := application.NewSessionManager(helpers.NewJWTManager(cfg.SecretKey, cfg.SessionTTL), revoked, logger)

	var index *search.ESIndex
	if infra.ES != nil {
		index = search.NewESIndex(infra.ES, cfg.ESPostsIndex, logger)
	}
	// With a queue, the indexer worker talks to Elasticsearch instead of the server.
	var indexer application.PostIndexer
	switch {
	case infra.Rabbit != nil:
		indexer = search.NewQueueIndexer(infra.Rabbit)
	case index != nil:
		indexer = index
	}

	guard := application.NewGuard(posts)
	return &Container{
		Infra:    infra,
		Config:   cfg,
		Logger:   logger,
		Cookies:  helpers.NewCookie(cfg.SessionCookieName, cfg.CookieDomain, cfg.CookieSecure),
		Sessions: sessions,
		Auth:     application.NewAuthService(users, sessions, logger),
		Guard:    guard,
		Posts:    application.NewPostService(posts, guard, indexer, logger),
		Search:   index,
	}
}

// Open connects to every configured backend, applies migrations and wires
// the application. Optional backends are skipped when their address is empty.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	var infra Infra
	fail := func(err error) (*Container, error) {
		closeInfra(infra)
		return nil, err
	}

	if cfg.DBDriver == config.DriverSQLite {
		if err := sqldb.EnsureDir(cfg.DBPath); err != nil {
			return nil, err
		}
	}
	db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DSN(), cfg.DBMaxConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	infra.DB = db
	if err := sqldb.Migrate(db.DB, cfg.DBDriver, logger); err != nil {
		return fail(fmt.Errorf("migrate: %w", err))
	}

	if cfg.RedisAddr != "" {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fail(fmt.Errorf("connect redis: %w", err))
		}
		infra.Redis = rdb
	} else {
		logger.Warn("REDIS_ADDR not set; session revocation is kept in process memory")
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(helpers.ESOptions{
			Addrs:    addrs,
			Username: cfg.ElasticsearchUser,
			Password: cfg.ElasticsearchPass,
			Timeout:  cfg.ESTimeout,
		})
		if err != nil {
			return fail(fmt.Errorf("elasticsearch client: %w", err))
		}
		infra.ES = es
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQPostsQueue)
		if err != nil {
			return fail(fmt.Errorf("connect rabbitmq: %w", err))
		}
		infra.Rabbit = pub
	}

	return New(cfg, logger, infra), nil
}

func (c *Container) Close() {
	closeInfra(c.Infra)
}

func closeInfra(infra Infra) {
	if infra.Rabbit != nil {
		infra.Rabbit.Close()
	}
	if infra.Redis != nil {
		_ = infra.Redis.Close()
	}
	if infra.DB != nil {
		_ = infra.DB.Close()
	}
}
