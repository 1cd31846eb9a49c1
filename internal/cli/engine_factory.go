package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/careerflow"
	"github.com/aretw0/careerflow/internal/config"
	"github.com/aretw0/careerflow/pkg/adapters/file"
	"github.com/aretw0/careerflow/pkg/adapters/loam"
	"github.com/aretw0/careerflow/pkg/adapters/memory"
	"github.com/aretw0/careerflow/pkg/adapters/postgres"
	redisadapter "github.com/aretw0/careerflow/pkg/adapters/redis"
	"github.com/aretw0/careerflow/pkg/adapters/remote"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/persistence/middleware"
	"github.com/aretw0/careerflow/pkg/ports"
	"github.com/spf13/afero"
)

// NewBackend returns the remote backend client when backend.url is set,
// and the catalog under catalog.dir otherwise, read as catalog.format.
func NewBackend(cfg *config.Config, fs afero.Fs, logger *slog.Logger) (ports.Backend, error) {
	if cfg.Backend.URL != "" {
		client, err := remote.New(cfg.Backend.URL,
			remote.WithTimeout(cfg.Backend.Timeout),
			remote.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		logger.Info("using remote backend", "url", cfg.Backend.URL)
		return client, nil
	}
	if cfg.Catalog.Format == config.CatalogLoam {
		content, err := loam.Open(cfg.Catalog.Dir)
		if err != nil {
			return nil, err
		}
		logger.Info("using loam catalog", "dir", cfg.Catalog.Dir)
		return file.NewCatalog(fs, cfg.Catalog.Dir, file.WithContent(content)), nil
	}
	logger.Info("using file catalog", "dir", cfg.Catalog.Dir)
	return file.NewCatalog(fs, cfg.Catalog.Dir), nil
}

// SessionStorage is the session store chosen by session.store, with its optional
// distributed locker and a close function releasing connections.
type SessionStorage struct {
	Store  ports.SessionStore
	Locker ports.DistributedLocker
	Close  func() error
}

// NewSessionStorage builds the session store named by session.store, wrapped in the
// email redaction and encryption middlewares when configured.
// A Redis store is pinged before it is returned.
func NewSessionStorage(ctx context.Context, cfg *config.Config, fs afero.Fs) (*SessionStorage, error) {
	storage, err := newBaseStorage(ctx, cfg, fs)
	if err != nil {
		return nil, err
	}
	mws, err := storeMiddlewares(cfg)
	if err != nil {
		storage.Close()
		return nil, err
	}
	storage.Store = middleware.Chain(storage.Store, mws...)
	return storage, nil
}

func storeMiddlewares(cfg *config.Config) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if cfg.Session.RedactEmail {
		mws = append(mws, middleware.NewPIIMiddleware())
	}
	if cfg.Session.EncryptionKey == "" {
		return mws, nil
	}

	active, err := middleware.ParseKey(cfg.Session.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("session.encryption_key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for i, s := range cfg.Session.FallbackKeys {
		key, err := middleware.ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("session.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	mw, err := middleware.NewEncryptionMiddleware(enc)
	if err != nil {
		return nil, err
	}
	return append(mws, mw), nil
}

func newBaseStorage(ctx context.Context, cfg *config.Config, fs afero.Fs) (*SessionStorage, error) {
	noop := func() error { return nil }

	switch cfg.Session.Store {
	case config.StoreRedis:
		opts := []redisadapter.Option{redisadapter.WithTTL(cfg.Session.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redisadapter.WithPrefix(cfg.Redis.Prefix))
		}
		store := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return &SessionStorage{
			Store:  store,
			Locker: redisadapter.NewLocker(store.Client(), store.Prefix()),
			Close:  store.Close,
		}, nil
	case config.StorePostgres:
		var opts []postgres.Option
		if cfg.Postgres.Table != "" {
			opts = append(opts, postgres.WithTable(cfg.Postgres.Table))
		}
		store, err := postgres.Connect(ctx, cfg.Postgres.URL, opts...)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return &SessionStorage{Store: store, Close: store.Close}, nil
	case config.StoreFile:
		return &SessionStorage{Store: file.NewStore(fs, cfg.Session.Dir), Close: noop}, nil
	case config.StoreMemory, "":
		return &SessionStorage{Store: memory.NewStore(), Close: noop}, nil
	}
	return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
}

// NewEngine wires an Engine from configuration.
func NewEngine(ctx context.Context, cfg *config.Config, fs afero.Fs, logger *slog.Logger, hooks domain.LifecycleHooks) (*careerflow.Engine, *SessionStorage, error) {
	backend, err := NewBackend(cfg, fs, logger)
	if err != nil {
		return nil, nil, err
	}
	storage, err := NewSessionStorage(ctx, cfg, fs)
	if err != nil {
		return nil, nil, err
	}

	opts := []careerflow.Option{
		careerflow.WithSessionStore(storage.Store),
		careerflow.WithLogger(logger),
		careerflow.WithLifecycleHooks(hooks),
		careerflow.WithQuestionnaire(cfg.Assessment.PageSize, cfg.Assessment.Total),
		careerflow.WithTopDomains(cfg.Assessment.TopDomains),
	}
	if storage.Locker != nil {
		opts = append(opts, careerflow.WithLocker(storage.Locker))
	}

	eng, err := careerflow.New(backend, opts...)
	if err != nil {
		storage.Close()
		return nil, nil, err
	}
	return eng, storage, nil
}
