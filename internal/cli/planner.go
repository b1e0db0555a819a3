package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/internal/adapters/file"
	"github.com/aretw0/hornbill/internal/config"
	"github.com/aretw0/hornbill/pkg/adapters/memory"
	"github.com/aretw0/hornbill/pkg/adapters/redis"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/observability"
	"github.com/aretw0/hornbill/pkg/persistence/middleware"
	"github.com/aretw0/hornbill/pkg/ports"
)

// Backend is a configured session store plus whatever must be released with it.
type Backend struct {
	Store  ports.StateStore
	Locker ports.DistributedLocker
	Close  func() error
}

// NewBackend builds the store named by cfg.Driver and wraps it with the
// configured middleware. Encryption is applied innermost so PII masking
// sees plaintext.
func NewBackend(cfg config.StoreConfig) (*Backend, error) {
	b := &Backend{Close: func() error { return nil }}

	switch cfg.Driver {
	case config.DriverMemory:
		b.Store = memory.NewStore()
	case config.DriverFile, "":
		b.Store = file.New(cfg.Path)
	case config.DriverRedis:
		opts := []redis.Option{redis.WithPrefix(cfg.Redis.Prefix)}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		b.Store = rs
		b.Close = rs.Close
		if cfg.Redis.Lock {
			b.Locker = redis.NewLocker(rs.Client(), cfg.Redis.Prefix+"lock:")
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	var mws []middleware.Middleware
	if len(cfg.PIIPatterns) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.PIIPatterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}

	active, fallback, err := cfg.Keys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}

	b.Store = middleware.Chain(b.Store, mws...)
	return b, nil
}

// NewPlanner wires a Planner from configuration. The returned Backend must be
// closed by the caller.
func NewPlanner(cfg config.Config, logger *slog.Logger, extra ...hornbill.Option) (*hornbill.Planner, *Backend, error) {
	backend, err := NewBackend(cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	opts := []hornbill.Option{
		hornbill.WithStore(backend.Store),
		hornbill.WithLogger(logger),
		hornbill.WithLifecycleHooks(observability.LoggingHooks(logger)),
	}
	if backend.Locker != nil {
		opts = append(opts, hornbill.WithLocker(backend.Locker))
	}
	if cfg.Catalog != "" {
		cat, err := catalog.Load(cfg.Catalog)
		if err != nil {
			_ = backend.Close()
			return nil, nil, err
		}
		opts = append(opts, hornbill.WithCatalog(cat))
	}
	opts = append(opts, extra...)

	p, err := hornbill.New(opts...)
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return p, backend, nil
}
