// Package app assembles frigo's services with fx.
package app

import (
	"context"
	"errors"
	"io"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/auth"
	"github.com/matheus3301/frigo/internal/bus"
	"github.com/matheus3301/frigo/internal/config"
	"github.com/matheus3301/frigo/internal/lock"
	"github.com/matheus3301/frigo/internal/logging"
	"github.com/matheus3301/frigo/internal/notify"
	"github.com/matheus3301/frigo/internal/outbox"
	"github.com/matheus3301/frigo/internal/profile"
	"github.com/matheus3301/frigo/internal/store"
	"github.com/matheus3301/frigo/internal/tui/model"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Params holds what the command line decided before the container starts.
type Params struct {
	Profile    string // --profile flag; empty uses the config default
	ConfigPath string // empty uses ~/.frigo/config.toml
	// Console mirrors the log to this writer. The TUI leaves it nil.
	Console  io.Writer
	LogLevel zapcore.Level
	// Interactive holds the profile lock and runs the outbox sender and the
	// notification counter.
	Interactive bool
}

// Env is the resolved profile.
type Env struct {
	Profile    string
	ConfigPath string
}

// Module returns the fx module composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("frigo",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideEnv,
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideClient,
			provideAuth,
			provideSender,
			provideCounter,
			provideViewModel,
		),
		fx.Invoke(registerLifecycle),
	)
}

// New builds the container with fx's own events sent to the profile log.
func New(p Params, opts ...fx.Option) *fx.App {
	return fx.New(append([]fx.Option{
		Module(p),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	}, opts...)...)
}

func configPath(p Params) string {
	if p.ConfigPath != "" {
		return p.ConfigPath
	}
	return profile.ConfigPath()
}

func provideConfig(p Params) (*config.Config, error) {
	return config.Resolve(configPath(p))
}

func provideEnv(p Params, cfg *config.Config) (Env, error) {
	name, err := profile.Resolve(p.Profile, cfg.DefaultProfile)
	if err != nil {
		return Env{}, err
	}
	if err := profile.EnsureDir(name); err != nil {
		return Env{}, err
	}
	return Env{Profile: name, ConfigPath: configPath(p)}, nil
}

func provideLogger(p Params, env Env) (*zap.Logger, error) {
	return logging.New(profile.LogPath(env.Profile), env.Profile, logging.Options{
		Console: p.Console,
		Level:   p.LogLevel,
	})
}

func provideBus() *bus.Bus {
	return bus.New()
}

// provideLock returns nil for non-interactive runs, which may share the
// profile with a running TUI.
func provideLock(p Params, env Env, logger *zap.Logger) (*lock.Lock, error) {
	if !p.Interactive {
		return nil, nil
	}
	logger.Info("acquiring profile lock")
	l, err := lock.Acquire(profile.Dir(env.Profile), "frigo")
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired", zap.String("path", l.Path()))
	return l, nil
}

func provideStore(env Env, logger *zap.Logger) (*store.DB, error) {
	dbPath := profile.CachePath(env.Profile)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed() {
		logger.Info("migrations applied", zap.Uint("from", result.From), zap.Uint("version", result.Version))
	} else {
		logger.Debug("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideClient(cfg *config.Config, logger *zap.Logger) (*api.Client, error) {
	return api.New(cfg.APIURL, cfg.RequestTimeout.Duration, logger)
}

func provideAuth(db *store.DB, client *api.Client, b *bus.Bus, logger *zap.Logger) (*auth.Service, error) {
	svc := auth.NewService(db, client, b, logger)
	sess, err := svc.Restore()
	switch {
	case errors.Is(err, auth.ErrNoSession):
		logger.Info("no saved session, login required")
	case err != nil:
		return nil, err
	default:
		logger.Info("session restored", zap.String("username", sess.Username), zap.String("role", string(sess.Role)))
	}
	return svc, nil
}

func provideSender(db *store.DB, client *api.Client, b *bus.Bus, logger *zap.Logger) *outbox.Sender {
	return outbox.NewSender(db, client, b, logger)
}

// adminCounts asks the backend for counters only while an admin is logged in.
type adminCounts struct {
	auth   *auth.Service
	client *api.Client
}

func (a adminCounts) Counts(ctx context.Context) (api.Counts, error) {
	if sess := a.auth.Current(); sess == nil || !sess.Admin() {
		return api.Counts{}, nil
	}
	return a.client.Counts(ctx)
}

func provideCounter(svc *auth.Service, client *api.Client, cfg *config.Config, b *bus.Bus, logger *zap.Logger) *notify.Counter {
	return notify.NewCounter(adminCounts{auth: svc, client: client}, cfg.NotifyInterval.Duration, b, logger)
}

func provideViewModel(env Env, cfg *config.Config, svc *auth.Service, client *api.Client, db *store.DB, b *bus.Bus, counter *notify.Counter, logger *zap.Logger) *model.ViewModel {
	return model.NewViewModel(model.Deps{
		Profile:    env.Profile,
		Config:     cfg,
		ConfigPath: env.ConfigPath,
		Auth:       svc,
		Client:     client,
		DB:         db,
		Bus:        b,
		Counter:    counter,
		Logger:     logger,
	})
}

func registerLifecycle(lc fx.Lifecycle, p Params, lk *lock.Lock, db *store.DB, sender *outbox.Sender, counter *notify.Counter, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if p.Interactive {
				sender.Start(context.Background())
				counter.Start(context.Background())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			counter.Stop()
			sender.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("frigo stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
