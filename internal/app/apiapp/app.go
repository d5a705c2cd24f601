package apiapp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ivankudzin/naranja/internal/config"
	s3infra "github.com/ivankudzin/naranja/internal/infra/s3"
	"github.com/ivankudzin/naranja/internal/jobs/cleanup"
	pgrepo "github.com/ivankudzin/naranja/internal/repo/postgres"
	redrepo "github.com/ivankudzin/naranja/internal/repo/redis"
	"github.com/ivankudzin/naranja/internal/repo/rowstore"
	sqliterepo "github.com/ivankudzin/naranja/internal/repo/sqlite"
	authsvc "github.com/ivankudzin/naranja/internal/services/auth"
	channelssvc "github.com/ivankudzin/naranja/internal/services/channels"
	feedsvc "github.com/ivankudzin/naranja/internal/services/feed"
	interestssvc "github.com/ivankudzin/naranja/internal/services/interests"
	limitssvc "github.com/ivankudzin/naranja/internal/services/limits"
	matchingsvc "github.com/ivankudzin/naranja/internal/services/matching"
	presencesvc "github.com/ivankudzin/naranja/internal/services/presence"
	profilesvc "github.com/ivankudzin/naranja/internal/services/profiles"
	ratesvc "github.com/ivankudzin/naranja/internal/services/rate"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	sqlite     *sql.DB
	redis      *goredis.Client
	sweeper    *cleanup.Job
	sweepCtx   context.Context
	stopSweep  context.CancelFunc
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	app := &App{cfg: cfg, logger: log}

	store, err := app.openStore(ctx)
	if err != nil {
		return nil, err
	}

	memCounters := limitssvc.NewMemoryCounter()
	memPresence := presencesvc.NewMemoryStore()
	var (
		counters    limitssvc.CounterStore = memCounters
		presence    presencesvc.Store      = memPresence
		revocations authsvc.RevocationStore
	)
	app.sweeper = cleanup.New(cfg.Limits.SweepInterval, log.Named("cleanup"))
	app.sweepCtx, app.stopSweep = context.WithCancel(context.Background())
	if cfg.Limits.Store == config.LimitsStoreRedis {
		client := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redrepo.Ping(ctx, client); err != nil {
			log.Warn("redis init failed, continuing with in-process counters", zap.Error(err))
			_ = client.Close()
		} else {
			app.redis = client
			counters = redrepo.NewLikeCounterRepo(client)
			presence = redrepo.NewPresenceRepo(client)
			revocations = redrepo.NewRevocationRepo(client)
		}
	}
	if app.redis == nil {
		app.sweeper.Attach("like_counters", memCounters)
		app.sweeper.Attach("presence", memPresence)
	}
	rateLimiter := ratesvc.NewLimiter(counters, cfg.Limits.BurstPerMinute, cfg.Limits.BurstPer10Sec)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, revocations)
	authService.AttachLogger(log.Named("auth"))

	profileService := profilesvc.NewService(store)
	if storage := app.avatarStorage(ctx); storage != nil {
		profileService.AttachAvatarSigner(storage)
	}

	interestService := interestssvc.NewService(store)
	channelService := channelssvc.NewService(store)
	limitService := limitssvc.NewService(counters, limitssvc.Config{
		FreeLikesPerDay: cfg.Limits.FreeLikesPerDay,
		Window:          cfg.Limits.Window,
	})
	matchingService := matchingsvc.NewService(matchingsvc.Dependencies{
		Store:    store,
		Ledger:   interestService,
		Profiles: profileService,
		Channels: channelService,
		Limiter:  limitService,
		Logger:   log.Named("matching"),
	}, matchingsvc.Config{
		Ordering: matchingsvc.Ordering(cfg.Matching.Ordering),
	})
	feedService := feedsvc.NewService(store, interestService)
	feedService.AttachProfiles(profileService)
	presenceService := presencesvc.NewService(presence, cfg.Presence.TTL)

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)
	RegisterRoutes(r, Dependencies{
		AuthService:     authService,
		ChannelService:  channelService,
		FeedService:     feedService,
		LimitService:    limitService,
		MatchingService: matchingService,
		PresenceService: presenceService,
		ProfileService:  profileService,
		RateLimiter:     rateLimiter,
		Logger:          log,
	})

	app.httpRouter = r
	app.server = &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return app, nil
}

func (a *App) openStore(ctx context.Context) (rowstore.Store, error) {
	switch a.cfg.Store.Driver {
	case config.StoreDriverMemory:
		a.logger.Warn("using in-memory store, data is lost on restart")
		return rowstore.NewMemoryWithSchema(), nil

	case config.StoreDriverSQLite:
		db, err := sqliterepo.Open(ctx, a.cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		if a.cfg.Store.Migrate {
			if err := sqliterepo.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		a.sqlite = db
		return sqliterepo.NewRowStore(db), nil

	default:
		pool, err := pgrepo.NewPool(ctx, a.cfg.Postgres.DSN, a.cfg.Postgres.MaxConns)
		if err != nil {
			return nil, err
		}
		if a.cfg.Store.Migrate {
			if err := pgrepo.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		a.postgres = pool
		return pgrepo.NewRowStore(pool), nil
	}
}

// avatarStorage returns nil when S3 is unreachable; avatars then render without URLs.
func (a *App) avatarStorage(ctx context.Context) *s3infra.AvatarStorage {
	storage, err := s3infra.OpenAvatarStorage(ctx, s3infra.Config{
		Endpoint:  a.cfg.S3.Endpoint,
		AccessKey: a.cfg.S3.AccessKey,
		SecretKey: a.cfg.S3.SecretKey,
		Bucket:    a.cfg.S3.Bucket,
		Region:    a.cfg.S3.Region,
		UseSSL:    a.cfg.S3.UseSSL,
	})
	if err != nil {
		a.logger.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
		return nil
	}
	return storage
}

func (a *App) Run() error {
	if !a.sweeper.Empty() {
		go a.sweeper.Start(a.sweepCtx)
	}

	a.logger.Info("api server started",
		zap.String("addr", a.cfg.HTTP.Addr),
		zap.String("store", a.cfg.Store.Driver),
		zap.String("ordering", a.cfg.Matching.Ordering),
	)
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	a.stopSweep()
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
