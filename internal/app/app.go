// Package app wires the record store, adapters and usecases from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/adapter/cache"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/adapter/mailer"
	natsAdapter "github.com/mujahidkhanofficial/medixra-sub000/internal/adapter/messaging/nats"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/adapter/storage/mongodb"
	redisAdapter "github.com/mujahidkhanofficial/medixra-sub000/internal/adapter/storage/redis"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/adapter/storage/s3"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/adapter/storage/sqlite"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/config"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/metrics"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/taxonomy"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/usecase"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/validation"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired marketplace core.
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	Metrics *metrics.MetricsManager
	Store   *store.RecordStore

	Taxonomy  *taxonomy.Reference
	Validator *validation.Validator

	Listings      *usecase.ListingUsecase
	Vendors       *usecase.VendorUsecase
	Verifications *usecase.VerificationUsecase
	Reviews       *usecase.ReviewUsecase
	Wishlists     *usecase.WishlistUsecase
	Carts         *usecase.CartUsecase
	Categories    *usecase.CategoryUsecase
	Users         *usecase.UserUsecase
	Inquiries     *usecase.InquiryUsecase

	redisClient   *redis.Client
	natsPublisher *natsAdapter.Publisher
}

// New builds the application. Redis, NATS, MinIO and SMTP are optional: when
// their settings are empty the corresponding feature degrades to a no-op.
// The selected store backend is mandatory, and a corrupt collection fails New.
func New(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*App, error) {
	a := &App{
		cfg:     cfg,
		log:     appLogger.Named("App"),
		Metrics: metrics.NewMetricsManager(cfg.ServiceName),
	}

	ref, err := taxonomy.Load(cfg.TaxonomyFile)
	if err != nil {
		return nil, err
	}
	a.Taxonomy = ref
	a.Validator = validation.New(ref)
	a.log.Info("Reference taxonomy loaded",
		zap.Int("specialties", len(ref.AllSpecialties())),
		zap.Int("categories", len(ref.Categories)),
		zap.Int("cities", len(ref.Cities)))

	if cfg.RedisAddress != "" {
		a.log.Info("Initializing Redis client...", zap.String("address", cfg.RedisAddress))
		a.redisClient, err = redisAdapter.NewClient(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		a.log.Info("Redis client initialized successfully")
	}

	backend, err := a.openBackend(ctx, appLogger)
	if err != nil {
		a.closeClients()
		return nil, err
	}
	a.Store = store.New(backend, appLogger,
		store.WithMetrics(a.Metrics),
		store.WithMaxRetries(cfg.StoreMaxRetries))

	if cfg.SeedOnStart {
		if err := a.Store.EnsureSeeded(ctx, store.BootstrapDataset()); err != nil {
			a.log.Error("Failed to seed record store", zap.Error(err))
			_ = a.Close(ctx)
			return nil, err
		}
	}

	var publisher domain.EventPublisher = domain.NopPublisher{}
	if cfg.NATSURL != "" {
		a.natsPublisher, err = natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			a.log.Warn("NATS unavailable, domain events will not be published", zap.Error(err))
		} else {
			publisher = a.natsPublisher
		}
	} else {
		a.log.Info("NATS_URL not set, domain events will not be published")
	}

	var listingCache domain.ListingCache = domain.NopListingCache{}
	if a.redisClient != nil {
		listingCache = cache.NewListingCache(a.redisClient, cfg.ListingCacheTTL)
		a.log.Info("Listing cache enabled", zap.Duration("ttl", cfg.ListingCacheTTL))
	}

	var objectStorage domain.DocumentStorage
	if cfg.MinioEndpoint != "" {
		s3Storage, err := s3.NewS3Storage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, appLogger)
		if err != nil {
			a.log.Warn("MinIO unavailable, uploads are disabled", zap.Error(err))
		} else {
			objectStorage = s3Storage
		}
	} else {
		a.log.Info("MINIO_ENDPOINT not set, uploads are disabled")
	}

	var notifier domain.Notifier = domain.NopNotifier{}
	if cfg.SMTPHost != "" {
		sender, err := mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUsername,
			Password:    cfg.SMTPPassword,
			SenderEmail: cfg.SMTPSenderEmail,
		}, appLogger)
		if err != nil {
			a.log.Warn("SMTP misconfigured, vendor emails are disabled", zap.Error(err))
		} else {
			notifier = sender
		}
	} else {
		a.log.Info("SMTP_HOST not set, vendor emails are disabled")
	}

	a.Listings = usecase.NewListingUsecase(a.Store, listingCache, objectStorage, publisher, a.Metrics, appLogger)
	a.Vendors = usecase.NewVendorUsecase(a.Store, publisher, appLogger)
	a.Verifications = usecase.NewVerificationUsecase(a.Store, objectStorage, notifier, publisher, a.Metrics, appLogger)
	a.Reviews = usecase.NewReviewUsecase(a.Store, publisher, a.Metrics, appLogger)
	a.Wishlists = usecase.NewWishlistUsecase(a.Store, appLogger)
	a.Carts = usecase.NewCartUsecase(a.Store, a.Metrics, appLogger)
	a.Categories = usecase.NewCategoryUsecase(a.Store, appLogger)
	a.Users = usecase.NewUserUsecase(a.Store, publisher, cfg.JWTSecret, cfg.JWTTTL, appLogger)
	a.Inquiries = usecase.NewInquiryUsecase(a.Store, notifier, publisher, appLogger)
	a.log.Info("Usecases initialized")

	return a, nil
}

func (a *App) openBackend(ctx context.Context, appLogger *logger.Logger) (store.Backend, error) {
	a.log.Info("Opening record store backend", zap.String("backend", a.cfg.StoreBackend))
	switch a.cfg.StoreBackend {
	case config.BackendSQLite:
		return sqlite.Open(a.cfg.SQLitePath, appLogger)
	case config.BackendMongo:
		return mongodb.Connect(ctx, a.cfg.MongoURI, a.cfg.MongoDatabase, appLogger)
	case config.BackendRedis:
		if a.redisClient == nil {
			return nil, errors.New("redis store backend selected but REDIS_ADDRESS is empty")
		}
		return redisAdapter.New(a.redisClient, appLogger), nil
	case config.BackendMemory:
		a.log.Warn("Using the in-memory store backend, data will not survive a restart")
		return store.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", a.cfg.StoreBackend)
	}
}

// Close releases the store backend and every client the application opened.
func (a *App) Close(ctx context.Context) error {
	a.log.Info("Closing application resources...")
	var errs []error
	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			a.log.Error("Error closing record store", zap.Error(err))
			errs = append(errs, err)
		}
	}
	if a.natsPublisher != nil {
		a.natsPublisher.Close()
	}
	if err := a.closeClients(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeClients() error {
	if a.redisClient == nil {
		return nil
	}
	if err := a.redisClient.Close(); err != nil {
		a.log.Error("Error closing Redis client", zap.Error(err))
		return err
	}
	a.redisClient = nil
	a.log.Info("Redis client closed successfully")
	return nil
}
