package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"

	"dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/fcm"
	"dispatch/internal/adapters/out/firebaseapp"
	"dispatch/internal/adapters/out/firebaseproximity"
	"dispatch/internal/adapters/out/kafkanotify"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/settingsrepo"
	"dispatch/internal/adapters/out/redisgeo"
	"dispatch/internal/adapters/out/redislock"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/metrics"

	firebase "firebase.google.com/go/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived clients and builds every handler from
// them. Adapters are chosen by Config.CandidateSource and Config.Notifier.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	rdb        *redis.Client
	logger     *slog.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	recorder   *metrics.Recorder

	firebaseApp *firebase.App
	closers     []func() error
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, rdb *redis.Client, registry prometheus.Registerer, logger *slog.Logger) (*CompositionRoot, error) {
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		rdb:        rdb,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		recorder:   recorder,
	}, nil
}

func (c *CompositionRoot) Metrics() *metrics.Recorder {
	return c.recorder
}

func (c *CompositionRoot) CreateRunDispatchSweepCommandHandler(ctx context.Context) (*commands.RunDispatchSweepCommandHandler, error) {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})

	settings, err := settingsrepo.NewGormSettingsSource(c.gormDB, c.cfg.DispatchDefaults())
	if err != nil {
		return nil, err
	}
	candidates, err := c.createCandidateSource(ctx)
	if err != nil {
		return nil, err
	}
	notifier, err := c.createNotifier(ctx)
	if err != nil {
		return nil, err
	}
	lock, err := c.createSweepLock()
	if err != nil {
		return nil, err
	}

	return commands.NewRunDispatchSweepCommandHandler(commands.SweepDependencies{
		UoWFactory: f,
		Settings:   settings,
		Candidates: candidates,
		Notifier:   notifier,
		Lock:       lock,
		Metrics:    c.recorder,
		Logger:     c.logger,
	}, commands.SweepOptions{
		Workers:        c.cfg.SweepWorkers,
		LocatorTimeout: c.cfg.LocatorTimeout,
		NotifyTimeout:  c.cfg.NotifyTimeout,
	})
}

func (c *CompositionRoot) CreateGetOrderAssignmentAttemptsQueryHandler() queries.GetOrderAssignmentAttemptsQueryHandler {
	return queries.NewGetOrderAssignmentAttemptsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingOffersQueryHandler() queries.GetPendingOffersQueryHandler {
	return queries.NewGetPendingOffersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer(sweeps http.SweepRunner, metrics nethttp.Handler) (*http.Server, error) {
	return http.NewServer(
		sweeps,
		c.CreateGetOrderAssignmentAttemptsQueryHandler(),
		c.CreateGetPendingOffersQueryHandler(),
		c.recorder,
		metrics,
	)
}

func (c *CompositionRoot) CreateDispatchSweepJob(runner jobs.SweepRunner) (*jobs.DispatchSweepJob, error) {
	return jobs.NewDispatchSweepJob(runner, c.cfg.SweepSchedule, c.cfg.SweepTimeout, c.logger)
}

// Close releases the clients the root created itself, such as the Kafka producer.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errList = append(errList, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errList...)
}

func (c *CompositionRoot) createCandidateSource(ctx context.Context) (ports.CandidateDriverSource, error) {
	switch c.cfg.CandidateSource {
	case CandidateSourceProximity:
		app, err := c.firebase(ctx)
		if err != nil {
			return nil, err
		}
		client, err := app.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase database client: %w", err)
		}
		return firebaseproximity.NewDriverSource(
			firebaseproximity.NewRTDBLocations(client, c.cfg.FirebaseLocationsPath), c.logger)
	default:
		if c.rdb == nil {
			return nil, errors.New("geohash candidate source needs a redis client")
		}
		return redisgeo.NewDriverSource(c.rdb, c.cfg.RedisGeoKey, c.logger)
	}
}

func (c *CompositionRoot) createNotifier(ctx context.Context) (ports.Notifier, error) {
	switch c.cfg.Notifier {
	case NotifierKafka:
		producer, err := kafkanotify.NewSyncProducer(c.cfg.KafkaBrokers, c.cfg.NotifyTimeout)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		notifier, err := kafkanotify.NewNotifier(producer, c.cfg.KafkaOffersTopic, c.logger)
		if err != nil {
			_ = producer.Close()
			return nil, err
		}
		c.closers = append(c.closers, notifier.Close)
		return notifier, nil
	default:
		app, err := c.firebase(ctx)
		if err != nil {
			return nil, err
		}
		client, err := app.Messaging(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase messaging client: %w", err)
		}
		return fcm.NewNotifier(client, c.logger)
	}
}

// createSweepLock returns nil without redis; sweeps then rely on the
// ledger's unique indexes alone.
func (c *CompositionRoot) createSweepLock() (ports.SweepLock, error) {
	if c.rdb == nil {
		return nil, nil
	}
	return redislock.NewSweepLock(c.rdb, c.cfg.SweepLockKey, c.cfg.SweepLockTTL)
}

func (c *CompositionRoot) firebase(ctx context.Context) (*firebase.App, error) {
	if c.firebaseApp != nil {
		return c.firebaseApp, nil
	}
	app, err := firebaseapp.NewApp(ctx, firebaseapp.Config{
		ProjectID:       c.cfg.FirebaseProjectID,
		DatabaseURL:     c.cfg.FirebaseDatabaseURL,
		CredentialsFile: c.cfg.FirebaseCredentialsFile,
	})
	if err != nil {
		return nil, err
	}
	c.firebaseApp = app
	return app, nil
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}
