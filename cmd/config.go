package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	CandidateSourceGeohash   = "geohash"
	CandidateSourceProximity = "proximity"

	NotifierFCM   = "fcm"
	NotifierKafka = "kafka"
)

type Config struct {
	HTTPPort int
	LogLevel string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisGeoKey   string
	SweepLockKey  string
	SweepLockTTL  time.Duration

	CandidateSource string
	Notifier        string

	KafkaBrokers     []string
	KafkaOffersTopic string

	FirebaseProjectID       string
	FirebaseDatabaseURL     string
	FirebaseCredentialsFile string
	FirebaseLocationsPath   string

	SweepSchedule  string
	SweepTimeout   time.Duration
	SweepWorkers   int
	LocatorTimeout time.Duration
	NotifyTimeout  time.Duration

	// Dispatch* are the fallbacks for settings missing from the settings table.
	DispatchReadyStatus             string
	DispatchMaxDriverOrders         int
	DispatchSearchRadiusKm          float64
	DispatchMaxDriversNotified      int
	DispatchAlertDuration           time.Duration
	DispatchExcludedVendorTypes     []string
	DispatchBatchSize               int
	DispatchDropoffRegionFromPickup bool
}

func defaultConfig() Config {
	return Config{
		HTTPPort:                        8080,
		LogLevel:                        "info",
		DBHost:                          "localhost",
		DBPort:                          5432,
		DBUser:                          "postgres",
		DBName:                          "dispatch",
		DBSslMode:                       "disable",
		RedisAddr:                       "localhost:6379",
		RedisGeoKey:                     "dispatch:drivers",
		SweepLockKey:                    "dispatch:sweep:lock",
		SweepLockTTL:                    time.Minute,
		CandidateSource:                 CandidateSourceGeohash,
		Notifier:                        NotifierFCM,
		KafkaOffersTopic:                "dispatch.order-offers",
		FirebaseLocationsPath:           "driver_locations",
		SweepSchedule:                   "*/10 * * * * *",
		SweepTimeout:                    50 * time.Second,
		SweepWorkers:                    1,
		LocatorTimeout:                  5 * time.Second,
		NotifyTimeout:                   5 * time.Second,
		DispatchReadyStatus:             "ready",
		DispatchMaxDriverOrders:         1,
		DispatchSearchRadiusKm:          5,
		DispatchMaxDriversNotified:      5,
		DispatchAlertDuration:           30 * time.Second,
		DispatchExcludedVendorTypes:     []string{"booking", "service"},
		DispatchBatchSize:               20,
		DispatchDropoffRegionFromPickup: true,
	}
}

// LoadConfig reads configuration in order: .env (if present), environment,
// then command line flags registered on fs.
func LoadConfig(fs *pflag.FlagSet, args []string, logger *slog.Logger) (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn(".env not loaded", "error", err)
	}

	cfg := defaultConfig()
	env := envReader{}
	env.int("HTTP_PORT", &cfg.HTTPPort)
	env.string("LOG_LEVEL", &cfg.LogLevel)
	env.string("DB_HOST", &cfg.DBHost)
	env.int("DB_PORT", &cfg.DBPort)
	env.string("DB_USER", &cfg.DBUser)
	env.string("DB_PASSWORD", &cfg.DBPassword)
	env.string("DB_NAME", &cfg.DBName)
	env.string("DB_SSLMODE", &cfg.DBSslMode)
	env.string("REDIS_ADDR", &cfg.RedisAddr)
	env.string("REDIS_PASSWORD", &cfg.RedisPassword)
	env.int("REDIS_DB", &cfg.RedisDB)
	env.string("REDIS_GEO_KEY", &cfg.RedisGeoKey)
	env.string("SWEEP_LOCK_KEY", &cfg.SweepLockKey)
	env.duration("SWEEP_LOCK_TTL", &cfg.SweepLockTTL)
	env.string("CANDIDATE_SOURCE", &cfg.CandidateSource)
	env.string("NOTIFIER", &cfg.Notifier)
	env.list("KAFKA_BROKERS", &cfg.KafkaBrokers)
	env.string("KAFKA_OFFERS_TOPIC", &cfg.KafkaOffersTopic)
	env.string("FIREBASE_PROJECT_ID", &cfg.FirebaseProjectID)
	env.string("FIREBASE_DATABASE_URL", &cfg.FirebaseDatabaseURL)
	env.string("FIREBASE_CREDENTIALS_FILE", &cfg.FirebaseCredentialsFile)
	env.string("FIREBASE_LOCATIONS_PATH", &cfg.FirebaseLocationsPath)
	env.string("SWEEP_SCHEDULE", &cfg.SweepSchedule)
	env.duration("SWEEP_TIMEOUT", &cfg.SweepTimeout)
	env.int("SWEEP_WORKERS", &cfg.SweepWorkers)
	env.duration("LOCATOR_TIMEOUT", &cfg.LocatorTimeout)
	env.duration("NOTIFY_TIMEOUT", &cfg.NotifyTimeout)
	env.string("DISPATCH_READY_STATUS", &cfg.DispatchReadyStatus)
	env.int("DISPATCH_MAX_DRIVER_ORDERS", &cfg.DispatchMaxDriverOrders)
	env.float("DISPATCH_SEARCH_RADIUS_KM", &cfg.DispatchSearchRadiusKm)
	env.int("DISPATCH_MAX_DRIVERS_NOTIFIED", &cfg.DispatchMaxDriversNotified)
	env.duration("DISPATCH_ALERT_DURATION", &cfg.DispatchAlertDuration)
	env.list("DISPATCH_EXCLUDED_VENDOR_TYPES", &cfg.DispatchExcludedVendorTypes)
	env.int("DISPATCH_BATCH_SIZE", &cfg.DispatchBatchSize)
	env.bool("DISPATCH_DROPOFF_REGION_FROM_PICKUP", &cfg.DispatchDropoffRegionFromPickup)
	if err := errors.Join(env.errList...); err != nil {
		return Config{}, err
	}

	fs.IntVarP(&cfg.HTTPPort, "port", "p", cfg.HTTPPort, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.CandidateSource, "candidate-source", cfg.CandidateSource, "geohash or proximity")
	fs.StringVar(&cfg.Notifier, "notifier", cfg.Notifier, "fcm or kafka")
	fs.StringVar(&cfg.SweepSchedule, "sweep-schedule", cfg.SweepSchedule, "cron expression with a seconds field")
	fs.DurationVar(&cfg.SweepTimeout, "sweep-timeout", cfg.SweepTimeout, "upper bound for one sweep")
	fs.IntVar(&cfg.SweepWorkers, "sweep-workers", cfg.SweepWorkers, "orders processed concurrently")
	fs.StringSliceVar(&cfg.KafkaBrokers, "kafka-brokers", cfg.KafkaBrokers, "kafka bootstrap brokers")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errList []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("http port", c.HTTPPort, 1, 65535))
	}
	if c.DBHost == "" {
		errList = append(errList, errs.NewValueIsRequiredError("DB_HOST"))
	}
	if c.DBName == "" {
		errList = append(errList, errs.NewValueIsRequiredError("DB_NAME"))
	}
	if c.RedisAddr == "" {
		errList = append(errList, errs.NewValueIsRequiredError("REDIS_ADDR"))
	}
	switch c.CandidateSource {
	case CandidateSourceGeohash:
	case CandidateSourceProximity:
		if c.FirebaseDatabaseURL == "" {
			errList = append(errList, errs.NewValueIsRequiredError("FIREBASE_DATABASE_URL"))
		}
	default:
		errList = append(errList, errs.NewValueIsInvalidError("candidate source "+strconv.Quote(c.CandidateSource)))
	}
	switch c.Notifier {
	case NotifierFCM:
	case NotifierKafka:
		if len(c.KafkaBrokers) == 0 {
			errList = append(errList, errs.NewValueIsRequiredError("KAFKA_BROKERS"))
		}
		if c.KafkaOffersTopic == "" {
			errList = append(errList, errs.NewValueIsRequiredError("KAFKA_OFFERS_TOPIC"))
		}
	default:
		errList = append(errList, errs.NewValueIsInvalidError("notifier "+strconv.Quote(c.Notifier)))
	}
	if c.SweepWorkers < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("sweep workers", c.SweepWorkers, 1, "unbounded"))
	}
	if c.SweepLockTTL <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("sweep lock ttl", c.SweepLockTTL, "0 (exclusive)", "unbounded"))
	} else if c.SweepTimeout <= 0 || c.SweepTimeout >= c.SweepLockTTL {
		// The lock must outlive the sweep it guards, or a second replica can start mid-sweep.
		errList = append(errList, errs.NewValueIsOutOfRangeError("sweep timeout", c.SweepTimeout, "0 (exclusive)", c.SweepLockTTL.String()+" (exclusive)"))
	}
	if err := c.DispatchDefaults().Validate(); err != nil {
		errList = append(errList, fmt.Errorf("dispatch defaults: %w", err))
	}
	return errors.Join(errList...)
}

// DSN is the libpq connection string for gorm's postgres driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// DatabaseURLRedacted is safe to log.
func (c Config) DatabaseURLRedacted() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.User(c.DBUser),
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   c.DBName,
	}
	return u.String()
}

func (c Config) DispatchDefaults() ports.DispatchSettings {
	return ports.DispatchSettings{
		ReadyStatus:             c.DispatchReadyStatus,
		MaxOrdersPerDriver:      c.DispatchMaxDriverOrders,
		SearchRadiusKm:          c.DispatchSearchRadiusKm,
		MaxDriversNotified:      c.DispatchMaxDriversNotified,
		AlertDuration:           c.DispatchAlertDuration,
		ExcludedVendorTypes:     append([]string(nil), c.DispatchExcludedVendorTypes...),
		BatchSize:               c.DispatchBatchSize,
		DropoffRegionFromPickup: c.DispatchDropoffRegionFromPickup,
	}
}

func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// envReader overlays set environment variables and collects parse errors.
type envReader struct {
	errList []error
}

func (r *envReader) string(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func (r *envReader) int(key string, dst *int) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errList = append(r.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return
	}
	*dst = n
}

func (r *envReader) float(key string, dst *float64) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errList = append(r.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return
	}
	*dst = f
}

func (r *envReader) bool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errList = append(r.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return
	}
	*dst = b
}

// duration accepts Go durations ("30s") and bare seconds ("30").
func (r *envReader) duration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errList = append(r.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return
	}
	*dst = d
}

func (r *envReader) list(key string, dst *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
