package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"dormbase/internal/auth"
	"dormbase/internal/cache"
	"dormbase/internal/db"
	"dormbase/internal/domain/storage"
	"dormbase/internal/mailer"
	"dormbase/internal/media"
	"dormbase/internal/ratelimiter"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)

	return logger.Sugar(), nil
}

var version = "1.0.0"

//	@title			Dormbase API
//	@description	API for Dormbase, a student housing review platform.

//	@contact.name	API Support
//	@contact.email	support@dormbase.io

//	@BasePath					/
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	secret := os.Getenv("ACCESS_TOKEN_SECRET")
	if secret == "" {
		log.Fatal("ACCESS_TOKEN_SECRET must be set")
	}

	maxConns := 30
	if val := os.Getenv("DB_MAX_CONNS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
		}
		maxConns = parsed
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	cfg := config{
		addr:        addr,
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		adminEmails: auth.ParseAdminEmails(os.Getenv("ADMIN_EMAILS")),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(maxConns),
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		google: googleConfig{
			clientID: os.Getenv("GOOGLE_CLIENT_ID"),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	pool, err := db.New(
		cfg.db.addr,
		cfg.db.maxConns,
		cfg.db.maxIdleTime,
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	store := storage.NewContainer(pool)

	// Stats cache: redis when configured, otherwise in-process.
	var statsCache cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		statsCache = cache.NewRedis(client, "dormbase")
		logger.Infow("redis cache enabled", "addr", redisAddr)
	} else {
		statsCache = cache.NewMemory()
		logger.Info("in-memory cache enabled")
	}

	// Image uploads: cloudinary when configured, otherwise data URLs are
	// stored as-is so local development works without credentials.
	var uploader media.Uploader
	if cloudinaryURL := os.Getenv("CLOUDINARY_URL"); cloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(cloudinaryURL)
		if err != nil {
			logger.Fatal(err)
		}
		uploader = media.NewCloudinaryUploader(cld, "dormbase/reviews")
	} else {
		uploader = media.NewPassthrough()
		logger.Warn("CLOUDINARY_URL not set, storing images inline")
	}

	var mailClient mailer.Client
	if emailUser := os.Getenv("EMAIL_USER"); emailUser != "" {
		emailPort := 587
		if val := os.Getenv("EMAIL_PORT"); val != "" {
			parsed, err := strconv.Atoi(val)
			if err != nil {
				logger.Fatalf("Invalid value for EMAIL_PORT: %v", err)
			}
			emailPort = parsed
		}
		mailClient, err = mailer.NewSMTPClient(
			os.Getenv("EMAIL_HOST"),
			emailPort,
			emailUser,
			os.Getenv("EMAIL_PASS"),
			os.Getenv("EMAIL_FROM"),
		)
		if err != nil {
			logger.Fatal(err)
		}
	} else {
		mailClient = mailer.NewLogClient(logger)
		logger.Warn("EMAIL_USER not set, verification codes will be logged")
	}

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	jwtAuthenticator := auth.NewJWTAuthenticator(secret, "dormbase", "dormbase")

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		cache:         statsCache,
		uploader:      uploader,
		mailer:        mailClient,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	// Metrics collected at /api/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		return store.PoolStat()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
