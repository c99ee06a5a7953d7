package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	authapi "github.com/pitchside/backend/api/echo"
	"github.com/pitchside/backend/config"
	"github.com/pitchside/backend/internal/auth"
	"github.com/pitchside/backend/middleware"
	"github.com/pitchside/backend/mongodb"
	"github.com/pitchside/backend/revocation"
	"github.com/pitchside/backend/services"
	"github.com/pitchside/backend/token"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogger(cfg)
	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("mongo_db", cfg.MongoDBName).
		Str("redis_addr", cfg.RedisAddr).
		Msg("starting pitchside auth server")

	ctx := context.Background()

	// --- Infrastructure ---
	if err := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize MongoDB connection")
	}
	defer func() {
		if err := mongodb.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect error")
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()

	// --- Core components ---
	codec, err := token.NewCodec([]byte(cfg.JWTSecretKey), cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token codec")
	}

	revocations := revocation.NewRedisStore(redisClient, "pitchside")
	defer revocations.Close()

	userRepo, err := mongodb.NewUserRepository(ctx, mongodb.GetDB())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize user repository")
	}

	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	authService := services.NewAuthService(userRepo, codec, revocations, hasher)
	gatekeeper := middleware.NewGatekeeper(codec, revocations)

	api := authapi.NewAuthAPI(authService, userRepo, gatekeeper,
		cfg.CookieSecure, int(cfg.RefreshTokenTTL().Seconds()))

	// --- HTTP server ---
	e := newEchoServer()
	api.RegisterRoutes(e)

	go func() {
		if err := e.Start(":" + cfg.HTTPPort); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
}

func setupLogger(cfg *config.ServerConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
		log.Warn().Str("configured_log_level", cfg.LogLevel).Msg("invalid LOG_LEVEL, defaulting to info")
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func newEchoServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e
}
