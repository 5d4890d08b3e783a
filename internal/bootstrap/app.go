package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"learningpal/internal/app"
	"learningpal/internal/cache"
	"learningpal/internal/config"
	"learningpal/internal/learning"
	"learningpal/internal/llm"
	"learningpal/internal/platform/database"
	"learningpal/internal/platform/logger"
	rabbitmqClient "learningpal/internal/platform/rabbitmq"
	redisClient "learningpal/internal/platform/redis"
	"learningpal/internal/platform/tracing"
	"learningpal/internal/repository"
	"learningpal/internal/worker"
)

// App holds every long-lived dependency of the server. Redis and MQConn are
// nil when the matching feature is disabled.
type App struct {
	Config *config.Config
	Log    *logger.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	AuthService     *app.AuthService
	LearningService *app.LearningService

	EventWorker    *worker.GenerationEventWorker
	eventPublisher *rabbitmqClient.GenerationEventPublisher
	shutdownTracer func(context.Context) error

	StartedAt time.Time
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log, StartedAt: time.Now()}
	if err := a.init(ctx); err != nil {
		if closeErr := a.Close(ctx); closeErr != nil {
			log.Warn("release partially initialized resources failed", "error", closeErr)
		}
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	shutdown, err := tracing.Setup(ctx, tracing.Options{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
		Exporter:    cfg.Tracing.Exporter,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, a.Log)
	if err != nil {
		return err
	}
	a.shutdownTracer = shutdown

	db, err := database.New(ctx, database.Options{
		Driver: cfg.Database.Driver,
		DSN:    cfg.DSN(),
		Quiet:  cfg.IsProduction(),
	})
	if err != nil {
		return err
	}
	a.DB = db
	if err := repository.AutoMigrate(db); err != nil {
		return err
	}

	if cfg.Redis.Enabled {
		a.Redis, err = redisClient.New(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
	}

	if cfg.RabbitMQ.Enabled {
		a.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
	}

	provider, err := llm.NewProvider(ctx, llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	}, a.Log)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewLearningSessionRepository(db)
	eventRepo := repository.NewGenerationEventRepository(db)

	a.AuthService = app.NewAuthService(
		userRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
	)
	if cfg.Auth.MFAEnabled {
		if a.Redis == nil {
			return errors.New("auth.mfa_enabled requires redis.enabled")
		}
		a.AuthService.EnableMFA(
			cache.NewOTPStore(a.Redis, time.Duration(cfg.Auth.MFACodeTTLSeconds)*time.Second),
			app.LogCodeSender{Log: a.Log.Named("mfa"), Reveal: !cfg.IsProduction()},
			time.Duration(cfg.Auth.MFATokenExpireMinute)*time.Minute,
		)
	}

	normalizer := learning.NewNormalizer(learning.WithMaxRepairClosers(cfg.Normalizer.MaxRepairClosers))
	a.LearningService = app.NewLearningService(sessionRepo, provider, normalizer, app.LearningOptions{
		MaxTokens:        cfg.LLM.MaxTokens,
		Temperature:      cfg.LLM.Temperature,
		StructuredOutput: cfg.LLM.StructuredOutput,
		MaxSourceChars:   cfg.LLM.MaxSourceChars,
		ModelTimeout:     cfg.LLMTimeout(),
		StoreTimeout:     cfg.DBOpTimeout(),
	}, a.Log)
	if a.Redis != nil {
		a.LearningService.WithCache(cache.NewSessionCache(a.Redis, time.Duration(cfg.Redis.SessionTTLSeconds)*time.Second))
	}

	if a.MQConn != nil {
		a.eventPublisher = rabbitmqClient.NewGenerationEventPublisher(a.MQConn, cfg.RabbitMQ.GenerationEventQueue)
		a.LearningService.WithEvents(a.eventPublisher)
		a.EventWorker = worker.NewGenerationEventWorker(a.MQConn, eventRepo, cfg.RabbitMQ.GenerationEventQueue, a.Log)
		if err := a.EventWorker.Start(ctx); err != nil {
			return fmt.Errorf("start generation event worker failed: %w", err)
		}
	} else {
		a.LearningService.WithEvents(worker.NewInlineRecorder(eventRepo, cfg.DBOpTimeout()))
	}

	a.Log.Info("application initialized",
		"db_driver", cfg.Database.Driver,
		"llm_provider", provider.Name(),
		"llm_model", provider.ModelID(),
		"redis", a.Redis != nil,
		"rabbitmq", a.MQConn != nil,
		"mfa", a.AuthService.MFAEnabled(),
	)
	return nil
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.EventWorker != nil {
		a.EventWorker.Close()
	}
	if a.eventPublisher != nil {
		a.eventPublisher.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			errs = append(errs, err)
		}
	}
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
