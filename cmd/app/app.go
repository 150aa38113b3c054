package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/config"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/db"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/logger"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/clock"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/eventbus"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/kafka"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/mq"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/queue"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository/dao"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/service"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		return fmt.Errorf("failed to set log level -> %w", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	err = config.Watch(configPath, func(c *config.AppConfig) {
		if err := logger.SetLevel(c.API.LogLevel); err != nil {
			zap.L().Warn("config reload: invalid log level", zap.String("level", c.API.LogLevel), zap.Error(err))
			return
		}
		zap.L().Info("config reloaded", zap.String("log_level", c.API.LogLevel))
	})
	if err != nil {
		zap.L().Warn("config watcher not started", zap.Error(err))
	}

	clk, err := clock.New(conf.Raffle.Timezone)
	if err != nil {
		return fmt.Errorf("failed to initialize clock -> %w", err)
	}

	gormDB, err := db.Open(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	defer redisClient.Close()

	tasks := queue.NewRedisQueue(
		redisClient,
		queue.RedisQueueConfig{
			Prefix:       conf.Queue.Prefix,
			PollInterval: conf.Queue.PollInterval,
		},
		queue.NewRetryManager(conf.Queue.MaxAttempts, conf.Queue.Backoff),
		queue.NewRedisDLQ(redisClient, conf.Queue.DLQKey),
	)
	defer tasks.Close()

	guests := repository.NewGuestRepository(dao.NewGuestDAO(gormDB))
	worker := service.NewNotificationWorker(service.LogMailer{}, guests)
	if err = tasks.Subscribe(ctx, worker.Handle); err != nil {
		return fmt.Errorf("failed to start notification worker -> %w", err)
	}

	bus := eventbus.New(0)
	s := api.NewServer(conf, api.Deps{
		DB:    gormDB,
		Bus:   bus,
		Tasks: tasks,
		Clock: clk,
	})

	bus.Subscribe(domain.TopicAuditRecorded, s.Audit.Store)
	bus.Subscribe(eventbus.AllTopics, s.Live.Forward)

	if conf.Kafka.Brokers != "" {
		exporter := kafka.NewAuditExporter(conf.Kafka.Brokers, conf.Kafka.AuditTopic)
		defer exporter.Close()
		bus.Subscribe(domain.TopicAuditRecorded, service.ExportTo(exporter))
	}

	if conf.RabbitMQ.URL != "" {
		publisher, err := mq.NewPublisher(conf.RabbitMQ.URL, conf.RabbitMQ.Exchange)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq -> %w", err)
		}
		defer publisher.Close()
		mq.Forward(bus, publisher, domain.TopicWinnerDrawn, domain.TopicDrawCancelled, domain.TopicRaffleReset, domain.TopicAttendanceRecorded)
	}

	go bus.Run(ctx)
	go s.Live.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + conf.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}
