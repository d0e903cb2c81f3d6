package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"realtime_chat_service/internal/api/handlers"
	"realtime_chat_service/internal/api/router"
	chatapp "realtime_chat_service/internal/chat/app"
	chatrepo "realtime_chat_service/internal/chat/repository"
	memberapp "realtime_chat_service/internal/member/app"
	memberdomain "realtime_chat_service/internal/member/domain"
	memberrepo "realtime_chat_service/internal/member/repository"
	"realtime_chat_service/pkg/config"
	"realtime_chat_service/pkg/database"
	"realtime_chat_service/pkg/logger"
)

// @title           Realtime Chat Service API
// @version         1.0
// @description     Websocket chat hub with rooms, reactions and private messages.
// @BasePath        /
func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	defer logger.Log.Sync()

	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)
	if cfg.Port == "" {
		cfg.Port = config.EnvConfig.ChatServicePort
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	// optional kafka firehose
	var archiver chatrepo.MessageArchiver
	if len(cfg.Kafka.Brokers) > 0 {
		writer, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal("kafka connect failed", zap.Error(err))
		}
		defer writer.Close()
		archiver = chatrepo.NewKafkaMessageArchiver(writer)
	}

	history := chatrepo.NewHistoryStore()
	hub := chatapp.NewHub(history, archiver)

	// uploads go to minio when enabled, local disk otherwise
	var files chatrepo.FileStore
	localUploads := true
	if cfg.MinIO.Enable {
		mc, err := database.NewMinIOConnection(database.MinIOConnection{
			Endpoint:      cfg.MinIO.Endpoint,
			User:          cfg.MinIO.User,
			Password:      cfg.MinIO.Password,
			BucketName:    cfg.MinIO.Bucket,
			UseSSL:        cfg.MinIO.UseSSL,
			RetryCount:    cfg.MinIO.RetryCount,
			RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal("minio connect failed", zap.Error(err))
		}
		files = chatrepo.NewMinIOFileStore(mc)
		localUploads = false
	} else {
		local, err := chatrepo.NewLocalFileStore(cfg.UploadDir)
		if err != nil {
			logger.Log.Fatal("upload directory init failed", zap.Error(err))
		}
		files = local
	}

	// sessions live in redis sentinel when enabled, in process memory otherwise
	var sessionRepo database.RedisRepository[memberdomain.MemberSession]
	if cfg.Redis.Enable {
		masterName, sentinelAddrs := config.GetRedisSetting()
		repo, err := database.NewRedisRepository[memberdomain.MemberSession](masterName, sentinelAddrs, cfg.Redis.RedisDB)
		if err != nil {
			logger.Log.Fatal("redis connect failed", zap.Error(err))
		}
		sessionRepo = repo
	} else {
		sessionRepo = memberrepo.NewMemorySessionRepository()
	}

	// strict mode checks credentials against postgres; open mode accepts any pair
	var verifier memberapp.CredentialVerifier = memberapp.OpenVerifier{}
	var memberRepo memberrepo.MemberRepository
	if cfg.AuthMode == "strict" {
		pool, err := database.NewDatabaseConnection(database.Connection{
			ConnectStr: fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
				cfg.PostgreSQL.User, cfg.PostgreSQL.Password,
				cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database),
			RetryCount:    cfg.PostgreSQL.RetryCount,
			RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal("postgres connect failed", zap.Error(err))
		}
		defer pool.Close()
		memberRepo = memberrepo.NewMemberRepository(pool)
		verifier = memberapp.NewRepoVerifier(memberRepo)
	}

	memberUC := memberapp.NewMemberUseCase(verifier, memberRepo, cfg.SessionTTL, sessionRepo)

	authHandler := handlers.NewAuthHandler(memberUC)
	chatHandler := handlers.NewChatHandler(hub, files)
	wsHandler := chatapp.NewChatWebsocketHandler(hub)

	app := fiber.New()

	accessLog, err := os.OpenFile(
		config.EnvConfig.ChatServiceLogPath+"/access.log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644,
	)
	if err == nil {
		defer accessLog.Close()
		app.Use(fiber_log.New(fiber_log.Config{Output: accessLog}))
	} else {
		app.Use(fiber_log.New())
	}

	if localUploads {
		app.Static("/uploads", cfg.UploadDir)
	}

	router.RegisterRoutes(app, authHandler, chatHandler, wsHandler)

	logger.Log.Info("chat service listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
