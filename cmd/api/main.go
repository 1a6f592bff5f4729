package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/api"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/cache"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/config"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/events"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/presence"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/repository"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/service"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/storage"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/utils"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.App.Env != "production")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := repository.NewMongoClient(cfg)
	if err != nil {
		logger.Fatalw("connect mongo", "err", err)
	}
	db := client.Database(cfg.Mongo.Database)

	rdb, err := cache.NewRedis(cfg)
	if err != nil {
		logger.Fatalw("connect redis", "err", err)
	}
	defer rdb.Close()

	var store storage.ObjectStore
	if cfg.S3.Bucket != "" {
		s3store, err := storage.NewS3Store(context.Background(), cfg.S3.Region, cfg.S3.Bucket, cfg.S3.PublicRead)
		if err != nil {
			logger.Fatalw("init s3", "err", err)
		}
		store = s3store
	} else {
		logger.Warn("s3 bucket not configured, asset URLs will be empty")
		store = noopStore{}
	}

	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg)
		defer kp.Close()
		publisher = kp
	}

	reg := presence.NewRegistry()
	hub := ws.NewHub(logger)
	wsServer := ws.NewServer(hub, reg, rdb, logger)

	channelRepo := repository.NewMongoChannelRepository(db)
	messageRepo := repository.NewMongoMessageRepository(db)
	groupRepo := repository.NewMongoGroupRepository(db)
	groupMessageRepo := repository.NewMongoGroupMessageRepository(db)
	replyRepo := repository.NewMongoReplyRepository(db)
	reactionRepo := repository.NewMongoReactionRepository(db, repository.CollReactions)
	groupReactionRepo := repository.NewMongoReactionRepository(db, repository.CollGroupReactions)
	purchaseRepo := repository.NewMongoPurchaseRepository(db)
	assetRepo := repository.NewMongoAssetRepository(db)
	userRepo := repository.NewMongoUserRepository(db)

	rateWindow := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second

	channelSvc := service.NewChannelService(channelRepo, reg, logger)
	messageSvc := service.NewMessageService(service.MessageServiceDeps{
		Channels:   channelRepo,
		Messages:   messageRepo,
		Replies:    replyRepo,
		Reactions:  reactionRepo,
		Purchases:  purchaseRepo,
		Assets:     assetRepo,
		Users:      userRepo,
		URLs:       store,
		Push:       hub,
		Events:     publisher,
		Presence:   reg,
		Limiter:    rdb,
		RateLimit:  cfg.RateLimit.MessagesPerWindow,
		RateWindow: rateWindow,
		Log:        logger,
	})
	groupSvc := service.NewGroupService(groupRepo, logger)
	assetSvc := service.NewAssetService(assetRepo, store, logger)
	groupMessageSvc := service.NewGroupMessageService(service.GroupMessageServiceDeps{
		Groups:     groupRepo,
		Messages:   groupMessageRepo,
		Replies:    replyRepo,
		Reactions:  groupReactionRepo,
		Push:       hub,
		Events:     publisher,
		Presence:   reg,
		Limiter:    rdb,
		RateLimit:  cfg.RateLimit.MessagesPerWindow,
		RateWindow: rateWindow,
		Log:        logger,
	})

	app := api.NewServer(api.Deps{
		Cfg:           cfg,
		Channels:      channelSvc,
		Messages:      messageSvc,
		Groups:        groupSvc,
		GroupMessages: groupMessageSvc,
		Assets:        assetSvc,
		WS:            wsServer,
		Log:           logger,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		if err := app.Listen(addr); err != nil {
			logger.Fatalw("serve", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Errorw("shutdown", "err", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Errorw("disconnect mongo", "err", err)
	}
}

// noopStore stands in when no bucket is configured (local development).
type noopStore struct{}

func (noopStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return "", nil
}
func (noopStore) Delete(ctx context.Context, key string) error { return nil }
func (noopStore) URL(key string) string                        { return "" }
