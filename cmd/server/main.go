package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fundsystem/internal/config"
	"fundsystem/internal/handler"
	"fundsystem/internal/infrastructure/cache"
	"fundsystem/internal/infrastructure/database"
	"fundsystem/internal/infrastructure/mq"
	"fundsystem/internal/job"
	"fundsystem/internal/notifier"
	"fundsystem/internal/repository"
	"fundsystem/internal/service"
	"fundsystem/pkg/idgen"
)

func main() {
	// 加载配置
	cfg := config.LoadConfig("config/config.yaml")

	// 初始化 ID 生成器
	idgen.Init(1)

	// 创建上下文（用于优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 按配置组装存储后端
	fundRepo, txRepo := buildRepositories(cfg)

	// 按配置组装通知器
	n, kafkaProducer := buildNotifier(ctx, cfg)
	if kafkaProducer != nil {
		defer kafkaProducer.Close()
	}

	// 基金业务核心
	fundsService := service.NewFundsService(cfg, fundRepo, txRepo, n)

	// 设置路由
	router := handler.SetupRouter(fundsService, cfg)

	// 启动 HTTP 服务
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Printf("服务启动，监听端口: %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 取消上下文，停止后台任务
	cancel()

	// 关闭 HTTP 服务（等待最多5秒）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("服务关闭异常: %v", err)
	}

	log.Println("服务已关闭")
}

// buildRepositories 按 storage.driver 组装基金目录和交易流水仓储
func buildRepositories(cfg *config.Config) (repository.FundRepository, repository.TransactionRepository) {
	switch cfg.Storage.Driver {
	case "mysql":
		db := database.InitMySQL(&cfg.MySQL)
		database.SeedFunds(db, repository.DefaultFunds())

		var fundRepo repository.FundRepository = repository.NewMySQLFundRepository(db)
		if cfg.Redis.Enabled {
			redisClient := cache.InitRedis(&cfg.Redis)
			ttl := time.Duration(cfg.Redis.TTLSec) * time.Second
			fundRepo = repository.NewCachedFundRepository(fundRepo, redisClient, ttl)
		}
		return fundRepo, repository.NewMySQLTransactionRepository(db)

	case "memory":
		return repository.NewInMemoryFundRepository(repository.DefaultFunds()),
			repository.NewInMemoryTransactionRepository()

	default:
		log.Fatalf("不支持的存储类型: %s", cfg.Storage.Driver)
		return nil, nil
	}
}

// buildNotifier 按 notifier.mode 组装通知器
// outbox 模式依赖 MySQL 存放发件箱，并启动后台投递任务
func buildNotifier(ctx context.Context, cfg *config.Config) (notifier.Notifier, *mq.KafkaProducer) {
	switch cfg.Notifier.Mode {
	case "none":
		return nil, nil

	case "kafka":
		producer := mq.InitKafka(&cfg.Kafka)
		return notifier.NewKafkaNotifier(producer, cfg.Kafka.Topic.Notification), producer

	case "outbox":
		if cfg.Storage.Driver != "mysql" {
			log.Fatalf("notifier.mode=outbox 需要 storage.driver=mysql")
		}
		producer := mq.InitKafka(&cfg.Kafka)

		outboxSender := job.NewOutboxSender(database.DB, producer, cfg)
		go outboxSender.Start(ctx)

		outboxRepo := repository.NewOutboxRepository(database.DB)
		return notifier.NewOutboxNotifier(outboxRepo, cfg.Kafka.Topic.Notification), producer

	default:
		log.Fatalf("不支持的通知方式: %s", cfg.Notifier.Mode)
		return nil, nil
	}
}
