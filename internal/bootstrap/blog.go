package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"codesearch/internal/app"
	"codesearch/internal/config"
	"codesearch/internal/metrics"
	mysqlClient "codesearch/internal/platform/mysql"
	rabbitmqClient "codesearch/internal/platform/rabbitmq"
	"codesearch/internal/repository"
)

// BlogApp owns the blog server's storage, broker connection and service.
type BlogApp struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	MySQL    *gorm.DB
	MQConn   *amqp.Connection
	Blog     *app.BlogService

	StartedAt time.Time
}

func NewBlogApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*BlogApp, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &BlogApp{
		Config:    cfg,
		Logger:    logger,
		Registry:  newRegistry(),
		StartedAt: time.Now(),
	}
	a.Metrics = metrics.New(a.Registry)

	var repo app.PostRepository
	switch cfg.Blog.Storage {
	case "mysql":
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		a.MySQL = db
		repo = repository.NewPostGormRepository(db)
	case "file":
		fileRepo := repository.NewPostFileRepository(cfg.Blog.PostsPath)
		if err := fileRepo.EnsureFile(); err != nil {
			return nil, err
		}
		repo = fileRepo
	default:
		return nil, fmt.Errorf("unknown blog storage %q", cfg.Blog.Storage)
	}

	var publisher app.PostEventPublisher
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.MQConn = conn
		publisher = rabbitmqClient.NewPostPublisher(conn, cfg.RabbitMQ.Exchange)
	}

	a.Blog = app.NewBlogService(repo, publisher, cfg.Blog.PageSize, a.Metrics, logger.Named("blog"))
	return a, nil
}

func (a *BlogApp) Close() error {
	var closeErr error
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	_ = a.Logger.Sync()
	return closeErr
}
