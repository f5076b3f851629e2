// Package bootstrap wires repositories and services from configuration.
// Both the HTTP server and the CLI build their dependencies through it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myMarketplace/business/address"
	"myMarketplace/business/cart"
	"myMarketplace/business/category"
	"myMarketplace/business/delivery"
	"myMarketplace/business/orders"
	"myMarketplace/business/product"
	"myMarketplace/business/seller"
	"myMarketplace/business/user"
	"myMarketplace/business/wishlist"
	"myMarketplace/domain"
	"myMarketplace/internal/repository/elasticsearch"
	"myMarketplace/internal/repository/kafka"
	"myMarketplace/internal/repository/notification"
	psqlRepo "myMarketplace/internal/repository/postgres"
	redisRepo "myMarketplace/internal/repository/redis"
	"myMarketplace/internal/rest"
	"myMarketplace/pkg/config"
	"myMarketplace/pkg/database"
	redisdb "myMarketplace/pkg/database/redis"
	"myMarketplace/pkg/logger"
	"myMarketplace/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type UserService interface {
	rest.UserService
	IssueAdminToken(ctx context.Context, subject string) (string, time.Time, error)
}

type ProductService interface {
	rest.ProductService
	Reindex(ctx context.Context) (int, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
	Close() error
}

type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Validator *validator.Validate
	JWT       *utils.JWTManager
	Tokens    *redisRepo.TokenRepository

	Users      UserService
	Categories rest.CategoryService
	Products   ProductService
	Carts      rest.CartService
	Wishlist   rest.WishlistService
	Addresses  rest.AddressService
	Orders     *orders.OrdersService
	Delivery   *delivery.DeliveryService
	Analytics  rest.AnalyticsService

	publisher eventPublisher
}

// New connects to postgres and redis and builds every service. Mailjet,
// Kafka and Elasticsearch are optional and fall back to no-op
// implementations when not configured.
func New(cfg *config.Config) (*App, error) {
	db, err := database.InitPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		_ = database.ClosePostgres(db)
		return nil, err
	}
	logger.Info("Redis connected successfully")

	app := &App{
		Config:    cfg,
		DB:        db,
		Redis:     redisClient,
		Validator: utils.NewValidator(),
		JWT:       utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.TTL),
		Tokens:    redisRepo.NewTokenRepository(redisClient),
	}

	if err := app.wire(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

func newNotifier(cfg config.MailjetConfig) user.NotificationRepository {
	if cfg.MailjetBaseUrl == "" {
		logger.Warn("mailjet not configured, emails disabled")
		return notification.NoopRepository{}
	}

	return notification.NewMailjetRepository(notification.MailjetConfig{
		MailjetBaseURL:           cfg.MailjetBaseUrl,
		MailjetBasicAuthUsername: cfg.MailjetBasicAuthUsername,
		MailjetBasicAuthPassword: cfg.MailjetBasicAuthPassword,
		MailjetSenderEmail:       cfg.MailjetSenderEmail,
		MailjetSenderName:        cfg.MailjetSenderName,
	})
}

func newPublisher(cfg config.KafkaConfig) eventPublisher {
	if len(cfg.Brokers) == 0 {
		logger.Warn("kafka not configured, order events disabled")
		return kafka.NoopPublisher{}
	}

	logger.Info("publishing order events", "brokers", cfg.Brokers, "topic", cfg.OrderTopic)
	return kafka.NewOrderEventPublisher(cfg.Brokers, cfg.OrderTopic)
}

// newSearchIndex returns an untyped nil when search is not available so the
// product service falls back to the database.
func newSearchIndex(cfg config.ElasticsearchConfig) product.SearchIndex {
	if cfg.URL == "" {
		logger.Warn("elasticsearch not configured, using database search")
		return nil
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		logger.Error("elasticsearch unavailable, using database search", "error", err)
		return nil
	}

	index := elasticsearch.NewProductIndex(client, cfg.ProductIndex)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := index.EnsureIndex(ctx); err != nil {
		logger.Error("failed to prepare product index, using database search", "error", err)
		return nil
	}

	return index
}

func (a *App) wire() error {
	cfg := a.Config
	db := a.DB

	notifier := newNotifier(cfg.Mailjet)
	a.publisher = newPublisher(cfg.Kafka)

	buyerRepo := psqlRepo.NewBuyerRepository(db)
	accounts := map[domain.Role]user.AccountRepository{
		domain.RoleBuyer:         buyerRepo,
		domain.RoleSeller:        psqlRepo.NewSellerRepository(db),
		domain.RoleDeliveryAgent: psqlRepo.NewDeliveryAgentRepository(db),
	}
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	cartRepo := psqlRepo.NewCartRepository(db)
	wishlistRepo := psqlRepo.NewWishlistRepository(db)
	addressRepo := psqlRepo.NewAddressRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	deliveryRepo := psqlRepo.NewDeliveryRepository(db)
	tx := psqlRepo.NewTransactor(db)

	a.Users = user.NewUserService(accounts, a.Tokens, notifier, a.JWT, a.Validator)
	a.Categories = category.NewCategoryService(categoryRepo)
	a.Products = product.NewProductService(productRepo, categoryRepo, newSearchIndex(cfg.Elasticsearch), a.Validator)

	cartService := cart.NewCartService(cartRepo, productRepo)
	a.Carts = cartService
	a.Wishlist = wishlist.NewWishlistService(wishlistRepo, productRepo, cartService, tx)
	a.Addresses = address.NewAddressService(addressRepo, tx, a.Validator)

	a.Orders = orders.NewOrdersService(orders.Deps{
		Orders:    ordersRepo,
		Carts:     cartRepo,
		Addresses: addressRepo,
		Products:  productRepo,
		Ledger:    deliveryRepo,
		Buyers:    buyerRepo,
		Publisher: a.publisher,
		Notifier:  notifier,
		Tx:        tx,
	}, cfg.Checkout)

	deliveryService, err := delivery.NewDeliveryService(delivery.Deps{
		Orders:      ordersRepo,
		Agents:      deliveryRepo,
		Transitions: a.Orders,
		Publisher:   a.publisher,
		Notifier:    notifier,
	}, cfg.Delivery)
	if err != nil {
		return err
	}
	a.Delivery = deliveryService

	a.Analytics = seller.NewAnalyticsService(ordersRepo, productRepo, cfg.Analytics.LowStockThreshold)

	return nil
}

// Close releases every connection the app opened.
func (a *App) Close() {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	errs = append(errs, redisdb.CloseRedisClient(a.Redis))
	errs = append(errs, database.ClosePostgres(a.DB))

	if err := errors.Join(errs...); err != nil {
		logger.Warn("failed to close resources", "error", err)
	}
}
