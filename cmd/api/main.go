package main

import (
	"log/slog"
	"os"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/notification"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	// .envは無くてもよい（コンテナでは環境変数直渡し）
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Error("db connect failed", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Collection{},
		&model.Product{},
		&model.ProductImage{},
		&model.Promotion{},
		&model.Review{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	productImageRepo := infraRepo.NewProductImageGormRepository(gormDB)
	collectionRepo := infraRepo.NewCollectionGormRepository(gormDB)
	promotionRepo := infraRepo.NewPromotionGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//注文イベント通知。Kafkaが無い環境ではログに落とすだけ。
	var notifier notification.Sender
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSender := notification.NewKafkaSender(cfg.KafkaBrokers, cfg.OrderEventsTopic)
		defer kafkaSender.Close()
		notifier = kafkaSender
	} else {
		notifier = notification.NewLogSender(logger)
	}

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, productImageRepo)
	collectionUC := usecase.NewCollectionUsecase(collectionRepo)
	promotionUC := usecase.NewPromotionUsecase(promotionRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, notifier, logger)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)
	customerUC := usecase.NewCustomerUsecase(customerRepo)
	authUC := usecase.NewAuthUsecase(cfg, txManager, userRepo, validator.NewAuthValidator(userRepo))

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Collection:   handler.NewCollectionHandler(collectionUC),
		Promotion:    handler.NewPromotionHandler(promotionUC),
		Review:       handler.NewReviewHandler(reviewUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		Customer:     handler.NewCustomerHandler(customerUC),
	}

	e := server.New(cfg, handlers)

	addr := ":" + cfg.Port
	logger.Info("server starting", "addr", addr)
	if err := server.Start(e, addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
