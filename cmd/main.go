package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Kabir4874/AnondoShop-Backend/internal/courier"
	"github.com/Kabir4874/AnondoShop-Backend/internal/events"
	"github.com/Kabir4874/AnondoShop-Backend/internal/handler"
	"github.com/Kabir4874/AnondoShop-Backend/internal/payment"
	"github.com/Kabir4874/AnondoShop-Backend/internal/pricing"
	"github.com/Kabir4874/AnondoShop-Backend/internal/repository"
	"github.com/Kabir4874/AnondoShop-Backend/internal/service"
	"github.com/Kabir4874/AnondoShop-Backend/pkg/config"
	"github.com/Kabir4874/AnondoShop-Backend/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Info("Service configuration",
		zap.String("port", cfg.Port),
		zap.String("kafka_brokers", cfg.KafkaBrokers),
		zap.String("table", cfg.TableName))

	// Record store
	dynamoClient, err := repository.NewDynamoDBClient(cfg)
	if err != nil {
		log.Fatal("Failed to create DynamoDB client:", err)
	}
	orderRepo := repository.NewOrderRepository(dynamoClient, cfg.TableName)
	userRepo := repository.NewUserRepository(dynamoClient, cfg.TableName)
	productRepo := repository.NewProductRepository(dynamoClient, cfg.TableName)

	// Event producers
	orderProducer := events.NewOrderProducer(cfg.KafkaBrokers, logger)
	defer orderProducer.Close()
	compProducer := events.NewCompensationProducer(cfg.KafkaBrokers, logger)
	defer compProducer.Close()

	// Domain services
	pricer := pricing.NewEngine(productRepo, pricing.DefaultFeeTable())
	orderService := service.NewOrderService(orderRepo, userRepo, pricer, orderProducer, compProducer, logger)
	userService := service.NewUserService(userRepo, logger)
	tracker := service.NewTrackingProjector(nil)

	// Provider clients
	sslClient := payment.NewSSLCommerzClient(cfg.SSLCzStoreID, cfg.SSLCzPassword, cfg.SSLCzBaseURL, logger)
	bkashClient := payment.NewBkashClient(payment.BkashConfig{
		BaseURL:   cfg.BkashBaseURL,
		Username:  cfg.BkashUsername,
		Password:  cfg.BkashPassword,
		AppKey:    cfg.BkashAppKey,
		AppSecret: cfg.BkashAppSecret,
	}, logger)
	courierClient := courier.NewClient(cfg.CourierBaseURL, cfg.CourierAPIToken, logger)

	orderHandler := handler.NewOrderHandler(orderService, userService, tracker, courierClient, logger)
	paymentHandler := handler.NewPaymentHandler(orderService, userService, sslClient, bkashClient, cfg.PublicBaseURL, cfg.ClientURL, logger)
	authHandler := handler.NewAuthHandler(userService, cfg.JWTSecret, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		order := api.Group("/order")
		{
			// Checkout: token optional, guest accounts created by phone
			order.POST("/place", middleware.OptionalAuth(cfg.JWTSecret), orderHandler.PlaceOrder)
			order.POST("/ssl/initiate", middleware.OptionalAuth(cfg.JWTSecret), paymentHandler.InitiateSSL)
			order.POST("/bkash/create", middleware.OptionalAuth(cfg.JWTSecret), paymentHandler.CreateBkash)

			// Provider callbacks (no auth: the gateways call these)
			order.POST("/ssl/success", paymentHandler.SSLSuccess)
			order.POST("/ssl/fail", paymentHandler.SSLFail)
			order.POST("/ssl/cancel", paymentHandler.SSLCancel)
			order.POST("/ssl/ipn", paymentHandler.SSLIPN)
			order.GET("/bkash/callback", paymentHandler.BkashCallback)

			// Customer
			order.POST("/userorders", middleware.Auth(cfg.JWTSecret), orderHandler.UserOrders)
			order.GET("/track/:orderId", middleware.Auth(cfg.JWTSecret), orderHandler.TrackMine)
			order.GET("/my/:orderId", middleware.Auth(cfg.JWTSecret), orderHandler.TrackMine)
			order.POST("/track/lookup", orderHandler.TrackLookup)

			// Admin
			order.POST("/list", middleware.AdminAuth(cfg.JWTSecret), orderHandler.AllOrders)
			order.POST("/status", middleware.AdminAuth(cfg.JWTSecret), orderHandler.UpdateStatus)
			order.POST("/update-address", middleware.AdminAuth(cfg.JWTSecret), orderHandler.UpdateAddress)
			order.POST("/courier/check", middleware.AdminAuth(cfg.JWTSecret), orderHandler.CourierCheck)
		}

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "healthy",
				"service": "anondoshop-backend",
				"port":    cfg.Port,
			})
		})
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
