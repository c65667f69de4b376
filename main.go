package main

import (
	"log"
	"time"

	"github.com/Zain0205/travelin-be/config"
	"github.com/Zain0205/travelin-be/internal/consumer"
	"github.com/Zain0205/travelin-be/internal/gateway"
	"github.com/Zain0205/travelin-be/internal/handler"
	"github.com/Zain0205/travelin-be/internal/middleware"
	"github.com/Zain0205/travelin-be/internal/presence"
	"github.com/Zain0205/travelin-be/internal/repository"
	"github.com/Zain0205/travelin-be/internal/service"
	"github.com/Zain0205/travelin-be/pkg/database"
	"github.com/Zain0205/travelin-be/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	registry := presence.NewRedisRegistry(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, 24*time.Hour)
	consumer.NewDeliveryConsumer(registry).Start(msgs)

	paymentGateway := gateway.NewMidtransGateway(
		cfg.MidtransServerKey,
		cfg.MidtransClientKey,
		cfg.MidtransProduction,
		cfg.GatewayTimeout,
	)

	// Repositories
	bookingRepo := repository.NewBookingRepository(db)
	catalogRepo := repository.NewCatalogRepository()
	rescheduleRepo := repository.NewRescheduleRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	notificationSvc := service.NewNotificationService(notificationRepo, publisher)
	bookingSvc := service.NewBookingService(bookingRepo, catalogRepo, rescheduleRepo, notificationSvc)
	refundSvc := service.NewRefundService(bookingRepo, refundRepo, catalogRepo, paymentRepo, paymentGateway, notificationSvc)
	paymentSvc := service.NewPaymentService(bookingRepo, paymentRepo, paymentGateway, notificationSvc, cfg.MidtransServerKey, cfg.FrontEndURL+"/payment/finish")

	// Echo
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "travelin-be"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	paymentHandler.RegisterCallbackRoute(e)

	api := e.Group("/api", middleware.Actor)
	handler.NewBookingHandler(bookingSvc, refundSvc).RegisterRoutes(api)
	handler.NewRefundHandler(refundSvc).RegisterRoutes(api)
	paymentHandler.RegisterRoutes(api)
	handler.NewNotificationHandler(notificationSvc).RegisterRoutes(api)

	log.Printf("Travelin backend starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
