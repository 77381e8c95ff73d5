package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trananhduc/fashion_shop/internal/config"
	"github.com/trananhduc/fashion_shop/internal/es"
	"github.com/trananhduc/fashion_shop/internal/httpserver"
	"github.com/trananhduc/fashion_shop/internal/logging"
	loggingmw "github.com/trananhduc/fashion_shop/internal/middleware/logging"
	"github.com/trananhduc/fashion_shop/internal/mykafka"
	"github.com/trananhduc/fashion_shop/internal/repo"
	"github.com/trananhduc/fashion_shop/internal/service"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	if len(jwtSecret) == 0 {
		log.Fatal("missing required env JWT_SECRET")
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	r := repo.New(db)

	authSvc := service.NewAuthService(r, jwtSecret)
	deps := httpserver.Deps{
		AuthHandler:  &httpserver.AuthHTTP{Svc: authSvc, Producer: prod},
		UserHandler:  &httpserver.UserHTTP{Svc: service.NewUserService(r, authSvc), Producer: prod},
		OrderHandler: &httpserver.OrderHTTP{Svc: service.NewOrderService(r), Producer: prod},
		VoucherHandler: &httpserver.VoucherHTTP{
			Svc:      service.NewVoucherService(r),
			Producer: prod,
		},
		JWTSecret: jwtSecret,
	}

	var catalogSvc *service.CatalogService
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		catalogSvc = service.NewCatalogService(r, esClient)
		deps.SearchHandler = &httpserver.SearchHTTP{ES: esClient, Index: es.ProductIndex}
	} else {
		catalogSvc = service.NewCatalogService(r, nil)
	}
	deps.ProductHandler = &httpserver.ProductHTTP{Svc: catalogSvc, Producer: prod}
	deps.CategoryHandler = &httpserver.CategoryHTTP{Svc: catalogSvc}
	deps.DashboardHandler = &httpserver.DashboardHTTP{Svc: catalogSvc}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.SERVER_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
