package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/catalog-api/internal/app"
	"github.com/linemk/catalog-api/internal/app/handlers"
	"github.com/linemk/catalog-api/internal/config"
	"github.com/linemk/catalog-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/catalog-api/internal/lib/cors"
	"github.com/linemk/catalog-api/internal/lib/logger"
	"github.com/linemk/catalog-api/internal/lib/logger/handlers/urllog"
	"github.com/linemk/catalog-api/internal/service"
	"github.com/linemk/catalog-api/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(cors.New(cfg.CORS.AllowedOrigins))

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	categoryRepo := storage.NewCategoryRepository(application.DB)
	supplierRepo := storage.NewSupplierRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	accessTTL := time.Duration(cfg.JWT.AccessTokenTTL) * time.Minute
	refreshTTL := time.Duration(cfg.JWT.RefreshTokenTTL) * time.Hour

	authService := service.NewAuthService(application.Logger, userRepo, cfg.JWT.Secret, accessTTL, refreshTTL)
	categoryService := service.NewCategoryService(application.Logger, categoryRepo)
	supplierService := service.NewSupplierService(application.Logger, supplierRepo)
	productService := service.NewProductService(application.Logger, productRepo)
	searchService := service.NewSearchService(application.Logger, productRepo)
	orderService := service.NewOrderService(application.Logger, application.DB, orderRepo, productRepo)

	// открытые эндпоинты: регистрация, выдача токенов и чтение каталога
	router.Post("/api/auth/register", handlers.RegisterHandler(application.Logger, authService))
	router.Post("/api/auth/login", handlers.LoginHandler(application.Logger, authService))
	router.Post("/api/auth/refresh", handlers.RefreshHandler(application.Logger, authService))

	router.Get("/api/categories", handlers.ListCategoriesHandler(application.Logger, categoryService))
	router.Get("/api/suppliers", handlers.ListSuppliersHandler(application.Logger, supplierService))
	router.Get("/api/products", handlers.ListProductsHandler(application.Logger, productService))
	router.Get("/api/products/{id}", handlers.GetProductHandler(application.Logger, productService))
	router.Get("/api/search/products", handlers.SearchProductsHandler(application.Logger, searchService))

	jwtMW := jwtmiddleware.New(cfg.JWT.Secret)

	// оформление заказа и просмотр собственных заказов — только с токеном
	router.Group(func(r chi.Router) {
		r.Use(jwtMW)

		r.Post("/api/orders", handlers.PlaceOrderHandler(application.Logger, orderService))
		r.Get("/api/orders/my-orders", handlers.MyOrdersHandler(application.Logger, orderService))
	})

	// административные эндпоинты: управление каталогом и заказами
	router.Group(func(r chi.Router) {
		r.Use(jwtMW)
		r.Use(jwtmiddleware.RequireAdmin)

		r.Post("/api/categories", handlers.CreateCategoryHandler(application.Logger, categoryService))
		r.Put("/api/categories/{id}", handlers.UpdateCategoryHandler(application.Logger, categoryService))
		r.Delete("/api/categories/{id}", handlers.DeleteCategoryHandler(application.Logger, categoryService))

		r.Post("/api/suppliers", handlers.CreateSupplierHandler(application.Logger, supplierService))
		r.Put("/api/suppliers/{id}", handlers.UpdateSupplierHandler(application.Logger, supplierService))
		r.Delete("/api/suppliers/{id}", handlers.DeleteSupplierHandler(application.Logger, supplierService))

		r.Post("/api/products", handlers.CreateProductHandler(application.Logger, productService))
		r.Put("/api/products/{id}", handlers.UpdateProductHandler(application.Logger, productService))
		r.Delete("/api/products/{id}", handlers.DeleteProductHandler(application.Logger, productService))

		r.Get("/api/orders", handlers.AllOrdersHandler(application.Logger, orderService))
		r.Put("/api/orders/{id}", handlers.UpdateOrderHandler(application.Logger, orderService))
		r.Post("/api/orders/{id}/cancel", handlers.CancelOrderHandler(application.Logger, orderService))
		r.Delete("/api/orders/{id}", handlers.DeleteOrderHandler(application.Logger, orderService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
