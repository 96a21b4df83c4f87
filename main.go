package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attira/admin"
	"attira/auth"
	"attira/config"
	"attira/db"
	"attira/globals"
	"attira/invoice"
	"attira/logger"
	"attira/mailer"
	"attira/mq"
	"attira/orders"
	"attira/ratelim"
	"attira/rdx"
	"attira/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.RequestURI),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, rateLimiter)
	routes.AddAdminRoutes(router, rateLimiter)
	routes.AddProductRoutes(router)
	routes.AddUserRoutes(router)
	routes.AddOrderRoutes(router, rateLimiter)
	routes.AddStaticRoutes(router)

	return router
}

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Server.Env); err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	globals.JwtSecret = []byte(cfg.JWT.Secret)
	auth.SetTokenTTL(cfg.JWT.ExpiryHours)
	admin.SetTokenTTL(cfg.JWT.ExpiryHours)
	orders.Init(cfg.Razorpay)
	invoice.Init(cfg.JWT.Secret)
	mailer.Init(cfg.SMTP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initCtx, initCancel := context.WithTimeout(ctx, 15*time.Second)
	defer initCancel()
	if err := db.Init(initCtx, cfg.Mongo.URI, cfg.Mongo.Database); err != nil {
		logger.L().Fatal("mongodb connection failed", zap.Error(err))
	}
	if err := db.EnsureIndexes(initCtx); err != nil {
		logger.L().Fatal("index creation failed", zap.Error(err))
	}

	if err := rdx.Init(initCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		// the service degrades without redis (no revocation, no cooldowns)
		// but still runs
		logger.L().Warn("redis unavailable, continuing without it", zap.Error(err))
	}

	go mq.StartEventWorker(ctx)

	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(rateLimiter)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("server shutdown error", zap.Error(err))
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.L().Error("mongodb close error", zap.Error(err))
	}
	if err := rdx.Close(); err != nil {
		logger.L().Error("redis close error", zap.Error(err))
	}
	logger.L().Info("server stopped")
}
