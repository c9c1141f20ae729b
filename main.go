package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"opsdash/config"
	"opsdash/database"
	authapi "opsdash/internal/api/auth"
	paymentsapi "opsdash/internal/api/payments"
	stripewebhooks "opsdash/internal/api/stripewebhook"
	routes "opsdash/internal/app/http"
	"opsdash/internal/app/http/middleware"
	"opsdash/internal/app/realtime"
	"opsdash/internal/domain/payments"
	"opsdash/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	if err := authapi.SeedOperator(); err != nil {
		log.Fatal("❌ Failed to seed operator account: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if config.REDIS_URL != "" {
		opts, err := redis.ParseURL(config.REDIS_URL)
		if err != nil {
			log.Fatal("❌ Invalid REDIS_URL: ", err)
		}
		rdb = redis.NewClient(opts)
		fmt.Println("✅ Redis fanout enabled")
	}

	realtime.GlobalHub = realtime.NewHub(rdb)
	go realtime.GlobalHub.Run(ctx)

	idem, err := middleware.NewIdempotencyStore(config.IDEMPOTENCY_DB_PATH)
	if err != nil {
		log.Fatal("❌ Failed to open idempotency store: ", err)
	}
	defer idem.Close()

	paymentStore := store.NewPayments(database.DB, realtime.GlobalHub)
	ctrl := payments.NewController(paymentStore)
	paymentsapi.Init(ctrl)
	stripewebhooks.Init(ctrl)
	go ctrl.Run(ctx)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, idem)

	srv := &http.Server{Addr: ":" + config.PORT, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Server error: ", err)
		}
	}()
	fmt.Println("✅ Listening on :" + config.PORT)

	<-ctx.Done()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Shutdown error: ", err)
	}
}
