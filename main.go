package main

import (
	"log/slog"
	"os"
	"time"

	"planner-app/config"
	"planner-app/database"
	routes "planner-app/internal/app/http"
	"planner-app/internal/domain/access"
	"planner-app/internal/lib/logger"
	"planner-app/internal/lib/sl"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	log := logger.New(config.LOG_LEVEL)

	db, err := database.InitDB(config.DB_URL, log)
	if err != nil {
		log.Error("failed to init database", sl.Err(err))
		os.Exit(1)
	}

	// used by the checkout, portal and webhook follow-up calls
	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		log.Warn("STRIPE_SECRET_KEY not set, billing endpoints will fail")
	}

	store := database.NewStore(db)
	resolver := access.NewResolver(store, log, time.Now)

	r := gin.Default()

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.DepsFromConfig(store, resolver, log))

	log.Info("starting server", slog.String("port", config.PORT))
	if err := r.Run(":" + config.PORT); err != nil {
		log.Error("server stopped", sl.Err(err))
		os.Exit(1)
	}
}
