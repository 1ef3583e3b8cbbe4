package routes

import (
	"log/slog"
	"net/http"
	"time"

	"planner-app/config"
	"planner-app/database"
	adminapi "planner-app/internal/api/admin"
	authapi "planner-app/internal/api/auth"
	"planner-app/internal/api/billing"
	plannerapi "planner-app/internal/api/planner"
	stripewebhooks "planner-app/internal/api/stripewebhook"
	"planner-app/internal/api/users"
	"planner-app/internal/app/http/middleware"
	"planner-app/internal/domain/access"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps are the shared collaborators every handler is built from.
type Deps struct {
	Store    *database.Store
	Resolver *access.Resolver
	Log      *slog.Logger

	JWTSecret string
	// zero disables login throttling
	LoginRatePerMinute int

	Billing billing.Gateway
	Stripe  stripewebhooks.SubscriptionFetcher
}

// DepsFromConfig fills the config-derived fields from the loaded env.
func DepsFromConfig(store *database.Store, resolver *access.Resolver, log *slog.Logger) Deps {
	return Deps{
		Store:              store,
		Resolver:           resolver,
		Log:                log,
		JWTSecret:          config.JWT_SECRET,
		LoginRatePerMinute: config.LOGIN_RATE_PER_MINUTE,
		Billing:            billing.StripeGateway{},
		Stripe:             stripewebhooks.StripeAPI{},
	}
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	authH := authapi.NewHandler(d.Store, d.Log, d.JWTSecret)
	usersH := users.NewHandler(d.Store, d.Log)
	billingH := billing.NewHandler(d.Store, d.Billing, d.Log, config.STRIPE_PRO_PRICE_ID, config.APP_URL)
	webhookH := stripewebhooks.NewHandler(d.Store, d.Stripe, d.Log, config.STRIPE_WEBHOOK_SECRET, config.STRIPE_PRO_PRICE_ID)
	plannerH := plannerapi.NewHandler(d.Store, d.Log)
	adminH := adminapi.NewHandler(d.Store, d.Log)

	r.POST("/webhook", webhookH.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ✅ Apply input sanitization to public routes only
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authH.Register)
	if d.LoginRatePerMinute > 0 {
		limiters := middleware.NewClientLimiters(rate.Every(time.Minute/time.Duration(d.LoginRatePerMinute)), d.LoginRatePerMinute)
		public.POST("/login", middleware.RateLimit(limiters, d.Log), authH.Login)
	} else {
		public.POST("/login", authH.Login)
	}

	if config.GoogleEnabled() {
		public.GET("/auth/google", authH.GoogleStart)
		public.GET("/auth/google/callback", authH.GoogleCallback)
	}

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.JWTSecret), middleware.ResolveAccess(d.Resolver))
	auth.GET("/me", usersH.GetCurrentUser)
	auth.POST("/change-password", authH.ChangePassword)
	auth.POST("/create-checkout-session", billingH.CreateCheckoutSession)
	auth.POST("/billing-portal", billingH.CreateBillingPortal)

	auth.GET("/plans/:date", plannerH.GetDay)
	auth.GET("/timeline", plannerH.Timeline)
	auth.GET("/quick-wins", plannerH.QuickWins)
	auth.GET("/history", plannerH.History)

	writes := auth.Group("/")
	writes.Use(middleware.SanitizeAndCleanInputMiddleware())
	writes.PUT("/plans/:date", plannerH.UpdateDay)
	writes.POST("/plans/:date/:zone", plannerH.CreateItem)
	writes.PUT("/plans/:date/:zone/:id", plannerH.UpdateItem)
	writes.DELETE("/plans/:date/:zone/:id", plannerH.DeleteItem)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.JWTSecret), middleware.RequireRole("admin"))
	admin.GET("/users", adminH.ListAllUsers)
	admin.GET("/users/:id", adminH.GetUserDetails)
	admin.GET("/stats", adminH.GetAdminStats)
}
