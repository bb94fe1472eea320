package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/utils"
)

// Dependencies regroupe tout ce dont le routeur a besoin ; Redis et Mailer
// sont optionnels.
type Dependencies struct {
	Config *config.Config
	Store  store.Store
	Redis  *redis.Client
	Audit  *utils.AuditLogger
	Mailer *utils.Mailer
	// Ping vérifie la base pour /health
	Ping func(ctx context.Context) error
}

var retryOn = database.IsRetryable

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:   []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowWebSockets: true,
		MaxAge:          12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func NewRouter(d Dependencies) *gin.Engine {
	cfg := d.Config

	events := cache.NewCartEvents(d.Redis)
	limiter := middleware.NewRateLimiter(d.Redis, cfg.Rate)

	catalog := services.NewCatalogService(d.Store)
	carts := services.NewCartService(d.Store, events)
	reviews := services.NewReviewService(d.Store)
	identity := services.NewIdentityService(d.Store, cfg.JWTSecret, cfg.JWTTTL)
	orders := services.NewOrderService(d.Store, events, services.OrderOptions{
		TrustClientPrice: cfg.Order.TrustClientPrice,
		EnforceStock:     cfg.Order.EnforceStock,
		StrictStatus:     cfg.Order.StrictStatus,
		TxRetries:        cfg.Order.TxRetries,
		RetryOn:          retryOn,
	})

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.AuthRequired(cfg.JWTSecret)
	api := r.Group("/api", limiter.API())

	// Authentification
	api.POST("/signup", limiter.Signup(), user.Signup(identity))
	api.POST("/login", limiter.Login(), user.Login(identity, d.Audit))

	// Catalogue
	api.GET("/categories", product.GetAllCategories(catalog))
	api.POST("/categories", auth, middleware.RequireAdmin, product.CreateCategory(catalog))

	api.GET("/products", product.GetAllProducts(catalog))
	api.GET("/products/:id", product.GetProduct(catalog))
	api.GET("/products/:id/reviews", product.GetProductReviews(reviews))
	api.POST("/products", auth, middleware.RequireAdmin,
		middleware.AuditAction(d.Audit, utils.ACTION_PRODUCT_CREATE, utils.RESOURCE_PRODUCT),
		product.CreateProduct(catalog))
	api.PUT("/products/:id", auth, middleware.RequireAdmin,
		middleware.AuditAction(d.Audit, utils.ACTION_PRODUCT_PRICE_CHANGE, utils.RESOURCE_PRODUCT),
		product.UpdateProduct(catalog))

	api.POST("/reviews", auth, product.CreateReview(reviews))

	// Panier
	cart := api.Group("/cart", auth)
	cart.GET("", user.GetCart(carts))
	cart.POST("", limiter.Cart(), user.AddToCart(carts))
	cart.DELETE("/:productId", user.RemoveFromCart(carts))
	cart.GET("/ws", user.CartWebSocket(carts, events))

	// Commandes
	api.POST("/orders", auth,
		middleware.AuditAction(d.Audit, utils.ACTION_ORDER_CREATE, utils.RESOURCE_ORDER),
		user.PlaceOrder(orders, d.Mailer))
	api.GET("/orders", auth, user.GetOrders(orders))
	api.PUT("/orders/:id/status", auth, middleware.RequireAdmin,
		middleware.AuditAction(d.Audit, utils.ACTION_ORDER_UPDATE, utils.RESOURCE_ORDER),
		admin.UpdateOrderStatus(orders, d.Mailer))

	// Administration
	api.GET("/admin/audit", auth, middleware.RequireAdmin, admin.GetAuditLogs(d.Store.Audit()))

	return r
}
