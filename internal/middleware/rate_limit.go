package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront_back_end/internal/config"
)

const apiWindow = time.Minute

// RateLimiter applique des compteurs à fenêtre fixe dans Redis.
// Sans client Redis, chaque middleware laisse passer la requête.
type RateLimiter struct {
	rdb *redis.Client
	cfg config.RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{rdb: rdb, cfg: cfg}
}

func (rl *RateLimiter) enabled() bool {
	return rl != nil && rl.rdb != nil
}

func tooManyRequests(c *gin.Context, message string, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", fmt.Sprintf("%d", seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       message,
		"code":        "RATE_LIMITED",
		"retry_after": seconds,
	})
}

// incrWindow incrémente le compteur ; l'expiration est posée à la création
func (rl *RateLimiter) incrWindow(c *gin.Context, key string, window time.Duration) (int64, error) {
	ctx := c.Request.Context()
	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := rl.rdb.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (rl *RateLimiter) fixedWindow(key string, limit int, window time.Duration, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled() || limit <= 0 {
			c.Next()
			return
		}

		fullKey := key + c.ClientIP()
		if uid := c.GetUint("user_id"); uid != 0 {
			fullKey = fmt.Sprintf("%suser:%d", key, uid)
		}

		count, err := rl.incrWindow(c, fullKey, window)
		if err != nil {
			// Redis indisponible : on ne bloque pas le trafic
			log.Printf("⚠️ Rate limit indisponible (%s): %v", fullKey, err)
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > int64(limit) {
			ttl := rl.rdb.TTL(c.Request.Context(), fullKey).Val()
			tooManyRequests(c, message, ttl)
			return
		}
		c.Next()
	}
}

// API limite le nombre de requêtes par IP (général)
func (rl *RateLimiter) API() gin.HandlerFunc {
	return rl.fixedWindow("api_requests:", rl.cfg.APIPerMinute, apiWindow,
		"Trop de requêtes. Réessayez dans 1 minute")
}

// Cart limite les ajouts au panier (anti-spam), par utilisateur
func (rl *RateLimiter) Cart() gin.HandlerFunc {
	return rl.fixedWindow("cart_add:", rl.cfg.CartPerMinute, apiWindow,
		"Trop d'ajouts au panier. Ralentissez un peu")
}

// Login limite les tentatives de connexion échouées par email
func (rl *RateLimiter) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled() {
			c.Next()
			return
		}

		// Lire le body sans le consommer
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		email := strings.ToLower(strings.TrimSpace(input.Email))
		key := "login_attempts:" + email
		cooldownKey := "login_cooldown:" + email

		if ttl := rl.rdb.TTL(ctx, cooldownKey).Val(); ttl > 0 {
			tooManyRequests(c, fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes())+1), ttl)
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			attempts, err := rl.incrWindow(c, key, rl.cfg.LoginCooldown)
			if err != nil {
				log.Printf("⚠️ Compteur de connexions indisponible: %v", err)
				return
			}
			if attempts >= int64(rl.cfg.LoginAttempts) {
				rl.rdb.Set(ctx, cooldownKey, "1", rl.cfg.LoginCooldown)
				rl.rdb.Del(ctx, key)
				log.Printf("🔒 Connexions bloquées pour %s pendant %s", email, rl.cfg.LoginCooldown)
			}
		case http.StatusOK:
			// Login réussi, réinitialiser les tentatives
			rl.rdb.Del(ctx, key, cooldownKey)
		}
	}
}

// Signup limite les inscriptions réussies par IP
func (rl *RateLimiter) Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "register_attempts:" + c.ClientIP()

		attempts, _ := rl.rdb.Get(ctx, key).Int()
		if attempts >= rl.cfg.SignupAttempts {
			ttl := rl.rdb.TTL(ctx, key).Val()
			tooManyRequests(c, fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(ttl.Minutes())+1), ttl)
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			if _, err := rl.incrWindow(c, key, rl.cfg.SignupCooldown); err != nil {
				log.Printf("⚠️ Compteur d'inscriptions indisponible: %v", err)
			}
		}
	}
}
