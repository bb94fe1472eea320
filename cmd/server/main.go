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

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Connexion PostgreSQL impossible: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("❌ Pool SQL indisponible: %v", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	rdb, err := database.ConnectRedis(ctx, cfg)
	cancel()
	if err != nil {
		// Redis ne sert qu'aux événements panier et au rate limiting
		log.Printf("⚠️ Redis indisponible, fonctionnalités temps réel désactivées: %v", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	s := store.NewGormStore(db)

	identity := services.NewIdentityService(s, cfg.JWTSecret, cfg.JWTTTL)
	if err := identity.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("❌ Création du compte admin impossible: %v", err)
	}

	audit := utils.NewAuditLogger(s.Audit())
	mailer := utils.NewMailer(cfg.SMTP)
	if !mailer.Enabled() {
		log.Println("⚠️ SMTP non configuré, aucun e-mail de confirmation ne sera envoyé")
	}

	router := routes.NewRouter(routes.Dependencies{
		Config: cfg,
		Store:  s,
		Redis:  rdb,
		Audit:  audit,
		Mailer: mailer,
		Ping:   sqlDB.PingContext,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("🚀 Serveur Storefront lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Serveur arrêté: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Arrêt du serveur...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Arrêt forcé: %v", err)
	}
	audit.Close()
	log.Println("👋 Serveur arrêté proprement")
}
