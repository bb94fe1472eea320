package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

const wsPingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	// Les origines sont déjà filtrées par le middleware CORS
	CheckOrigin: func(r *http.Request) bool { return true },
}

type cartSnapshot struct {
	Type  string            `json:"type"`
	Event string            `json:"event,omitempty"`
	Items []models.CartLine `json:"items"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

func snapshot(ctx context.Context, cart *services.CartService, userID uint, event string) (*cartSnapshot, error) {
	lines, err := cart.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return &cartSnapshot{Type: "cart_updated", Event: event, Items: lines, Total: total, Count: len(lines)}, nil
}

// CartWebSocket pousse le panier à jour à chaque événement cart:<user_id>
func CartWebSocket(cart *services.CartService, events *cache.CartEvents) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !events.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Synchronisation panier indisponible"})
			return
		}
		userID := c.GetUint("user_id")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch, err := events.Subscribe(ctx, userID)
		if err != nil {
			log.Printf("❌ Abonnement panier impossible pour user %d: %v", userID, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Synchronisation panier indisponible"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("❌ Erreur upgrade WebSocket: %v", err)
			return
		}
		defer conn.Close()

		// Lecture en tâche de fond : détecte la fermeture côté client
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		initial, err := snapshot(ctx, cart, userID, "")
		if err != nil || conn.WriteJSON(initial) != nil {
			return
		}

		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				snap, err := snapshot(ctx, cart, userID, ev)
				if err != nil {
					log.Printf("⚠️ Lecture panier impossible pour user %d: %v", userID, err)
					continue
				}
				if err := conn.WriteJSON(snap); err != nil {
					log.Printf("❌ Erreur envoi WebSocket: %v", err)
					return
				}
			case <-ticker.C:
				// Ping pour garder la connexion active
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			}
		}
	}
}
