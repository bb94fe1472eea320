package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Événements publiés sur le canal cart:<user_id>
const (
	CartUpdated = "updated"
	CartCleared = "cleared"
)

// CartEvents diffuse les changements de panier via Redis Pub/Sub, pour que
// toutes les sessions WebSocket d'un même utilisateur se resynchronisent.
// Un client nil désactive la diffusion sans erreur.
type CartEvents struct {
	rdb *redis.Client
}

func NewCartEvents(rdb *redis.Client) *CartEvents {
	return &CartEvents{rdb: rdb}
}

func CartChannel(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

func (e *CartEvents) Enabled() bool {
	return e != nil && e.rdb != nil
}

// Publish est best effort : une erreur Redis est journalisée, jamais remontée
func (e *CartEvents) Publish(ctx context.Context, userID uint, event string) {
	if !e.Enabled() {
		return
	}
	if err := e.rdb.Publish(ctx, CartChannel(userID), event).Err(); err != nil {
		log.Printf("⚠️ Publication événement panier %s échouée pour user %d: %v", event, userID, err)
	}
}

// Subscribe retourne les événements du panier jusqu'à l'annulation de ctx
func (e *CartEvents) Subscribe(ctx context.Context, userID uint) (<-chan string, error) {
	if !e.Enabled() {
		return nil, fmt.Errorf("synchro panier désactivée (Redis non configuré)")
	}

	sub := e.rdb.Subscribe(ctx, CartChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("abonnement au canal panier impossible: %w", err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
