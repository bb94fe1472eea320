package utils

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// Actions d'audit
const (
	ACTION_PRODUCT_CREATE       = "product.create"
	ACTION_PRODUCT_PRICE_CHANGE = "product.price_change"

	ACTION_ORDER_CREATE = "order.create"
	ACTION_ORDER_UPDATE = "order.update"

	ACTION_LOGIN_SUCCESS = "auth.login_success"
	ACTION_LOGIN_FAILED  = "auth.login_failed"
)

// Resources d'audit
const (
	RESOURCE_PRODUCT = "product"
	RESOURCE_ORDER   = "order"
	RESOURCE_AUTH    = "auth"
)

// AuditLogger écrit les logs d'audit en arrière-plan ; une erreur d'écriture
// est journalisée et n'interrompt jamais la requête.
type AuditLogger struct {
	repo store.AuditRepository

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAuditLogger(repo store.AuditRepository) *AuditLogger {
	return &AuditLogger{repo: repo}
}

// LogAction enregistre une action réussie
func (a *AuditLogger) LogAction(c *gin.Context, action, resource, resourceID string, oldValue, newValue interface{}) {
	a.record(newEntry(c, action, resource, resourceID, oldValue, newValue, true, ""))
}

// LogFailedAction enregistre une action échouée
func (a *AuditLogger) LogFailedAction(c *gin.Context, action, resource, resourceID, errorMsg string) {
	a.record(newEntry(c, action, resource, resourceID, nil, nil, false, errorMsg))
}

// Wait attend la fin des écritures en cours sans bloquer les suivantes
func (a *AuditLogger) Wait() {
	if a != nil {
		a.wg.Wait()
	}
}

// Close refuse toute nouvelle écriture puis attend celles en cours (arrêt du serveur)
func (a *AuditLogger) Close() {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.wg.Wait()
}

func (a *AuditLogger) record(entry models.AuditLog) {
	if a == nil || a.repo == nil {
		return
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		log.Printf("⚠️ Log audit %s ignoré : arrêt en cours", entry.Action)
		return
	}
	a.wg.Add(1)
	a.mu.Unlock()
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.repo.Record(ctx, &entry); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// newEntry lit le contexte gin tout de suite : il est recyclé après la requête
func newEntry(c *gin.Context, action, resource, resourceID string, oldValue, newValue interface{}, success bool, errorMsg string) models.AuditLog {
	entry := models.AuditLog{
		UserID:     c.GetUint("user_id"),
		UserEmail:  c.GetString("email"),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		OldValue:   toJSON(oldValue),
		NewValue:   toJSON(newValue),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Success:    success,
		ErrorMsg:   errorMsg,
		Timestamp:  time.Now().UTC(),
	}
	return entry
}

func toJSON(value interface{}) string {
	if value == nil {
		return ""
	}
	b, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(b)
}
