package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// OrderOptions pilote le durcissement du moteur (voir ORDER_* dans config)
type OrderOptions struct {
	// TrustClientPrice : le prix envoyé par le client est utilisé tel quel
	TrustClientPrice bool
	// EnforceStock : refuse une commande si le stock ne suffit pas
	EnforceStock bool
	// StrictStatus : seules les transitions de la chaîne sont autorisées
	StrictStatus bool
	// TxRetries : nombre de rejeux de la transaction si RetryOn(err) est vrai
	TxRetries int
	RetryOn   func(error) bool
}

// OrderLine est une ligne de commande telle qu'envoyée par le client
type OrderLine struct {
	ProductID uint             `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	Price     *decimal.Decimal `json:"price"`
}

type OrderService struct {
	store  store.Store
	events *cache.CartEvents
	opts   OrderOptions
}

func NewOrderService(s store.Store, events *cache.CartEvents, opts OrderOptions) *OrderService {
	return &OrderService{store: s, events: events, opts: opts}
}

// PlaceOrder transforme les lignes en commande : commande, lignes, décrément
// du stock et vidage du panier sont validés ensemble ou pas du tout.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, lines []OrderLine, addr models.ShippingAddress) (*models.Order, error) {
	if err := s.validate(lines, addr); err != nil {
		return nil, err
	}
	if err := s.precheck(ctx, lines); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.withRetry(ctx, func() error {
		var txErr error
		order, txErr = s.placeInTx(ctx, userID, lines, addr)
		return txErr
	})
	if err != nil {
		if apperrors.IsTyped(err) {
			return nil, err
		}
		log.Printf("❌ Transaction commande échouée pour user %d: %v", userID, err)
		return nil, apperrors.Internal("Erreur lors de la création de la commande", err)
	}

	log.Printf("✅ Commande %d créée pour user %d (total %s)", order.ID, userID, order.Total.StringFixed(2))
	s.events.Publish(ctx, userID, cache.CartCleared)

	saved, err := s.store.Orders().Get(ctx, order.ID)
	if err != nil {
		log.Printf("⚠️ Relecture de la commande %d impossible: %v", order.ID, err)
		return order, nil
	}
	return saved, nil
}

func (s *OrderService) validate(lines []OrderLine, addr models.ShippingAddress) error {
	if len(lines) == 0 {
		return apperrors.Invalid("La commande doit contenir au moins un article")
	}

	for i, l := range lines {
		if l.ProductID == 0 {
			return apperrors.Invalid("product_id invalide").
				WithDetails(map[string]interface{}{"index": i})
		}
		if l.Quantity <= 0 {
			return apperrors.Invalid("La quantité doit être un entier positif").
				WithDetails(map[string]interface{}{"index": i, "product_id": l.ProductID})
		}
		if s.opts.TrustClientPrice {
			if l.Price == nil || l.Price.IsNegative() || !l.Price.Equal(l.Price.Round(2)) {
				return apperrors.Invalid("Prix invalide").
					WithDetails(map[string]interface{}{"index": i, "product_id": l.ProductID})
			}
		}
	}

	if missing := addr.MissingFields(); len(missing) > 0 {
		return apperrors.Invalid("Adresse de livraison incomplète").
			WithDetails(map[string]interface{}{"missing_fields": missing})
	}
	return nil
}

// precheck signale les produits absents ou en rupture avant d'ouvrir la
// transaction. Le décrément conditionnel reste la garantie finale.
func (s *OrderService) precheck(ctx context.Context, lines []OrderLine) error {
	requested := map[uint]int{}
	var order []uint
	for _, l := range lines {
		if _, seen := requested[l.ProductID]; !seen {
			order = append(order, l.ProductID)
		}
		requested[l.ProductID] += l.Quantity
	}

	for _, id := range order {
		p, err := s.store.Products().Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return productNotFound(id)
		}
		if err != nil {
			return apperrors.Internal("Erreur lors de la vérification des produits", err)
		}
		if s.opts.EnforceStock && p.StockQuantity < requested[id] {
			return insufficientStock(p, requested[id])
		}
	}
	return nil
}

func (s *OrderService) placeInTx(ctx context.Context, userID uint, lines []OrderLine, addr models.ShippingAddress) (*models.Order, error) {
	var order *models.Order
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		order = &models.Order{
			UserID:          userID,
			Status:          models.OrderStatusPending,
			ShippingAddress: addr,
		}
		products := map[uint]*models.Product{}
		prices := make([]decimal.Decimal, len(lines))
		total := decimal.Zero

		for i, l := range lines {
			p, ok := products[l.ProductID]
			if !ok {
				var err error
				p, err = tx.Products().Get(ctx, l.ProductID)
				if errors.Is(err, store.ErrNotFound) {
					return productNotFound(l.ProductID)
				}
				if err != nil {
					return err
				}
				products[l.ProductID] = p
			}

			price := p.Price
			if s.opts.TrustClientPrice {
				price = *l.Price
			} else if l.Price != nil && !l.Price.Equal(p.Price) {
				log.Printf("⚠️ Prix client %s ignoré pour le produit %d (catalogue: %s)",
					l.Price.String(), p.ID, p.Price.String())
			}
			prices[i] = price
			total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		order.Total = total

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		order.Items = make([]models.OrderItem, 0, len(lines))
		for i, l := range lines {
			item := models.OrderItem{
				OrderID:            order.ID,
				ProductID:          l.ProductID,
				Quantity:           l.Quantity,
				PriceAtTimeOfOrder: prices[i],
				ProductName:        products[l.ProductID].Name,
			}
			if err := tx.Orders().AddItem(ctx, &item); err != nil {
				return err
			}

			applied, err := tx.Products().DecrementStock(ctx, l.ProductID, l.Quantity, s.opts.EnforceStock)
			if err != nil {
				return err
			}
			if !applied {
				// un autre client a pris le stock entre la vérification et ici
				return insufficientStock(products[l.ProductID], l.Quantity)
			}
			order.Items = append(order.Items, item)
		}

		if _, err := tx.Carts().Clear(ctx, userID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.opts.TxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("🔁 Rejeu de la transaction commande (%d/%d): %v", attempt, s.opts.TxRetries, err)
		}
		err = fn()
		if err == nil || s.opts.RetryOn == nil || !s.opts.RetryOn(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

// UpdateStatus change le statut d'une commande et retourne aussi l'ancien statut
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, raw string) (*models.Order, models.OrderStatus, error) {
	next, ok := models.ParseOrderStatus(raw)
	if !ok {
		return nil, "", apperrors.Invalid("Statut invalide").WithDetails(map[string]interface{}{
			"allowed": []models.OrderStatus{
				models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusShipped,
				models.OrderStatusDelivered, models.OrderStatusCancelled,
			},
		})
	}

	var previous models.OrderStatus
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		current, err := tx.Orders().Get(ctx, orderID)
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Commande introuvable")
		}
		if err != nil {
			return err
		}
		previous = current.Status

		if s.opts.StrictStatus && !current.Status.CanTransitionTo(next) {
			return apperrors.Invalid(fmt.Sprintf("Transition %s → %s interdite", current.Status, next)).
				WithDetails(map[string]interface{}{"from": current.Status, "to": next})
		}
		return tx.Orders().UpdateStatus(ctx, orderID, next)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apperrors.NotFound("Commande introuvable")
		}
		if apperrors.IsTyped(err) {
			return nil, "", err
		}
		return nil, "", apperrors.Internal("Erreur lors de la mise à jour du statut", err)
	}

	order, err := s.store.Orders().Get(ctx, orderID)
	if err != nil {
		return nil, "", apperrors.Internal("Erreur lors de la relecture de la commande", err)
	}
	if u, err := s.store.Users().Get(ctx, order.UserID); err == nil {
		order.Username, order.Email = u.Username, u.Email
	}
	log.Printf("📦 Commande %d : %s → %s", orderID, previous, next)
	return order, previous, nil
}

// List retourne toutes les commandes pour un admin, sinon celles de l'utilisateur
func (s *OrderService) List(ctx context.Context, userID uint, isAdmin bool) ([]models.Order, error) {
	filter := models.OrderFilter{}
	if !isAdmin {
		filter.UserID = &userID
	}
	orders, err := s.store.Orders().List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Erreur lors de la récupération des commandes", err)
	}
	return orders, nil
}

func productNotFound(id uint) error {
	return apperrors.NotFound(fmt.Sprintf("Produit %d introuvable", id)).
		WithDetails(map[string]interface{}{"product_id": id})
}

func insufficientStock(p *models.Product, requested int) error {
	return apperrors.InsufficientStock(fmt.Sprintf("Stock insuffisant pour %s", p.Name)).
		WithDetails(map[string]interface{}{
			"product_id": p.ID,
			"requested":  requested,
			"available":  p.StockQuantity,
		})
}
