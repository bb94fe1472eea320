package services

import (
	"context"
	"errors"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

type CartService struct {
	store  store.Store
	events *cache.CartEvents
}

func NewCartService(s store.Store, events *cache.CartEvents) *CartService {
	return &CartService{store: s, events: events}
}

// Add cumule la quantité sur la ligne existante ou crée la ligne.
// created distingue les deux cas (201 / 200 côté HTTP).
func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) (*models.CartLine, bool, error) {
	if productID == 0 {
		return nil, false, apperrors.Invalid("product_id invalide")
	}
	if quantity <= 0 {
		return nil, false, apperrors.Invalid("La quantité doit être un entier positif")
	}

	if _, err := s.store.Products().Get(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, productNotFound(productID)
		}
		return nil, false, apperrors.Internal("Erreur lors de la vérification du produit", err)
	}

	line, created, err := s.store.Carts().Add(ctx, userID, productID, quantity)
	if err != nil {
		return nil, false, apperrors.Internal("Erreur lors de l'ajout au panier", err)
	}

	s.events.Publish(ctx, userID, cache.CartUpdated)
	return line, created, nil
}

func (s *CartService) List(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines, err := s.store.Carts().List(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Erreur lors de la récupération du panier", err)
	}
	return lines, nil
}

func (s *CartService) Remove(ctx context.Context, userID, productID uint) error {
	err := s.store.Carts().Remove(ctx, userID, productID)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("Produit absent du panier")
	}
	if err != nil {
		return apperrors.Internal("Erreur lors de la suppression du panier", err)
	}

	s.events.Publish(ctx, userID, cache.CartUpdated)
	return nil
}
