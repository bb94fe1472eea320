package services

import (
	"context"
	"strings"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

type ReviewService struct {
	store   store.Store
	catalog *CatalogService
}

func NewReviewService(s store.Store) *ReviewService {
	return &ReviewService{store: s, catalog: NewCatalogService(s)}
}

func (s *ReviewService) Create(ctx context.Context, userID, productID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Invalid("La note doit être comprise entre 1 et 5")
	}
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.store.Reviews().Create(ctx, review); err != nil {
		return nil, apperrors.Internal("Erreur lors de l'enregistrement de l'avis", err)
	}
	return review, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	reviews, err := s.store.Reviews().ListByProduct(ctx, productID)
	if err != nil {
		return nil, apperrors.Internal("Erreur lors de la récupération des avis", err)
	}
	return reviews, nil
}
