package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

type CatalogService struct {
	store store.Store
}

func NewCatalogService(s store.Store) *CatalogService {
	return &CatalogService{store: s}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	products, err := s.store.Products().List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Erreur lors de la récupération des produits", err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.store.Products().Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, productNotFound(id)
	}
	if err != nil {
		return nil, apperrors.Internal("Erreur lors de la récupération du produit", err)
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperrors.Invalid("Le nom du produit est requis")
	}
	if err := validatePrice(p.Price); err != nil {
		return err
	}
	if p.StockQuantity < 0 {
		return apperrors.Invalid("Le stock ne peut pas être négatif")
	}
	if err := s.checkCategory(ctx, p.CategoryID); err != nil {
		return err
	}

	if err := s.store.Products().Create(ctx, p); err != nil {
		return apperrors.Internal("Erreur lors de la création du produit", err)
	}
	return nil
}

// UpdateProduct applique une mise à jour partielle et retourne l'état avant/après
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, upd models.ProductUpdate) (before, after *models.Product, err error) {
	if upd.Empty() {
		return nil, nil, apperrors.Invalid("Aucun champ à mettre à jour")
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, nil, apperrors.Invalid("Le nom du produit est requis")
		}
		upd.Name = &name
	}
	if upd.Price != nil {
		if err := validatePrice(*upd.Price); err != nil {
			return nil, nil, err
		}
	}
	if upd.StockQuantity != nil && *upd.StockQuantity < 0 {
		return nil, nil, apperrors.Invalid("Le stock ne peut pas être négatif")
	}

	before, err = s.GetProduct(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkCategory(ctx, upd.CategoryID); err != nil {
		return nil, nil, err
	}

	after, err = s.store.Products().Update(ctx, id, upd)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, productNotFound(id)
	}
	if err != nil {
		return nil, nil, apperrors.Internal("Erreur lors de la mise à jour du produit", err)
	}
	return before, after, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, apperrors.Internal("Erreur lors de la récupération des catégories", err)
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Invalid("Le nom de la catégorie est requis")
	}

	c := &models.Category{Name: name}
	err := s.store.Categories().Create(ctx, c)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, apperrors.Conflict("Cette catégorie existe déjà")
	}
	if err != nil {
		return nil, apperrors.Internal("Erreur lors de la création de la catégorie", err)
	}
	return c, nil
}

func (s *CatalogService) checkCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	_, err := s.store.Categories().Get(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.Invalid("Catégorie inconnue").
			WithDetails(map[string]interface{}{"category_id": *id})
	}
	if err != nil {
		return apperrors.Internal("Erreur lors de la vérification de la catégorie", err)
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperrors.Invalid("Le prix ne peut pas être négatif")
	}
	if !price.Equal(price.Round(2)) {
		return apperrors.Invalid("Le prix doit avoir au plus deux décimales")
	}
	return nil
}
