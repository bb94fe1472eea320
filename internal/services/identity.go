package services

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/utils"
)

const minPasswordLength = 6

// AuthResult est renvoyé par l'inscription et la connexion
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type IdentityService struct {
	store     store.Store
	jwtSecret string
	jwtTTL    time.Duration
}

func NewIdentityService(s store.Store, jwtSecret string, jwtTTL time.Duration) *IdentityService {
	return &IdentityService{store: s, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

func (s *IdentityService) Signup(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, apperrors.Invalid("Nom d'utilisateur requis")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.Invalid("Email invalide")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.Invalid("Le mot de passe doit contenir au moins 6 caractères")
	}

	user, err := s.createUser(ctx, username, email, password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Nouvel utilisateur inscrit: %s", user.Email)
	return s.issue(user)
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Unauthorized("Email ou mot de passe incorrect")
	}
	if err != nil {
		return nil, apperrors.Internal("Erreur lors de la connexion", err)
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil {
		log.Printf("⚠️ Hash illisible pour %s: %v", user.Email, err)
	}
	if !ok {
		return nil, apperrors.Unauthorized("Email ou mot de passe incorrect")
	}
	s.upgradeHash(ctx, user, password)
	return s.issue(user)
}

// EnsureAdmin crée le compte administrateur initial s'il n'existe pas encore
func (s *IdentityService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.store.Users().GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			log.Printf("⚠️ %s existe déjà sans le rôle admin", existing.Email)
		}
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	user, err := s.createUser(ctx, "admin", email, password, models.RoleAdmin)
	if err != nil {
		return err
	}
	log.Printf("👑 Compte admin initial créé: %s", user.Email)
	return nil
}

// upgradeHash migre un ancien hash bcrypt vers argon2id ; un échec n'empêche pas le login
func (s *IdentityService) upgradeHash(ctx context.Context, user *models.User, password string) {
	if !utils.NeedsRehash(user.Password) {
		return
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("⚠️ Rehash impossible pour %s: %v", user.Email, err)
		return
	}
	if err := s.store.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
		log.Printf("⚠️ Migration du hash échouée pour %s: %v", user.Email, err)
		return
	}
	user.Password = hash
	log.Printf("🔐 Hash de %s migré vers argon2id", user.Email)
}

func (s *IdentityService) createUser(ctx context.Context, username, email, password, role string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Erreur lors du hachage du mot de passe", err)
	}

	user := &models.User{Username: username, Email: email, Password: hash, Role: role}
	err = s.store.Users().Create(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, apperrors.Conflict("Cet email est déjà utilisé")
	}
	if err != nil {
		return nil, apperrors.Internal("Erreur lors de la création du compte", err)
	}
	return user, nil
}

func (s *IdentityService) issue(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateJWT(*user, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, apperrors.Internal("Erreur lors de la génération du token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
