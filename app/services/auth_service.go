package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/auth"
	"github.com/petpalace/petpalace/pkg/database"
)

var ErrInvalidCredentials = errors.New("auth: invalid credentials")

type userStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService struct {
	users userStore
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

func NewAuthServiceWith(users userStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a customer account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	u := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
		Active:   true,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// User loads one account by id.
func (s *AuthService) User(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Login verifies credentials and issues the token pair. A missing account
// and a wrong password return the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, TokenPair, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, TokenPair{}, err
	}
	if !u.Active || !auth.CheckPassword(u.Password, password) {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	access, err := auth.GenerateToken(u.ID.Hex(), u.Role)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(u.ID.Hex(), u.Role)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return u, TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new pair, re-reading the
// user so a deactivated account stops refreshing immediately.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil || !u.Active {
		return TokenPair{}, ErrInvalidCredentials
	}

	access, err := auth.GenerateToken(u.ID.Hex(), u.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(u.ID.Hex(), u.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
