package controllers

import (
	"errors"
	"net/http"

	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/database"
	"github.com/petpalace/petpalace/pkg/logger"
	"github.com/petpalace/petpalace/pkg/response"
	"github.com/petpalace/petpalace/pkg/session"
)

type AuthController struct {
	auth      *services.AuthService
	wishlists *services.WishlistService
}

func NewAuthController() *AuthController {
	return &AuthController{
		auth:      services.NewAuthService(),
		wishlists: services.NewWishlistService(),
	}
}

type registerInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if !bindJSON(w, r, &in) {
		return
	}

	user, err := c.auth.Register(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		if database.IsDup(err) {
			response.Conflict(w, "An account with this email already exists")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not create account")
		return
	}
	response.Created(w, user)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login issues the token pair. If the browser carried a guest wishlist, it
// is folded into the account here; the cart merge is a separate explicit
// sync call from the client.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if !bindJSON(w, r, &in) {
		return
	}

	user, tokens, err := c.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	sess := session.FromCtx(r)
	if key, ok := sess.GetString("guest_key"); ok && key != "" {
		if err := c.wishlists.Sync(r.Context(), key, user.ID); err != nil {
			logger.Warn("auth: wishlist merge on login failed", "user", user.ID.Hex(), "error", err)
		}
		sess.Delete("guest_key")
		if err := sess.Save(w); err != nil {
			logger.Warn("auth: session save failed", "error", err)
		}
	}

	response.Success(w, map[string]interface{}{
		"user":   user,
		"tokens": tokens,
	})
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshInput
	if !bindJSON(w, r, &in) {
		return
	}

	tokens, err := c.auth.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		response.Error(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	response.Success(w, tokens)
}

// Me returns the authenticated account.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.auth.User(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err, "Account not found")
		return
	}
	response.Success(w, user)
}
