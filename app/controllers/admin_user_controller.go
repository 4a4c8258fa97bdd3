package controllers

import (
	"net/http"

	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/response"
)

type AdminUserController struct {
	users *repositories.UserRepository
}

func NewAdminUserController() *AdminUserController {
	return &AdminUserController{users: repositories.NewUserRepository()}
}

func (c *AdminUserController) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	users, p, err := c.users.List(r.Context(), page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load users")
		return
	}
	response.Paginated(w, users, p)
}

type adminUserInput struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Phone  string `json:"phone" validate:"nullable,min=8,max=15"`
	Role   string `json:"role" validate:"required,in=user,admin"`
	Active *bool  `json:"active"`
}

// Update edits account metadata. Email and password stay with the account
// owner; the admin surface only touches name, phone, role, and the active
// flag.
func (c *AdminUserController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in adminUserInput
	if !bindJSON(w, r, &in) {
		return
	}

	user, err := c.users.FindByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "User not found")
		return
	}

	user.Name = in.Name
	user.Phone = in.Phone
	user.Role = in.Role
	if in.Active != nil {
		user.Active = *in.Active
	}

	if err := c.users.Update(r.Context(), &user); err != nil {
		writeRepoError(w, err, "User not found")
		return
	}
	response.Success(w, user)
}

func (c *AdminUserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := c.users.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "User not found")
		return
	}
	response.Message(w, "User deleted")
}
