// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call a service, and map service errors onto the JSON
// envelope; they hold no business logic of their own.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/pkg/bind"
	"github.com/petpalace/petpalace/pkg/database"
	"github.com/petpalace/petpalace/pkg/middleware"
	"github.com/petpalace/petpalace/pkg/response"
	"github.com/petpalace/petpalace/pkg/router"
	"github.com/petpalace/petpalace/pkg/validate"
)

const defaultPerPage = 20

// pageParams reads ?page and ?per_page with sane bounds.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(bind.Query(r, "page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(bind.Query(r, "per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 || perPage > 100 {
		perPage = defaultPerPage
	}
	return page, perPage
}

// idParam parses the :id route parameter as an ObjectID.
func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(router.Param(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUserID returns the authenticated user's ObjectID, if any.
func currentUserID(r *http.Request) (primitive.ObjectID, bool) {
	hex, ok := middleware.UserIDFromCtx(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindJSON decodes and validates the body, writing the 400/422 itself.
// Returns false when the handler should stop.
func bindJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(r, dest)
	if errors.Is(err, bind.ErrValidation) {
		response.ValidationError(w, errs)
		return false
	}
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}

// structErrors runs the validate tags of a nested input struct; the tag
// walker does not recurse, so embedded inputs validate explicitly.
func structErrors(v interface{}) map[string]string {
	return validate.Struct(v)
}

// prefixKeys namespaces nested field errors, e.g. "address.city".
func prefixKeys(prefix string, errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return errs
	}
	out := make(map[string]string, len(errs))
	for k, v := range errs {
		out[prefix+k] = v
	}
	return out
}

// writeRepoError maps storage errors onto the envelope: missing documents
// become 404s, unique-index collisions 409s.
func writeRepoError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		response.NotFound(w, notFoundMsg)
	case database.IsDup(err):
		response.Conflict(w, "Duplicate value for a unique field")
	default:
		response.Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}
