package bind

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestJSONValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"a@b.com","password":"secret123"}`))
	var in loginInput
	errs, err := JSON(r, &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "a@b.com", in.Email)
}

func TestJSONValidationFailure(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"nope","password":"short"}`))
	var in loginInput
	errs, err := JSON(r, &in)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestJSONMalformedBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":`))
	var in loginInput
	errs, err := JSON(r, &in)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Nil(t, errs)
}

func TestJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"a@b.com","password":"secret123","admin":true}`))
	var in loginInput
	_, err := JSON(r, &in)
	assert.Error(t, err)
}

func TestQueryFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/orders?status=shipped", nil)
	assert.Equal(t, "shipped", Query(r, "status", ""))
	assert.Equal(t, "pending", Query(r, "missing", "pending"))
}
