package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type offerInput struct {
	Code        string  `json:"code" validate:"required,alpha_dash,min=3,max=32"`
	Type        string  `json:"type" validate:"required,in=percentage,amount"`
	Value       float64 `json:"value" validate:"required,gt=0"`
	MaxDiscount float64 `json:"max_discount" validate:"nullable,gte=0"`
	ExpiryDate  string  `json:"expiry_date" validate:"required,date"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(offerInput{
		Code:       "SAVE15",
		Type:       "percentage",
		Value:      15,
		ExpiryDate: "2026-12-31",
	})
	assert.Empty(t, errs)
}

func TestStructRequired(t *testing.T) {
	errs := Struct(offerInput{Type: "percentage", Value: 10, ExpiryDate: "2026-12-31"})
	assert.Contains(t, errs, "code")
	assert.Equal(t, "The code field is required.", errs["code"])
}

func TestStructInRule(t *testing.T) {
	errs := Struct(offerInput{Code: "SAVE15", Type: "bogus", Value: 10, ExpiryDate: "2026-12-31"})
	assert.Contains(t, errs, "type")

	errs = Struct(offerInput{Code: "SAVE15", Type: "amount", Value: 10, ExpiryDate: "2026-12-31"})
	assert.NotContains(t, errs, "type")
}

func TestStructNumericBounds(t *testing.T) {
	errs := Struct(offerInput{Code: "SAVE15", Type: "percentage", Value: -5, ExpiryDate: "2026-12-31"})
	assert.Contains(t, errs, "value")
}

func TestStructNullableSkipsEmpty(t *testing.T) {
	errs := Struct(offerInput{Code: "SAVE15", Type: "percentage", Value: 5, ExpiryDate: "2026-12-31"})
	assert.NotContains(t, errs, "max_discount")
}

func TestStructStringLength(t *testing.T) {
	errs := Struct(offerInput{Code: "ab", Type: "percentage", Value: 5, ExpiryDate: "2026-12-31"})
	assert.Equal(t, "The code must be at least 3 characters.", errs["code"])
}

func TestStructDate(t *testing.T) {
	errs := Struct(offerInput{Code: "SAVE15", Type: "percentage", Value: 5, ExpiryDate: "not-a-date"})
	assert.Contains(t, errs, "expiry_date")
}

type emailInput struct {
	Email string `json:"email" validate:"required,email"`
}

func TestStructEmail(t *testing.T) {
	assert.Empty(t, Struct(emailInput{Email: "pets@petpalace.in"}))
	assert.Contains(t, Struct(emailInput{Email: "nope"}), "email")
}

type idInput struct {
	ParentID string `json:"parent_id" validate:"nullable,objectid"`
}

func TestStructObjectID(t *testing.T) {
	assert.Empty(t, Struct(idInput{}))
	assert.Empty(t, Struct(idInput{ParentID: "64a1f0b2c3d4e5f601234567"}))
	assert.Contains(t, Struct(idInput{ParentID: "xyz"}), "parent_id")
}

type rangeInput struct {
	Rating int `json:"rating" validate:"required,between=1,5"`
}

func TestStructBetween(t *testing.T) {
	assert.Empty(t, Struct(rangeInput{Rating: 4}))
	assert.Contains(t, Struct(rangeInput{Rating: 9}), "rating")
}
