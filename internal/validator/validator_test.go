package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type childInput struct {
	FullName string `json:"full_name" validate:"required"`
}

type registrationInput struct {
	NationalID string       `json:"national_id" validate:"required,min=3,max=20"`
	IDType     string       `json:"id_type" validate:"oneof=GhCard Passport"`
	Email      string       `json:"email" validate:"required,email"`
	Children   []childInput `json:"children" validate:"dive"`
	Validator  Validator    `json:"-"`
}

func TestCheckStruct(t *testing.T) {
	input := registrationInput{
		NationalID: "AB",
		IDType:     "Licence",
		Email:      "not-an-email",
		Children:   []childInput{{FullName: "Esi"}, {}},
	}

	input.Validator.CheckStruct(input)

	assert.True(t, input.Validator.HasErrors())
	assert.ElementsMatch(t, []string{
		"national_id must be at least 3 characters",
		"id_type must be one of: GhCard, Passport",
		"email must be a valid email address",
		"children[1].full_name is required",
	}, input.Validator.Errors)
}

func TestCheckStructValid(t *testing.T) {
	input := registrationInput{
		NationalID: "GHA-123",
		IDType:     "Passport",
		Email:      "ama@example.com",
	}

	input.Validator.CheckStruct(input)

	assert.False(t, input.Validator.HasErrors())
}

func TestCheck(t *testing.T) {
	var v Validator

	v.Check(NotBlank("  "), "residence is required")
	v.Check(In("Inlaw", "Father", "Mother", "Inlaw"), "relationship is invalid")
	v.Check(MaxRunes("Ɛsi", 3), "too long")
	v.Check(MaxRunes("Kwame", 3), "too long")

	assert.Equal(t, []string{"residence is required", "too long"}, v.Errors)
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("desk@example.org"))
	assert.False(t, IsEmail("desk@"))
	assert.False(t, IsEmail(""))
}
