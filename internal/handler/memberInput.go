package handler

import (
	"fmt"
	"strings"

	"github.com/cradoe/memberreg/internal/models"
	"github.com/cradoe/memberreg/internal/validator"
)

type childInput struct {
	ID       int64       `json:"id"`
	FullName string      `json:"full_name" validate:"required,max=200"`
	Birthday models.Date `json:"birthday" validate:"required"`
}

type parentInput struct {
	ID           int64       `json:"id"`
	FullName     string      `json:"full_name" validate:"required,max=200"`
	Birthday     models.Date `json:"birthday" validate:"required"`
	Relationship string      `json:"relationship" validate:"required,oneof=Father Mother Inlaw"`
}

// memberInput is the body of both registration and update. On update the
// children and parents lists are the member's complete set of dependants.
type memberInput struct {
	NationalID     string        `json:"national_id" validate:"required,min=3,max=20"`
	IDType         string        `json:"id_type" validate:"required,oneof=GhCard Passport"`
	FirstName      string        `json:"first_name" validate:"required,max=100"`
	MiddleName     string        `json:"middle_name" validate:"max=100"`
	LastName       string        `json:"last_name" validate:"required,max=100"`
	Gender         string        `json:"gender" validate:"required,oneof=Male Female"`
	Birthday       models.Date   `json:"birthday" validate:"required"`
	SpouseFullname string        `json:"spouse_fullname" validate:"max=200"`
	SpouseBirthday models.Date   `json:"spouse_birthday"`
	Email          string        `json:"email" validate:"required,email,max=255"`
	Telephone      string        `json:"telephone" validate:"required,max=50"`
	Residence      string        `json:"residence" validate:"required"`
	Underlying     bool          `json:"underlying"`
	Condition      string        `json:"condition"`
	Declaration    bool          `json:"declaration"`
	DocumentURL    string        `json:"document_url" validate:"omitempty,url"`
	Children       []childInput  `json:"children" validate:"dive"`
	Parents        []parentInput `json:"parents" validate:"dive"`

	Validator validator.Validator `json:"-"`
}

// normalize trims every text field and lower-cases the email.
func (input *memberInput) normalize() {
	input.NationalID = strings.TrimSpace(input.NationalID)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.MiddleName = strings.TrimSpace(input.MiddleName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.SpouseFullname = strings.TrimSpace(input.SpouseFullname)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Telephone = strings.TrimSpace(input.Telephone)
	input.Residence = strings.TrimSpace(input.Residence)
	input.Condition = strings.TrimSpace(input.Condition)
	input.DocumentURL = strings.TrimSpace(input.DocumentURL)

	for i := range input.Children {
		input.Children[i].FullName = strings.TrimSpace(input.Children[i].FullName)
	}
	for i := range input.Parents {
		input.Parents[i].FullName = strings.TrimSpace(input.Parents[i].FullName)
	}
}

func (input *memberInput) validate() {
	v := &input.Validator

	v.CheckStruct(input)

	v.Check(!input.Birthday.InFuture(), "birthday must not be in the future")

	hasSpouseName := input.SpouseFullname != ""
	hasSpouseBirthday := !input.SpouseBirthday.IsZero()
	v.Check(!hasSpouseName || hasSpouseBirthday, "spouse_birthday is required when spouse_fullname is provided")
	v.Check(hasSpouseName || !hasSpouseBirthday, "spouse_fullname is required when spouse_birthday is provided")
	v.Check(!input.SpouseBirthday.InFuture(), "spouse_birthday must not be in the future")

	v.Check(!input.Underlying || validator.NotBlank(input.Condition), "condition is required when underlying is true")

	for i, child := range input.Children {
		v.Check(!child.Birthday.InFuture(), fmt.Sprintf("children[%d].birthday must not be in the future", i))
	}
	for i, parent := range input.Parents {
		v.Check(!parent.Birthday.InFuture(), fmt.Sprintf("parents[%d].birthday must not be in the future", i))
	}
}

func (input *memberInput) toPerson() *models.Person {
	person := &models.Person{
		NationalID:     input.NationalID,
		IDType:         input.IDType,
		FirstName:      input.FirstName,
		MiddleName:     input.MiddleName,
		LastName:       input.LastName,
		Gender:         input.Gender,
		Birthday:       input.Birthday,
		SpouseFullname: input.SpouseFullname,
		SpouseBirthday: input.SpouseBirthday,
		Email:          input.Email,
		Telephone:      input.Telephone,
		Residence:      input.Residence,
		Underlying:     input.Underlying,
		Condition:      input.Condition,
		Declaration:    input.Declaration,
		DocumentURL:    input.DocumentURL,
		Children:       make([]models.Child, len(input.Children)),
		Parents:        make([]models.Parent, len(input.Parents)),
	}

	for i, child := range input.Children {
		person.Children[i] = models.Child{
			ID:       child.ID,
			FullName: child.FullName,
			Birthday: child.Birthday,
		}
	}

	for i, parent := range input.Parents {
		person.Parents[i] = models.Parent{
			ID:           parent.ID,
			FullName:     parent.FullName,
			Birthday:     parent.Birthday,
			Relationship: parent.Relationship,
		}
	}

	return person
}
