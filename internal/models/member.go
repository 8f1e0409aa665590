package models

import (
	"time"
)

// identification documents accepted at registration
const (
	IDTypeGhCard   = "GhCard"
	IDTypePassport = "Passport"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// relationship of a dependant parent to the member
const (
	RelationshipFather = "Father"
	RelationshipMother = "Mother"
	RelationshipInlaw  = "Inlaw"
)

var (
	IDTypes       = []string{IDTypeGhCard, IDTypePassport}
	Genders       = []string{GenderMale, GenderFemale}
	Relationships = []string{RelationshipFather, RelationshipMother, RelationshipInlaw}
)

// Person is the registered member. Children and Parents are loaded separately.
type Person struct {
	ID             int64     `db:"id"`
	NationalID     string    `db:"national_id"`
	IDType         string    `db:"id_type"`
	FirstName      string    `db:"first_name"`
	MiddleName     string    `db:"middle_name"`
	LastName       string    `db:"last_name"`
	Gender         string    `db:"gender"`
	Birthday       Date      `db:"birthday"`
	SpouseFullname string    `db:"spouse_fullname"`
	SpouseBirthday Date      `db:"spouse_birthday"`
	Email          string    `db:"email"`
	Telephone      string    `db:"telephone"`
	Residence      string    `db:"residence"`
	Underlying     bool      `db:"underlying"`
	Condition      string    `db:"condition"`
	Declaration    bool      `db:"declaration"`
	DocumentURL    string    `db:"document_url"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`

	Children []Child  `db:"-"`
	Parents  []Parent `db:"-"`
}

func (p *Person) FullName() string {
	if p.MiddleName == "" {
		return p.FirstName + " " + p.LastName
	}
	return p.FirstName + " " + p.MiddleName + " " + p.LastName
}

type Child struct {
	ID        int64     `db:"id"`
	PersonID  int64     `db:"person_id"`
	FullName  string    `db:"full_name"`
	Birthday  Date      `db:"birthday"`
	CreatedAt time.Time `db:"created_at"`
}

type Parent struct {
	ID           int64     `db:"id"`
	PersonID     int64     `db:"person_id"`
	FullName     string    `db:"full_name"`
	Birthday     Date      `db:"birthday"`
	Relationship string    `db:"relationship"`
	CreatedAt    time.Time `db:"created_at"`
}

// MemberFilter narrows the member listing. A zero Limit returns every match.
type MemberFilter struct {
	Search string
	Limit  int
	Offset int
}

// DependantChanges counts the rows one update created, updated and deleted.
type DependantChanges struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// MemberUpdate is the outcome of updating a member: the stored record and
// what happened to each dependant collection.
type MemberUpdate struct {
	Member   *Person
	Children DependantChanges
	Parents  DependantChanges
}
