package domain

import "time"

// Review is read-only from this service's point of view; rows are written by the seeder.
type Review struct {
	ID         string    `json:"id" validate:"required,max=64"`
	ReviewText *string   `json:"reviewText"`
	Rating     float64   `json:"rating" validate:"min=0,max=5,halfstep"`
	CreatedOn  time.Time `json:"createdOn" validate:"required"`
	ReviewerID string    `json:"reviewerId" validate:"required"`
	CompanyID  string    `json:"companyId" validate:"required"`
	User       Reviewer  `json:"user" validate:"-"`
	Company    Company   `json:"company" validate:"-"`
}

// Reviewer is the user who wrote a review. Email is always present; the name
// parts are optional.
type Reviewer struct {
	ID        string  `json:"id" validate:"required,max=64"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     string  `json:"email" validate:"required,email"`
}

// DisplayName joins whichever name parts are present.
func (u Reviewer) DisplayName() string {
	switch {
	case u.FirstName != nil && u.LastName != nil:
		return *u.FirstName + " " + *u.LastName
	case u.FirstName != nil:
		return *u.FirstName
	case u.LastName != nil:
		return *u.LastName
	}
	return ""
}

type Company struct {
	ID   string `json:"id" validate:"required,max=64"`
	Name string `json:"name" validate:"required"`
}

// Fixture is the seed payload accepted by the seeder. Reviews reference users
// and companies by ID; their embedded User/Company values are ignored on import.
type Fixture struct {
	Users     []Reviewer `json:"users" validate:"dive"`
	Companies []Company  `json:"companies" validate:"dive"`
	Reviews   []Review   `json:"reviews" validate:"dive"`
}
