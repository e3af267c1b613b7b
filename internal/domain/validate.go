package domain

import (
	"errors"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("halfstep", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Mod(f*2, 1) == 0
	})
	return v
}

// Validate reports the first offending field as an InvalidArgumentError.
func (p PageRequest) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	if verrs[0].Field() == "Limit" {
		return InvalidLimit(strconv.Itoa(p.Limit))
	}
	return InvalidPage(strconv.Itoa(p.Page))
}

// Validate checks every record of the fixture and that reviews only point at
// users and companies present in it.
func (f Fixture) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	users := make(map[string]struct{}, len(f.Users))
	for _, u := range f.Users {
		users[u.ID] = struct{}{}
	}
	companies := make(map[string]struct{}, len(f.Companies))
	for _, c := range f.Companies {
		companies[c.ID] = struct{}{}
	}
	for _, r := range f.Reviews {
		if _, ok := users[r.ReviewerID]; !ok {
			return errors.New("review " + r.ID + ": unknown reviewer " + r.ReviewerID)
		}
		if _, ok := companies[r.CompanyID]; !ok {
			return errors.New("review " + r.ID + ": unknown company " + r.CompanyID)
		}
	}
	return nil
}
