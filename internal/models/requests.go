package models

import (
	"fmt"

	"github.com/desertthunder/trackrate/internal/shared"
)

var (
	_ Validator = NewAccount{}
	_ Validator = AccountUpdate{}
	_ Validator = NewReview{}
	_ Validator = ReviewUpdate{}
	_ Validator = TrackUpdate{}
)

// NewAccount is a request to register an account. Email may be empty.
type NewAccount struct {
	Login     string `json:"login"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

func (a NewAccount) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"login", a.Login},
		{"firstname", a.FirstName},
		{"lastname", a.LastName},
		{"password", a.Password},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if _, err := ParseRole(string(a.Role)); err != nil {
		return err
	}
	return nil
}

// AccountUpdate changes an account's names and email. Login is matched case-insensitively.
type AccountUpdate struct {
	Login     string `json:"login"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
}

func (a AccountUpdate) Validate() error {
	if err := required("login", a.Login); err != nil {
		return err
	}
	if err := required("firstname", a.FirstName); err != nil {
		return err
	}
	return required("lastname", a.LastName)
}

// NewReview is a customer's review of a track. A zero ReviewDate means today.
type NewReview struct {
	TrackID       int64  `json:"trackid"`
	Rating        int    `json:"rating"`
	CustomerLogin string `json:"customer_login"`
	Content       string `json:"content"`
	ReviewDate    Date   `json:"review_date"`
}

func (r NewReview) Validate() error {
	if r.TrackID <= 0 {
		return fmt.Errorf("%w: trackid must be positive", shared.ErrInvalidInput)
	}
	if err := validRating(r.Rating); err != nil {
		return err
	}
	return required("customer_login", r.CustomerLogin)
}

// ReviewUpdate changes a review's rating and content. The review date moves to today.
type ReviewUpdate struct {
	ID      int64  `json:"reviewid"`
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

func (r ReviewUpdate) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("%w: reviewid must be positive", shared.ErrInvalidInput)
	}
	return validRating(r.Rating)
}

// TrackUpdate replaces a track's details. Singer and composer must be Artist logins.
type TrackUpdate struct {
	ID             int64  `json:"trackid"`
	Title          string `json:"title"`
	Duration       int    `json:"duration"`
	AgeRestriction bool   `json:"age_restriction"`
	SingerLogin    string `json:"singer_login"`
	ComposerLogin  string `json:"composer_login"`
}

func (t TrackUpdate) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("%w: trackid must be positive", shared.ErrInvalidInput)
	}
	if err := required("title", t.Title); err != nil {
		return err
	}
	if t.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", shared.ErrInvalidInput)
	}
	if err := required("singer_login", t.SingerLogin); err != nil {
		return err
	}
	return required("composer_login", t.ComposerLogin)
}
