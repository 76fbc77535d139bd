package domain

import (
	"strings"
	"time"
)

// User is a registered account.
type User struct {
	ID           int64                `json:"id"`
	Email        string               `json:"email"`
	Username     string               `json:"username"`
	PasswordHash string               `json:"-"`
	Profile      Profile              `json:"profile"`
	Votes        map[int64]VoteStatus `json:"votes,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Registration is the input accepted when creating an account.
type Registration struct {
	Email    string
	Username string
	Password string
	Profile  Profile
}

// Validate trims the credentials and normalizes the profile.
func (r Registration) Validate() (Registration, error) {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.TrimSpace(r.Username)
	if r.Email == "" || r.Username == "" || r.Password == "" || !strings.Contains(r.Email, "@") {
		return Registration{}, ErrInvalidInput
	}
	profile, err := r.Profile.Normalize()
	if err != nil {
		return Registration{}, err
	}
	r.Profile = profile
	return r, nil
}
