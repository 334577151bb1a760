package domain

import "time"

// Account models a registered user keyed by mobile number.
type Account struct {
	ID           uint64    `json:"id"`
	FullName     string    `json:"fullName"`
	MobileNumber string    `json:"mobileNumber"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sanitized returns a copy safe to hand to presentation layers: same account
// with the password hash cleared.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	return a
}
