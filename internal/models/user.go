package models

import "time"

// User captures a registered account as stored in the users table.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	JoinAt       time.Time `json:"join_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// Summary projects the public profile fields of the user.
func (u User) Summary() UserSummary {
	return UserSummary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// UserSummary is the public profile embedded in listings and message payloads.
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// NewUser holds the fields required to insert a user. PasswordHash must already
// be the output of a one-way hash; the store persists it verbatim.
type NewUser struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
}
