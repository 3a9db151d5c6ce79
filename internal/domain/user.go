package domain

import "time"

// User is a person tickets can be assigned to. Usernames are unique and
// case-sensitive.
type User struct {
	Username         string    `json:"username"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	IsAccountManager bool      `json:"is_account_manager"`
	CreatedAt        time.Time `json:"created_at"`
}
