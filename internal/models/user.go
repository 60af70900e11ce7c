package models

import "time"

// Role is the authorization role attached to a user account
type Role string

const (
	RoleUser      Role = "user"
	RoleMessOwner Role = "mess_owner"
	RoleAdmin     Role = "admin"
)

// Roles lists every assignable role
var Roles = []Role{RoleUser, RoleMessOwner, RoleAdmin}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User represents an account in the system
type User struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Role           Role      `json:"role" db:"role"`
	Phone          *string   `json:"phone" db:"phone"`
	TelegramChatID *int64    `json:"-" db:"telegram_chat_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSummary is the public contact card of a user embedded in other resources
type UserSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// Summary returns the public contact card for the user
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// IsTelegramLinked returns true if the user has linked a Telegram chat
func (u *User) IsTelegramLinked() bool {
	return u.TelegramChatID != nil
}
