// Package models contains data structures for the application's domain models.
package models

// DefaultPostsPerPage is the page size a fresh Settings record starts with.
const DefaultPostsPerPage = 10

// User represents a platform user. Email and Password are optional:
// Password is only ever populated on the way in (create, credential check)
// and is never round-tripped on reads; Email may be redacted on reads
// depending on the owner's DisplayEmail setting.
type User struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"-"`

	Settings Settings `json:"settings"`
}

// Settings holds a user's display preferences. Every user owns exactly one
// Settings record, created together with the user.
type Settings struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	PostsPerPage int    `json:"posts_per_page"`
	DisplayEmail bool   `json:"display_email"`
}

// NewUser returns an empty user with default settings.
func NewUser() *User {
	return &User{Settings: NewSettings()}
}

// NewSettings returns settings populated with platform defaults.
func NewSettings() Settings {
	return Settings{
		PostsPerPage: DefaultPostsPerPage,
		DisplayEmail: false,
	}
}
