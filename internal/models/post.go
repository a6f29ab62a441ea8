package models

// Post represents a post in the content platform.
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Text        *string `json:"text,omitempty"`
	Description *string `json:"description,omitempty"`
	// Liked is not persisted; it is computed per read relative to the
	// viewer id supplied to the query. Absent viewer means always false.
	Liked bool `json:"liked"`

	// Author is the embedded owning user, projected with password, session
	// codes and settings stripped. Email visibility follows the author's
	// DisplayEmail setting.
	Author *User `json:"author,omitempty"`
}
