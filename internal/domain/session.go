package domain

// User is the authenticated user record returned by the auth backend.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the page-lifetime authentication state. Presence of an access
// token alone implies logged-in; the token is not inspected client-side.
// There is exactly one logical writer (the login/logout handlers), so reads
// need no coordination beyond the store's own locking.
type Session struct {
	IsLoggedIn bool  `json:"is_logged_in"`
	User       *User `json:"user,omitempty"`
}
