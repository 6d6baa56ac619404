package model

// Document type tags as they appear in the stored JSON.
const (
	TypePost = "post"
	TypeUser = "user"
)

// Post is a single microblog message. The store assigns its identifier;
// posts are immutable once saved.
type Post struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	User        string `json:"user"`
	DateCreated string `json:"dateCreated"`
}

// User is a registered author. The document key is the user id supplied at
// registration; Password holds a bcrypt hash, never the submitted value.
type User struct {
	Type        string `json:"type"`
	Password    string `json:"password"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	WebsiteURL  string `json:"websiteUrl,omitempty"`
	DateCreated string `json:"dateCreated"`
}

// Credentials is the user id / password pair decoded from a request's
// Authorization header. Request-scoped, never persisted.
type Credentials struct {
	UserID   string
	Password string
}
