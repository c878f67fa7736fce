package domain

// Profile is the authenticated customer's account profile as held by the
// tenant backend.
type Profile struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	County  string `json:"county,omitempty"`
	Address string `json:"address,omitempty"`
}

// Policy is a tenant-authored informational page.
type Policy struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
