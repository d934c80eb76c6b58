package models

// Page is a database row as returned by a database query
type Page struct {
	Object   string `json:"object"`
	ID       string `json:"id"`
	URL      string `json:"url,omitempty"`
	Archived bool   `json:"archived,omitempty"`
}
