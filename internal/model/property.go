package model

import "time"

// Property is a registered property that generated documents are linked to.
// The document pipeline only cares about its ID; the address attributes exist
// for listing and display.
type Property struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	CreatedAt time.Time `json:"created_at"`

	// DocumentCount is populated by listing queries only; it is not a column.
	DocumentCount int `json:"document_count"`
}
