package model

import "time"

// PropertyDocument is the index record linking a stored PDF artifact to a
// property. FileName doubles as the object storage key (under the documents/
// prefix) and is derived from the template name plus a generation timestamp.
// A record should exist exactly when its blob does; the generate pipeline's
// two-step commit leaves a documented window where a blob has no record.
type PropertyDocument struct {
	FileName   string    `json:"file_name"`
	PropertyID string    `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}
