package models

// SentinelID marks a category or type created client-side and not yet
// confirmed by the server. The server assigns the real id when the record
// first round-trips inside an asset payload.
const SentinelID = 0

type Category struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// AssetType is always scoped to exactly one category.
type AssetType struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
