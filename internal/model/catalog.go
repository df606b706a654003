package model

// CatalogEntry is one row of the static in-game item catalog, used to
// pre-fill listing forms. The catalog table is read-only from this service's
// perspective; it has no id column and is never written.
type CatalogEntry struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Tier     int    `json:"tier"`
	Type     string `json:"type"`
}
