package models

import "time"

type Stadium struct {
	ID   string `gorm:"type:uuid;primaryKey"`
	Name string `gorm:"uniqueIndex"`

	// MapsShortURL is the admin-pasted maps.app.goo.gl link; MapsEmbedURL is
	// the expanded embeddable URL derived from it, empty when expansion
	// failed or was skipped.
	MapsShortURL string
	MapsEmbedURL string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
