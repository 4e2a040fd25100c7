// Package entity defines the domain models for the movies feature.
package entity

import "time"

// Movie represents one title in the personal collection.
// Rating, Ranking and Review stay nil until the user edits the record
// or the collection is listed for the first time.
type Movie struct {
	// ID is assigned by the store and never reused.
	ID uint `gorm:"primaryKey"`

	Title string `gorm:"size:255;uniqueIndex;not null"`

	Year int `gorm:"not null"`

	Description string `gorm:"type:text;uniqueIndex;not null"`

	// Rating is the user's score out of 10.
	Rating *float64

	// Ranking is derived from rating order on every listing; it is not authoritative.
	Ranking *int

	Review *string `gorm:"type:text"`

	ImageURL string `gorm:"column:img_url;size:255;uniqueIndex;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
