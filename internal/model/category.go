package model

import "time"

// Category classifies auctions. The service layer checks title uniqueness
// for the friendly conflict error; the unique index backstops concurrent
// creates. Image holds either a managed storage key or a legacy absolute URL.
type Category struct {
	ID    uint    `json:"id" gorm:"primaryKey"`
	Title string  `json:"title" gorm:"size:255;not null;uniqueIndex"`
	Image *string `json:"image,omitempty" gorm:"size:512"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Auctions []Auction `json:"-" gorm:"foreignKey:CategoryID"`
}

// EnrichedCategory is a category plus its derived display URL. ImageURL is
// computed per read and never persisted.
type EnrichedCategory struct {
	Category
	ImageURL string `json:"imageUrl,omitempty"`
}
