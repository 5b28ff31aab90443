package model

import "time"

// Auction is a listing. IDs are sequential and double as the pagination
// cursor; the semantic sort key is creation time, descending.
type Auction struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Title      string `json:"title" gorm:"size:255;not null"`
	Image      string `json:"image" gorm:"size:512;not null"`
	CategoryID *uint  `json:"category_id,omitempty" gorm:"index"`
	UserID     *uint  `json:"user_id,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
	User     *User     `json:"-" gorm:"foreignKey:UserID"`
}

// EnrichedAuction is an auction plus its derived display URL. The stored
// image key is never mutated; ImageURL is attached at read time.
type EnrichedAuction struct {
	Auction
	ImageURL string `json:"imageUrl"`
}

// AuctionPage is one page of a keyset-paginated listing walk.
type AuctionPage struct {
	Items      []EnrichedAuction `json:"items"`
	NextCursor *uint             `json:"nextCursor"`
	HasMore    bool              `json:"hasMore"`
}
