package domain

import "time"

// WishlistEntry is unique per (UserID, ListingID).
type WishlistEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ListingID string    `json:"listingId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartEntry holds a positive quantity of one listing for one user.
type CartEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ListingID string    `json:"listingId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Matches reports whether the entry belongs to the given user and listing.
func (c CartEntry) Matches(userID, listingID string) bool {
	return c.UserID == userID && c.ListingID == listingID
}

func (w WishlistEntry) Matches(userID, listingID string) bool {
	return w.UserID == userID && w.ListingID == listingID
}

// CartLine is a cart entry joined with its listing.
type CartLine struct {
	Entry    CartEntry `json:"entry"`
	Listing  Listing   `json:"listing"`
	Subtotal int64     `json:"subtotal"`
}

// CartSummary is the priced content of a user's cart. Entries whose listing no
// longer exists are reported in Missing and excluded from Total.
type CartSummary struct {
	Lines   []CartLine `json:"lines"`
	Missing []string   `json:"missing,omitempty"`
	Items   int        `json:"items"`
	Total   int64      `json:"total"`
}
