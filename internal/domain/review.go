package domain

import "time"

// Reply is the single answer a vendor may post to a review.
type Reply struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Review is a buyer's rating of a listing.
type Review struct {
	ID                 string    `json:"id"`
	ListingID          string    `json:"listingId"`
	VendorID           *string   `json:"vendorId,omitempty"`
	BuyerID            string    `json:"buyerId"`
	BuyerName          string    `json:"buyerName"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Reply              *Reply    `json:"reply,omitempty"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ValidRating reports whether r lies in 1..5.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}

type ReviewInput struct {
	ListingID          string  `json:"listingId" validate:"required"`
	VendorID           *string `json:"vendorId,omitempty"`
	BuyerID            string  `json:"buyerId" validate:"required"`
	BuyerName          string  `json:"buyerName" validate:"required,max=100"`
	Rating             int     `json:"rating" validate:"required,min=1,max=5"`
	Title              string  `json:"title" validate:"required,max=150"`
	Description        string  `json:"description" validate:"max=2000"`
	IsVerifiedPurchase bool    `json:"isVerifiedPurchase"`
}
