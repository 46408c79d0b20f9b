package domain

import "time"

// Inquiry is a buyer's message about a listing, routed to the listing's vendor.
type Inquiry struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listingId"`
	VendorID   *string   `json:"vendorId,omitempty"`
	BuyerName  string    `json:"buyerName"`
	BuyerEmail string    `json:"buyerEmail"`
	BuyerPhone string    `json:"buyerPhone,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

type InquiryInput struct {
	ListingID  string `json:"listingId" validate:"required"`
	BuyerName  string `json:"buyerName" validate:"required,max=100"`
	BuyerEmail string `json:"buyerEmail" validate:"required,email"`
	BuyerPhone string `json:"buyerPhone,omitempty" validate:"omitempty,whatsapp"`
	Message    string `json:"message" validate:"required,min=10,max=2000"`
}
