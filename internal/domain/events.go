package domain

// Subjects of the domain events published on the message bus.
const (
	SubjectListingCreated        = "listing.created"
	SubjectListingUpdated        = "listing.updated"
	SubjectListingDeleted        = "listing.deleted"
	SubjectReviewCreated         = "review.created"
	SubjectReviewReplied         = "review.replied"
	SubjectReviewDeleted         = "review.deleted"
	SubjectVendorCreated         = "vendor.created"
	SubjectVendorApproval        = "vendor.approval.updated"
	SubjectVerificationUpdated   = "vendor.verification.updated"
	SubjectVerificationSubmitted = "vendor.verification.submitted"
	SubjectInquiryCreated        = "inquiry.created"
	SubjectUserRegistered        = "user.registered"
)
