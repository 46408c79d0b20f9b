package domain

import (
	"fmt"
	"slices"
	"time"
)

// VerificationStatus is the trust state of a vendor.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "Unverified"
	VerificationPending    VerificationStatus = "Pending"
	VerificationVerified   VerificationStatus = "Verified"
	VerificationRejected   VerificationStatus = "Rejected"
)

// IsValid checks if the VerificationStatus is one of the defined constants.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationUnverified, VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is an administrative outcome.
func (s VerificationStatus) IsDecision() bool {
	return s == VerificationVerified || s == VerificationRejected
}

// verificationTransitions lists every legal move. Pending to Pending covers a
// vendor adding documents while a review is still open.
var verificationTransitions = map[VerificationStatus][]VerificationStatus{
	VerificationUnverified: {VerificationPending},
	VerificationPending:    {VerificationPending, VerificationVerified, VerificationRejected},
	VerificationRejected:   {VerificationPending},
	VerificationVerified:   {},
}

// CanTransition reports whether a vendor may move from one status to another.
func CanTransition(from, to VerificationStatus) bool {
	return slices.Contains(verificationTransitions[from], to)
}

type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type HistoryEntry struct {
	Status  VerificationStatus `json:"status"`
	Date    time.Time          `json:"date"`
	Comment string             `json:"comment,omitempty"`
}

// Verification is the per-vendor verification record. History only grows, and
// once it is non-empty Status equals the status of its last entry.
type Verification struct {
	ID        string             `json:"id"`
	VendorID  string             `json:"vendorId"`
	Status    VerificationStatus `json:"status"`
	Documents []Document         `json:"documents"`
	History   []HistoryEntry     `json:"history"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// NewVerification returns the implicit initial record of a vendor.
func NewVerification(id, vendorID string) *Verification {
	return &Verification{
		ID:        id,
		VendorID:  vendorID,
		Status:    VerificationUnverified,
		Documents: []Document{},
		History:   []HistoryEntry{},
	}
}

func (v *Verification) transition(to VerificationStatus, comment string, at time.Time) error {
	if !CanTransition(v.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, v.Status, to)
	}
	v.Status = to
	v.History = append(v.History, HistoryEntry{Status: to, Date: at, Comment: comment})
	v.UpdatedAt = at
	return nil
}

// SubmitDocuments moves the record to Pending, extends the document list and
// appends exactly one history entry.
func (v *Verification) SubmitDocuments(docs []Document, at time.Time) error {
	if len(docs) == 0 {
		return fmt.Errorf("%w: at least one document is required", ErrInvalidInput)
	}
	if err := v.transition(VerificationPending, "", at); err != nil {
		return err
	}
	v.Documents = append(v.Documents, docs...)
	return nil
}

// Decide records an administrative outcome. Only Verified and Rejected are accepted.
func (v *Verification) Decide(status VerificationStatus, comment string, at time.Time) error {
	if !status.IsDecision() {
		return fmt.Errorf("%w: %q is not an administrative decision", ErrIllegalTransition, status)
	}
	return v.transition(status, comment, at)
}

// Clone returns a deep copy.
func (v *Verification) Clone() *Verification {
	if v == nil {
		return nil
	}
	out := *v
	out.Documents = slices.Clone(v.Documents)
	out.History = slices.Clone(v.History)
	return &out
}
