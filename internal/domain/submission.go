package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the review state of a submission.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Submission is a cafe proposed by a user, waiting for admin review.
//
// pending -> approved | rejected. Reviewed submissions never go back to pending.
type Submission struct {
	ID          string           `json:"id"`
	Cafe        Cafe             `json:"cafe"`
	Status      SubmissionStatus `json:"status"`
	SubmittedAt time.Time        `json:"submittedAt"`
	ReviewedAt  time.Time        `json:"reviewedAt,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// NewSubmission wraps a cafe into a pending submission with a fresh id.
// The cafe takes the submission id so an approved listing keeps it.
func NewSubmission(cafe Cafe, now time.Time) *Submission {
	id := uuid.NewString()
	cafe.ID = id
	cafe.Source = SourceSubmission
	return &Submission{
		ID:          id,
		Cafe:        cafe,
		Status:      StatusPending,
		SubmittedAt: now,
	}
}

// Review moves a pending submission to approved or rejected.
// It returns false if the submission was already reviewed.
func (s *Submission) Review(approve bool, note string, now time.Time) bool {
	if s.Status != StatusPending {
		return false
	}
	if approve {
		s.Status = StatusApproved
		s.Cafe.CreatedAt = now
	} else {
		s.Status = StatusRejected
	}
	s.ReviewedAt = now
	s.Note = note
	return true
}
