package appointment

import (
	"strings"

	"github.com/BruksfildServices01/booking-api/internal/httperr"
)

const (
	MinRating = 1
	MaxRating = 5

	NoCommentFeedback = "no comment"
)

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return httperr.ErrField("invalid_rating", "rating", "must be between 1 and 5")
	}
	return nil
}

// CanReview allows a review once work has started; reviewing forces the
// appointment to completed.
func CanReview(current Status, alreadyRated bool) error {
	if alreadyRated {
		return httperr.ErrIllegalState("already_reviewed")
	}
	if current != StatusInProgress && current != StatusCompleted {
		return httperr.ErrIllegalState("appointment_not_reviewable")
	}
	return nil
}

func ReviewFeedback(feedback string) string {
	if strings.TrimSpace(feedback) == "" {
		return NoCommentFeedback
	}
	return feedback
}

// NextAverage folds one more rating into a running mean over total ratings.
func NextAverage(average float64, total int, rating int) (float64, int) {
	next := total + 1
	return (average*float64(total) + float64(rating)) / float64(next), next
}
