package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/domain/notification"
	"github.com/BruksfildServices01/booking-api/internal/events"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/models"
	"github.com/BruksfildServices01/booking-api/internal/monitoring"
	"github.com/BruksfildServices01/booking-api/internal/usecase/rating"
)

type ReviewInput struct {
	Feedback string
	Rating   int
}

type SubmitReview struct {
	repo Repository
	fx   Effects
	now  func() time.Time
}

func NewSubmitReview(repo Repository, fx Effects) *SubmitReview {
	return &SubmitReview{repo: repo, fx: fx, now: time.Now}
}

// Execute stores the client's review, closes the appointment and folds the
// rating into the employer's average, all in one transaction.
func (uc *SubmitReview) Execute(
	ctx context.Context,
	p identity.Principal,
	appointmentID uint,
	in ReviewInput,
) (*models.Appointment, error) {

	if err := domain.ValidateRating(in.Rating); err != nil {
		return nil, err
	}

	var (
		ap       *models.Appointment
		employer *models.Employer
		previous domain.Status
	)

	err := uc.repo.WithinTx(ctx, func(tx Repository) error {
		var err error
		ap, err = lockAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}

		party, err := resolveParty(ctx, tx, p, ap)
		if err != nil {
			return err
		}
		if party != domain.PartyClient {
			return httperr.ErrForbidden("only_client_can_review")
		}

		if err := domain.CanReview(ap.Status, ap.Rating != nil); err != nil {
			return err
		}

		now := uc.now().UTC()
		feedback := domain.ReviewFeedback(in.Feedback)
		rated := in.Rating

		ap.Feedback = &feedback
		ap.Rating = &rated
		ap.ReviewedAt = &now

		previous = ap.Status
		if !ap.Status.IsTerminal() {
			ap.Status = domain.StatusCompleted
			ap.CompletedAt = &now
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		employer, err = rating.NewAggregator(tx).UpdateRating(ctx, ap.EmployerID, rated)
		return err
	})
	if err != nil {
		return nil, err
	}

	monitoring.ReviewsSubmitted.Observe(float64(in.Rating))

	uc.fx.notify(ctx,
		employer.UserID,
		notification.TypeReviewReceived,
		"New review",
		fmt.Sprintf("You received a %d/5 review.", in.Rating),
		ap,
	)
	uc.fx.record(ctx, p, "appointment_reviewed", ap, map[string]any{
		"rating":         in.Rating,
		"average_rating": employer.AverageRating,
		"total_reviews":  employer.TotalReviews,
	})
	uc.fx.publish(ctx, events.AppointmentReviewed, ap, string(previous))

	return ap, nil
}
