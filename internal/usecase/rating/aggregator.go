package rating

import (
	"context"

	domain "github.com/BruksfildServices01/booking-api/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-api/internal/models"
)

type Repository interface {
	LockEmployer(ctx context.Context, id uint) (*models.Employer, error)
	SaveEmployerRating(ctx context.Context, employerID uint, average float64, total int) error
}

// Aggregator keeps an employer's running rating. It must be given a
// transaction-scoped repository: the employer row stays locked from read
// to write.
type Aggregator struct {
	repo Repository
}

func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

// UpdateRating folds rating into the employer's average. The rating is
// expected to be validated already.
func (a *Aggregator) UpdateRating(ctx context.Context, employerID uint, rating int) (*models.Employer, error) {
	employer, err := a.repo.LockEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}

	avg, total := domain.NextAverage(employer.AverageRating, employer.TotalReviews, rating)
	if err := a.repo.SaveEmployerRating(ctx, employer.ID, avg, total); err != nil {
		return nil, err
	}

	employer.AverageRating = avg
	employer.TotalReviews = total
	return employer, nil
}
