package playerstats

import (
	"context"
	"time"
)

// Repository stores computed careers alongside the time they were folded.
type Repository interface {
	GetCareer(ctx context.Context, playerID string) (Career, time.Time, bool, error)
	SaveCareer(ctx context.Context, career Career, computedAt time.Time) error
}
