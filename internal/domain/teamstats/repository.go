package teamstats

import (
	"context"
	"time"
)

// Repository stores computed team records.
type Repository interface {
	GetRecord(ctx context.Context, teamID string) (Record, time.Time, bool, error)
	SaveRecord(ctx context.Context, record Record, computedAt time.Time) error
}
