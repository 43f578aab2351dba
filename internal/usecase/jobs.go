package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
)

// RecomputeJobPath is the internal route the queue calls back into.
const RecomputeJobPath = "/v1/internal/jobs/recompute-stats"

const (
	EntityPlayer = "player"
	EntityTeam   = "team"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// RecomputeJob is the body of a queued recompute.
type RecomputeJob struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
}

// Recorder receives recompute telemetry. platform/metrics.Manager satisfies it.
type Recorder interface {
	ObserveRecompute(entity string, err error, elapsed time.Duration)
	AddReviewFlags(n int)
	AddRejections(n int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveRecompute(string, error, time.Duration) {}
func (noopRecorder) AddReviewFlags(int)                            {}
func (noopRecorder) AddRejections(int)                             {}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// recomputeDedupKey is stable per entity, match and appended content. A retried
// identical append does not enqueue twice, while a corrected scorecard for the
// same match gets its own job.
func recomputeDedupKey(entity, entityID, matchID string, content any) string {
	return "recompute-" + sanitizeDedupSegment(entity) + "-" + sanitizeDedupSegment(entityID) + "-" + sanitizeDedupSegment(matchID) + "-" + contentDigest(content)
}

func contentDigest(content any) string {
	raw, err := sonic.ConfigStd.Marshal(content)
	if err != nil {
		raw = []byte(fmt.Sprintf("%#v", content))
	}
	return strconv.FormatUint(xxhash.Sum64(raw), 16)
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
