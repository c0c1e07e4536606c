package usecase

import "time"

const (
	// defaultPageSize bounds list queries.
	defaultPageSize = 20
	maxPageSize     = 100

	// rateCacheTTL is how long period-end rates stay cached.
	rateCacheTTL = 1 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
