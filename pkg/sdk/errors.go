package paperlens

import "github.com/kailas-cloud/paperlens/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound                = domain.ErrNotFound
	ErrPaperNotFound           = domain.ErrPaperNotFound
	ErrInvalidInput            = domain.ErrInvalidInput
	ErrRateLimited             = domain.ErrRateLimited
	ErrCompletionQuotaExceeded = domain.ErrCompletionQuotaExceeded
	ErrCompletionFailed        = domain.ErrCompletionFailed
)
