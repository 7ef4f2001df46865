package printer

import "math"

// EstimateRemaining extrapolates remaining minutes linearly from progress
// (0-1) and elapsed print seconds. It returns nil when either input is
// missing or not positive.
func EstimateRemaining(progress, elapsed *float64) *int {
	if progress == nil || *progress <= 0 || elapsed == nil || *elapsed <= 0 {
		return nil
	}

	total := *elapsed / *progress
	remaining := int(math.RoundToEven((total - *elapsed) / 60))
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
