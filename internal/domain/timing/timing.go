// Package timing normalizes raw race times across courses of different
// length and difficulty.
package timing

import (
	"errors"
	"fmt"

	"github.com/okian/harrier/internal/domain/model"
)

// StandardFiveKMiles is the length of the standardized 5 km course every
// adjusted time is mapped onto.
const StandardFiveKMiles = 5 * 0.621371

// ErrNoTime is returned when a computation needs a finish time the result
// does not carry.
var ErrNoTime = errors.New("result has no recorded time")

// Pace returns the result's time per mile, in milliseconds, on the race's
// own course.
func Pace(res model.Result, course model.Course) (float64, error) {
	if !res.Completed() {
		return 0, ErrNoTime
	}
	return float64(res.Time) / course.Distance, nil
}

// AdjustedTime maps the result onto the standardized 5 km course, in
// milliseconds, using the course's difficulty adjustment. Adjusted times are
// comparable across courses.
func AdjustedTime(res model.Result, course model.Course) (float64, error) {
	pace, err := Pace(res, course)
	if err != nil {
		return 0, err
	}
	return pace * (1 + course.Adjustment) * StandardFiveKMiles, nil
}

// FormatTime renders milliseconds as M:SS with up to three fractional
// digits. All components truncate; there is no rounding.
func FormatTime(ms int64, decimals int) string {
	if ms < 0 {
		ms = 0
	}
	mins := ms / 60_000
	rem := ms % 60_000
	secs := rem / 1_000
	if decimals <= 0 {
		return fmt.Sprintf("%d:%02d", mins, secs)
	}
	if decimals > 3 {
		decimals = 3
	}
	div := int64(1)
	for i := 0; i < 3-decimals; i++ {
		div *= 10
	}
	frac := (rem % 1_000) / div
	return fmt.Sprintf("%d:%02d.%0*d", mins, secs, decimals, frac)
}
