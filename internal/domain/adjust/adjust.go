// Package adjust computes per-course difficulty adjustments by comparing how
// the same runners perform on the target course versus every other course.
package adjust

import (
	"context"
	"sort"
	"time"

	"github.com/okian/harrier/internal/domain/model"
	"github.com/okian/harrier/internal/domain/stats"
)

// Default estimator configuration constants.
const (
	// DefaultMinRunners is the minimum number of shared runner-years a
	// course pair needs before its comparison counts.
	DefaultMinRunners = 20
	// DefaultMaxRunners caps the runner-years used per course pair, keeping
	// the fastest on the target course.
	DefaultMaxRunners = 5000
	// DefaultMinCourses is the minimum number of valid course comparisons
	// needed to publish a nonzero adjustment.
	DefaultMinCourses = 4
	// DefaultWinsorFraction is the share trimmed from each tail of the
	// runner-diff distribution.
	DefaultWinsorFraction = 0.05
	// DefaultFirstYear is the first season whose results feed comparisons.
	DefaultFirstYear = 2019
)

// Status reports whether an adjustment is statistically backed.
type Status string

// Status values.
const (
	StatusOK               Status = "ok"
	StatusInsufficientData Status = "insufficient_data"
)

// CourseDiff is one comparison course's estimate of how much slower (+) or
// faster (-) the target course runs, as a fraction.
type CourseDiff struct {
	OtherCourseID string
	Diff          float64
	Runners       int
}

// Adjustment is the computed difficulty adjustment for one course.
type Adjustment struct {
	CourseID    string
	Value       float64
	Status      Status
	Comparisons []CourseDiff
}

// Dataset is the historical snapshot the adjuster reads. Callers load it
// once; the computation is pure and idempotent over it.
type Dataset struct {
	Courses []model.Course
	Races   []model.Race
	Results []model.Result
}

// Option applies a configuration option to the Adjuster.
type Option func(*Adjuster)

// WithMinRunners sets the minimum shared runner-years per course pair.
func WithMinRunners(n int) Option {
	return func(a *Adjuster) {
		if n > 0 {
			a.minRunners = n
		}
	}
}

// WithMaxRunners caps the runner-years used per course pair.
func WithMaxRunners(n int) Option {
	return func(a *Adjuster) {
		if n > 0 {
			a.maxRunners = n
		}
	}
}

// WithMinCourses sets the minimum valid comparisons required.
func WithMinCourses(n int) Option {
	return func(a *Adjuster) {
		if n > 0 {
			a.minCourses = n
		}
	}
}

// WithWinsorFraction sets the tail fraction trimmed before averaging.
func WithWinsorFraction(f float64) Option {
	return func(a *Adjuster) {
		if f >= 0 && f < 0.5 {
			a.winsorFrac = f
		}
	}
}

// WithFirstYear sets the first eligible season.
func WithFirstYear(year int) Option {
	return func(a *Adjuster) {
		if year > 0 {
			a.firstYear = year
		}
	}
}

// WithYears overrides the eligible-year window entirely.
func WithYears(years []int) Option {
	return func(a *Adjuster) {
		if len(years) > 0 {
			a.years = years
		}
	}
}

// Adjuster computes course difficulty adjustments.
type Adjuster struct {
	minRunners int
	maxRunners int
	minCourses int
	winsorFrac float64
	firstYear  int
	years      []int
}

// New creates an Adjuster with default configuration.
func New(opts ...Option) *Adjuster {
	a := &Adjuster{
		minRunners: DefaultMinRunners,
		maxRunners: DefaultMaxRunners,
		minCourses: DefaultMinCourses,
		winsorFrac: DefaultWinsorFraction,
		firstYear:  DefaultFirstYear,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// runnerYear identifies one runner's season on one course.
type runnerYear struct {
	runnerID string
	year     int
}

// runnerDiff is one shared runner-year's pace comparison between the target
// course and another course.
type runnerDiff struct {
	diff         float64
	courseMedian float64
}

// Compute derives the target course's adjustment from the dataset.
//
// Per comparison course, shared runner-years contribute the percentage
// difference of their median paces; the distribution is winsorized and its
// mean shrunk to the bound of the 95% confidence interval closest to zero.
// The course adjustment is the median over all comparisons with enough
// runners. Fewer than the minimum number of comparisons degrades to zero
// with StatusInsufficientData rather than an error. Championship courses are
// always forced to zero.
func (a *Adjuster) Compute(ctx context.Context, target model.Course, data Dataset) Adjustment {
	paces := a.indexPaces(data)

	var comparisons []CourseDiff
	for _, other := range data.Courses {
		if other.ID == target.ID || other.Championship {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if cd, ok := a.compareCourses(target.ID, other.ID, paces); ok {
			comparisons = append(comparisons, cd)
		}
	}
	sort.Slice(comparisons, func(i, j int) bool {
		return comparisons[i].Diff < comparisons[j].Diff
	})

	adj := Adjustment{CourseID: target.ID, Comparisons: comparisons}
	if len(comparisons) < a.minCourses {
		adj.Status = StatusInsufficientData
		return adj
	}

	diffs := make([]float64, len(comparisons))
	for i, cd := range comparisons {
		diffs[i] = cd.Diff
	}
	adj.Value = stats.Median(diffs)
	adj.Status = StatusOK

	// Policy override, not a data condition.
	if target.Championship {
		adj.Value = 0
	}
	return adj
}

// eligibleYears returns the configured season window.
func (a *Adjuster) eligibleYears() map[int]bool {
	years := make(map[int]bool)
	if len(a.years) > 0 {
		for _, y := range a.years {
			years[y] = true
		}
		return years
	}
	for y := a.firstYear; y <= time.Now().Year(); y++ {
		years[y] = true
	}
	return years
}

// indexPaces groups completed-result paces by course and runner-year.
func (a *Adjuster) indexPaces(data Dataset) map[string]map[runnerYear][]float64 {
	years := a.eligibleYears()

	courses := make(map[string]model.Course, len(data.Courses))
	for _, c := range data.Courses {
		courses[c.ID] = c
	}
	races := make(map[string]model.Race, len(data.Races))
	for _, r := range data.Races {
		races[r.ID] = r
	}

	paces := make(map[string]map[runnerYear][]float64)
	for _, res := range data.Results {
		if !res.Completed() {
			continue
		}
		race, ok := races[res.RaceID]
		if !ok || !years[race.Year()] {
			continue
		}
		course, ok := courses[race.CourseID]
		if !ok || course.Distance <= 0 {
			continue
		}
		key := runnerYear{runnerID: res.RunnerID, year: race.Year()}
		byRunner := paces[course.ID]
		if byRunner == nil {
			byRunner = make(map[runnerYear][]float64)
			paces[course.ID] = byRunner
		}
		byRunner[key] = append(byRunner[key], float64(res.Time)/course.Distance)
	}
	return paces
}

// compareCourses builds the winsorized-CI statistic for one course pair.
func (a *Adjuster) compareCourses(targetID, otherID string, paces map[string]map[runnerYear][]float64) (CourseDiff, bool) {
	onTarget := paces[targetID]
	onOther := paces[otherID]
	if onTarget == nil || onOther == nil {
		return CourseDiff{}, false
	}

	var diffs []runnerDiff
	for key, targetPaces := range onTarget {
		otherPaces, ok := onOther[key]
		if !ok {
			continue
		}
		courseMedian := stats.Median(targetPaces)
		if courseMedian == 0 {
			continue
		}
		diffs = append(diffs, runnerDiff{
			diff:         stats.Median(otherPaces)/courseMedian - 1,
			courseMedian: courseMedian,
		})
	}
	if len(diffs) < a.minRunners {
		return CourseDiff{}, false
	}

	// Keep the fastest on the target course to bound cost.
	sort.Slice(diffs, func(i, j int) bool {
		return diffs[i].courseMedian < diffs[j].courseMedian
	})
	if len(diffs) > a.maxRunners {
		diffs = diffs[:a.maxRunners]
	}

	sample := make([]float64, len(diffs))
	for i, d := range diffs {
		sample[i] = d.diff
	}
	value, used := stats.ConservativeMean(sample, a.winsorFrac, stats.ZScore95)

	return CourseDiff{OtherCourseID: otherID, Diff: value, Runners: used}, true
}
