// Package seeding projects a runner's 5km-equivalent performance from their
// recent course-normalized results.
package seeding

import (
	"math"
	"sort"

	"github.com/okian/harrier/internal/domain/model"
	"github.com/okian/harrier/internal/domain/stats"
	"github.com/okian/harrier/internal/domain/timing"
)

// maxRecentResults bounds how many races feed the seed time.
const maxRecentResults = 3

// SeedTime returns the median adjusted time of the runner's most recent
// complete results, in milliseconds. The second return is false when the
// runner has no complete results, in which case the existing seed time
// should be left unchanged.
func SeedTime(results []model.Result, races map[string]model.Race, courses map[string]model.Course) (int64, bool) {
	adjusted := adjustedTimes(recentFirst(results, races), races, courses, maxRecentResults)
	if len(adjusted) == 0 {
		return 0, false
	}
	return int64(math.Round(stats.Median(adjusted))), true
}

// PersonalRecord returns the runner's fastest adjusted time across all
// complete results, or false if they have none.
func PersonalRecord(results []model.Result, races map[string]model.Race, courses map[string]model.Course) (int64, bool) {
	return best(results, races, courses, 0)
}

// PersonalRecordYear returns the runner's fastest adjusted time within one
// season, or false if they have no complete results that year.
func PersonalRecordYear(year int, results []model.Result, races map[string]model.Race, courses map[string]model.Course) (int64, bool) {
	return best(results, races, courses, year)
}

func best(results []model.Result, races map[string]model.Race, courses map[string]model.Course, year int) (int64, bool) {
	var pr float64
	found := false
	for _, res := range results {
		if !res.Completed() {
			continue
		}
		race, ok := races[res.RaceID]
		if !ok || (year != 0 && race.Year() != year) {
			continue
		}
		adj, err := timing.AdjustedTime(res, courses[race.CourseID])
		if err != nil {
			continue
		}
		if !found || adj < pr {
			pr = adj
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return int64(math.Round(pr)), true
}

// recentFirst returns the complete results sorted by race date, newest
// first.
func recentFirst(results []model.Result, races map[string]model.Race) []model.Result {
	var complete []model.Result
	for _, res := range results {
		if res.Completed() {
			if _, ok := races[res.RaceID]; ok {
				complete = append(complete, res)
			}
		}
	}
	sort.SliceStable(complete, func(i, j int) bool {
		return races[complete[i].RaceID].Date.After(races[complete[j].RaceID].Date)
	})
	return complete
}

func adjustedTimes(ordered []model.Result, races map[string]model.Race, courses map[string]model.Course, limit int) []float64 {
	var adjusted []float64
	for _, res := range ordered {
		if len(adjusted) == limit {
			break
		}
		course := courses[races[res.RaceID].CourseID]
		adj, err := timing.AdjustedTime(res, course)
		if err != nil {
			continue
		}
		adjusted = append(adjusted, adj)
	}
	return adjusted
}
