package progress

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/gymprogress/internal/workouts"
)

// frequencies counts occurrences and remembers first-seen order for tie breaks.
type frequencies struct {
	counts map[string]int
	order  []string
}

func newFrequencies() *frequencies {
	return &frequencies{counts: make(map[string]int)}
}

func (f *frequencies) add(key string) {
	if _, ok := f.counts[key]; !ok {
		f.order = append(f.order, key)
	}
	f.counts[key]++
}

// top returns the most frequent key; the earliest seen wins a tie.
func (f *frequencies) top(fallback string) string {
	best, bestCount := fallback, 0
	for _, key := range f.order {
		if f.counts[key] > bestCount {
			best, bestCount = key, f.counts[key]
		}
	}
	return best
}

// CalculateStats aggregates all exercise entries and workout dates of a user.
// A workout with an unparsable date makes the whole calculation fail.
func CalculateStats(workoutsList []workouts.Workout) (ExerciseStats, error) {
	stats := EmptyStats()
	stats.TotalWorkouts = len(workoutsList)

	names := newFrequencies()
	types := newFrequencies()
	var volume, distance, duration float64
	days := make([]time.Time, 0, len(workoutsList))

	for _, w := range workoutsList {
		day, err := w.Day()
		if err != nil {
			return EmptyStats(), fmt.Errorf("workout %s: %w", w.ID, err)
		}
		days = append(days, day)

		for _, e := range w.Entries {
			stats.TotalExercises++
			name := entryName(e)
			names.add(name)
			types.add(string(Classify(name)))

			if e.Weight != nil && e.Reps != nil {
				volume += *e.Weight * *e.Reps
			}
			if e.Distance != nil {
				distance += *e.Distance
			}
			if e.Duration != nil {
				duration += *e.Duration
			}
		}
	}

	stats.MostFrequentExercise = names.top(noExercise)
	stats.FavoriteExerciseType = types.top(defaultFavoriteType)
	stats.TotalWeightLifted = math.Round(volume)
	stats.TotalDistanceCovered = round2(distance)
	stats.TotalDuration = math.Round(duration)
	stats.LongestStreak, stats.CurrentStreak = streaks(days)

	return stats, nil
}

// streaks walks distinct days ascending; a gap of at most one day extends a run.
func streaks(days []time.Time) (longest, current int) {
	distinct := make(map[time.Time]struct{}, len(days))
	sorted := make([]time.Time, 0, len(days))
	for _, d := range days {
		if _, ok := distinct[d]; ok {
			continue
		}
		distinct[d] = struct{}{}
		sorted = append(sorted, d)
	}
	if len(sorted) == 0 {
		return 0, 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 1
	longest = 1
	for i := 1; i < len(sorted); i++ {
		gapDays := sorted[i].Sub(sorted[i-1]).Hours() / 24
		if gapDays <= 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest, run
}

func entryName(e workouts.Entry) string {
	if e.Name == "" {
		return unknownExercise
	}
	return e.Name
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
