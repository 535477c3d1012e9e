package progress

import (
	"fmt"
	"math"
	"sort"

	"github.com/2beens/gymprogress/internal/workouts"
)

type exerciseGroup struct {
	name         string
	exerciseType ExerciseType
	performances []Performance
}

// groupPerformances flattens workouts into per-exercise performances.
// Groups keep first-seen order, performances within a group are sorted by day ascending.
func groupPerformances(list []workouts.Workout) ([]*exerciseGroup, error) {
	var groups []*exerciseGroup
	byName := make(map[string]*exerciseGroup)

	for _, w := range list {
		day, err := w.Day()
		if err != nil {
			return nil, fmt.Errorf("workout %s: %w", w.ID, err)
		}
		date := day.Format(workouts.DateLayout)

		for _, e := range w.Entries {
			name := entryName(e)
			group, ok := byName[name]
			if !ok {
				group = &exerciseGroup{name: name, exerciseType: Classify(name)}
				byName[name] = group
				groups = append(groups, group)
			}
			group.performances = append(group.performances, Performance{
				Date:      date,
				WorkoutID: w.ID,
				Weight:    e.Weight,
				Reps:      e.Reps,
				Duration:  e.Duration,
				Distance:  e.Distance,
			})
		}
	}

	for _, g := range groups {
		sort.SliceStable(g.performances, func(i, j int) bool {
			return g.performances[i].Date < g.performances[j].Date
		})
	}

	return groups, nil
}

// DeriveProgress builds the per-exercise progress list from raw workouts,
// most performed exercises first, cut to limit.
func DeriveProgress(list []workouts.Workout, limit int) ([]ExerciseProgress, error) {
	groups, err := groupPerformances(list)
	if err != nil {
		return nil, err
	}

	progressList := make([]ExerciseProgress, 0, len(groups))
	for _, g := range groups {
		perfs := g.performances
		progressList = append(progressList, ExerciseProgress{
			ExerciseName:       g.name,
			ExerciseType:       g.exerciseType,
			TotalWorkouts:      len(perfs),
			FirstPerformed:     perfs[0].Date,
			LastPerformed:      perfs[len(perfs)-1].Date,
			PersonalRecords:    ExtractRecords(g.name, g.exerciseType, perfs),
			ProgressionTrend:   AnalyzeTrend(perfs),
			AveragePerformance: averagePerformance(perfs),
			BestPerformance:    bestPerformance(perfs),
		})
	}

	sort.SliceStable(progressList, func(i, j int) bool {
		return progressList[i].TotalWorkouts > progressList[j].TotalWorkouts
	})
	if limit > 0 && len(progressList) > limit {
		progressList = progressList[:limit]
	}

	return progressList, nil
}

// BestRecords returns one record per exercise and record type, most recent
// first. A non empty exerciseName keeps only that exercise.
func BestRecords(list []workouts.Workout, exerciseName string) ([]PersonalRecord, error) {
	groups, err := groupPerformances(list)
	if err != nil {
		return nil, err
	}

	records := []PersonalRecord{}
	for _, g := range groups {
		if exerciseName != "" && g.name != exerciseName {
			continue
		}
		records = append(records, ExtractRecords(g.name, g.exerciseType, g.performances)...)
	}
	sortRecordsByDateDesc(records)

	return records, nil
}

type summaryField struct {
	value  func(p Performance) *float64
	target func(s *PerformanceSummary) **float64
	round  func(float64) float64
}

var summaryFields = []summaryField{
	{
		value:  func(p Performance) *float64 { return p.Weight },
		target: func(s *PerformanceSummary) **float64 { return &s.Weight },
		round:  math.Round,
	},
	{
		value:  func(p Performance) *float64 { return p.Reps },
		target: func(s *PerformanceSummary) **float64 { return &s.Reps },
		round:  math.Round,
	},
	{
		value:  func(p Performance) *float64 { return p.Duration },
		target: func(s *PerformanceSummary) **float64 { return &s.Duration },
		round:  math.Round,
	},
	{
		value:  func(p Performance) *float64 { return p.Distance },
		target: func(s *PerformanceSummary) **float64 { return &s.Distance },
		round:  round2,
	},
}

// presentValues collects the recorded values > 0; a zero counts as not recorded.
func presentValues(perfs []Performance, value func(p Performance) *float64) []float64 {
	values := make([]float64, 0, len(perfs))
	for _, p := range perfs {
		if v := value(p); v != nil && *v > 0 {
			values = append(values, *v)
		}
	}
	return values
}

func averagePerformance(perfs []Performance) PerformanceSummary {
	var summary PerformanceSummary
	for _, f := range summaryFields {
		values := presentValues(perfs, f.value)
		if len(values) == 0 {
			continue
		}
		avg := f.round(mean(values))
		*f.target(&summary) = &avg
	}
	return summary
}

func bestPerformance(perfs []Performance) PerformanceSummary {
	var summary PerformanceSummary
	for _, f := range summaryFields {
		values := presentValues(perfs, f.value)
		if len(values) == 0 {
			continue
		}
		best := values[0]
		for _, v := range values[1:] {
			best = math.Max(best, v)
		}
		*f.target(&summary) = &best
	}
	return summary
}
