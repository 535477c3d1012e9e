package progress

import "strings"

// keyword sets are checked in this order, first match wins
var typeKeywords = []struct {
	exerciseType ExerciseType
	keywords     []string
}{
	{TypeStrength, []string{"squat", "deadlift", "bench", "press", "curl", "row", "pull", "push", "lift"}},
	{TypeCardio, []string{"run", "bike", "cardio", "treadmill", "elliptical", "cycle"}},
	{TypeFlexibility, []string{"yoga", "stretch", "flexibility", "mobility", "pilates"}},
}

// Classify maps a free text exercise name to its type using keyword heuristics.
func Classify(name string) ExerciseType {
	lowered := strings.ToLower(name)
	for _, group := range typeKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				return group.exerciseType
			}
		}
	}
	return TypeOther
}
