package progress

type ExerciseType string

const (
	TypeStrength    ExerciseType = "strength"
	TypeCardio      ExerciseType = "cardio"
	TypeFlexibility ExerciseType = "flexibility"
	TypeOther       ExerciseType = "other"
)

type RecordType string

const (
	RecordMaxWeight   RecordType = "max_weight"
	RecordMaxReps     RecordType = "max_reps"
	RecordMaxDuration RecordType = "max_duration"
	RecordMaxDistance RecordType = "max_distance"
	// RecordBestTime can come from the remote service; local derivation never produces it.
	RecordBestTime RecordType = "best_time"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
	TrendNew       Trend = "new"
)

// PersonalRecord is the best observed value for one exercise and record type.
type PersonalRecord struct {
	ExerciseName string       `json:"exercise_name"`
	ExerciseType ExerciseType `json:"exercise_type"`
	RecordType   RecordType   `json:"record_type"`
	RecordValue  float64      `json:"record_value"`
	RecordUnit   string       `json:"record_unit"`
	AchievedDate string       `json:"achieved_date"`
	WorkoutID    string       `json:"workout_id"`
}

// PerformanceSummary holds one value per measurement; nil when never measured.
type PerformanceSummary struct {
	Weight   *float64 `json:"weight,omitempty"`
	Reps     *float64 `json:"reps,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
}

type ExerciseProgress struct {
	ExerciseName       string             `json:"exercise_name"`
	ExerciseType       ExerciseType       `json:"exercise_type"`
	TotalWorkouts      int                `json:"total_workouts"`
	FirstPerformed     string             `json:"first_performed"`
	LastPerformed      string             `json:"last_performed"`
	PersonalRecords    []PersonalRecord   `json:"personal_records"`
	ProgressionTrend   Trend              `json:"progression_trend"`
	AveragePerformance PerformanceSummary `json:"average_performance"`
	BestPerformance    PerformanceSummary `json:"best_performance"`
}

// ExerciseStats aggregates all workouts of a user.
type ExerciseStats struct {
	TotalExercises       int     `json:"total_exercises"`
	TotalWorkouts        int     `json:"total_workouts"`
	MostFrequentExercise string  `json:"most_frequent_exercise"`
	LongestStreak        int     `json:"longest_streak"`
	CurrentStreak        int     `json:"current_streak"`
	FavoriteExerciseType string  `json:"favorite_exercise_type"`
	TotalWeightLifted    float64 `json:"total_weight_lifted"`
	TotalDistanceCovered float64 `json:"total_distance_covered"`
	TotalDuration        float64 `json:"total_duration"`
}

const (
	noExercise          = "None"
	defaultFavoriteType = string(TypeStrength)
	unknownExercise     = "Unknown Exercise"
)

// EmptyStats is the stats value for a user without workouts, and the safe
// default when stats cannot be computed.
func EmptyStats() ExerciseStats {
	return ExerciseStats{
		MostFrequentExercise: noExercise,
		FavoriteExerciseType: defaultFavoriteType,
	}
}

// Performance is one recorded instance of an exercise: an entry plus its workout's date.
type Performance struct {
	Date      string
	WorkoutID string
	Weight    *float64
	Reps      *float64
	Duration  *float64
	Distance  *float64
}
