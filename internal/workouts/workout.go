package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar day format workouts are stored with.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid workout date")

// Workout is a single logged training session with its exercise entries.
type Workout struct {
	ID      string  `json:"id"`
	UserID  int     `json:"userId"`
	Name    string  `json:"name"`
	Date    string  `json:"date"`
	Entries []Entry `json:"exercises"`
}

// Entry is one exercise performed within a workout.
// A nil measurement means it was not recorded, which is different from zero.
type Entry struct {
	Name     string   `json:"name"`
	Weight   *float64 `json:"weight,omitempty"`   // kg
	Reps     *float64 `json:"reps,omitempty"`     // count
	Duration *float64 `json:"duration,omitempty"` // minutes
	Distance *float64 `json:"distance,omitempty"` // km
}

// Day parses the workout date as a calendar day in UTC.
// Full RFC3339 timestamps are accepted too and truncated to their day.
func (w Workout) Day() (time.Time, error) {
	day, err := time.Parse(DateLayout, w.Date)
	if err == nil {
		return day, nil
	}
	ts, tsErr := time.Parse(time.RFC3339, w.Date)
	if tsErr != nil {
		return time.Time{}, fmt.Errorf("%w [%s]: %w", ErrInvalidDate, w.Date, err)
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Store is the read side of the raw workout log.
type Store interface {
	ListWorkouts(ctx context.Context, userID, limit int) ([]Workout, error)
}

// Float is a helper for building entries with measured values.
func Float(v float64) *float64 {
	return &v
}
