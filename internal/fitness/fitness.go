package fitness

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the calendar-day format used for meals and weight entries.
const DateLayout = "2006-01-02"

// Day returns the calendar date of t in its own location.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate accepts either a full RFC3339 timestamp or a bare calendar day.
// Bare days are interpreted as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// dateOrZero is used for ordering; unparseable dates sort as the zero time.
func dateOrZero(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CalculateBMR uses the Mifflin-St Jeor equation.
func CalculateBMR(p UserProfile) float64 {
	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == Male {
		return bmr + 5
	}
	return bmr - 161
}

// CalculateTDEE returns the total daily energy expenditure for p.
func CalculateTDEE(p UserProfile) float64 {
	return CalculateBMR(p) * float64(p.ActivityLevel)
}

// CleanWorkoutLog drops sets with zero reps and zero weight, then drops any
// exercise left without sets.
func CleanWorkoutLog(l WorkoutLog) WorkoutLog {
	exercises := make([]LoggedExercise, 0, len(l.Exercises))
	for _, ex := range l.Exercises {
		sets := make([]LoggedSet, 0, len(ex.Sets))
		for _, s := range ex.Sets {
			if s.Reps > 0 || s.Weight > 0 {
				sets = append(sets, s)
			}
		}
		if len(sets) == 0 {
			continue
		}
		exercises = append(exercises, LoggedExercise{Name: ex.Name, Sets: sets})
	}
	l.Exercises = exercises
	return l
}

// SortWorkoutLogs orders logs newest first.
func SortWorkoutLogs(logs []WorkoutLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return dateOrZero(logs[i].Date).After(dateOrZero(logs[j].Date))
	})
}

// SortWeightLog orders entries oldest first.
func SortWeightLog(entries []WeightLogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return dateOrZero(entries[i].Date).Before(dateOrZero(entries[j].Date))
	})
}

// UpsertWeight returns a new log with e inserted, replacing any entry for the
// same date, sorted ascending.
func UpsertWeight(entries []WeightLogEntry, e WeightLogEntry) []WeightLogEntry {
	out := make([]WeightLogEntry, len(entries), len(entries)+1)
	copy(out, entries)
	replaced := false
	for i := range out {
		if out[i].Date == e.Date {
			out[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		out = append(out, e)
	}
	SortWeightLog(out)
	return out
}

// DailyCalories is the calorie total for one calendar day.
type DailyCalories struct {
	Date          string  `json:"date"`
	TotalCalories float64 `json:"totalCalories"`
}

// CaloriesByDate groups meals by date and sums their calories, oldest first.
func CaloriesByDate(meals []Meal) []DailyCalories {
	totals := make(map[string]float64)
	for _, m := range meals {
		totals[m.Date] += m.TotalCalories
	}
	out := make([]DailyCalories, 0, len(totals))
	for d, c := range totals {
		out = append(out, DailyCalories{Date: d, TotalCalories: c})
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := dateOrZero(out[i].Date), dateOrZero(out[j].Date)
		if ti.Equal(tj) {
			return out[i].Date < out[j].Date
		}
		return ti.Before(tj)
	})
	return out
}

// MealsOn returns the meals logged on date, in insertion order.
func MealsOn(meals []Meal, date string) []Meal {
	var out []Meal
	for _, m := range meals {
		if m.Date == date {
			out = append(out, m)
		}
	}
	return out
}

// TotalCalories sums the calories of meals.
func TotalCalories(meals []Meal) float64 {
	var total float64
	for _, m := range meals {
		total += m.TotalCalories
	}
	return total
}
