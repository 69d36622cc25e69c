// Package achievements defines the fixed achievement catalog and the rules
// that unlock each entry from logged data.
package achievements

import (
	"regexp"
	"sort"
	"time"

	"github.com/lildude/fitpal/internal/fitness"
)

// ID identifies an achievement across releases. Persisted unlock state is keyed by it.
type ID string

const (
	FirstWorkout     ID = "first_workout"
	ConsistentWeek   ID = "consistent_week"
	CalorieConscious ID = "calorie_conscious"
	PRBreaker        ID = "pr_breaker"
)

// Achievement is a catalog definition plus its unlock flag. How it is drawn is
// up to the presentation layer, which looks icons up by ID.
type Achievement struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// Status is the persisted form of an achievement.
type Status struct {
	ID       ID   `json:"id"`
	Unlocked bool `json:"unlocked"`
}

// Snapshot is the logged data the rules are evaluated against.
type Snapshot struct {
	WorkoutLogs []fitness.WorkoutLog
	Meals       []fitness.Meal
	WeightLog   []fitness.WeightLogEntry
}

var catalog = []Achievement{
	{ID: FirstWorkout, Title: "First Step", Description: "Complete your first workout."},
	{ID: ConsistentWeek, Title: "Weekly Warrior", Description: "Work out on 3 different days in a week."},
	{ID: CalorieConscious, Title: "Mindful Eater", Description: "Log meals for 5 consecutive days."},
	{ID: PRBreaker, Title: "New Heights", Description: "Set a new Personal Record in a key lift."},
}

const (
	weeklyWindow      = 7 * 24 * time.Hour
	weeklyMinDays     = 3
	mealStreakMinDays = 5
)

var keyLift = regexp.MustCompile(`(?i)squat|bench press|deadlift|overhead press`)

type rule func(Snapshot, time.Time) bool

var rules = map[ID]rule{
	FirstWorkout:     hasWorkout,
	ConsistentWeek:   consistentWeek,
	CalorieConscious: mealStreak,
	PRBreaker:        hasKeyLift,
}

// Catalog returns every definition, all locked.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// Merge applies persisted unlock flags to the catalog. Unknown ids in saved
// are ignored; catalog entries missing from saved stay locked.
func Merge(saved []Status) []Achievement {
	unlocked := make(map[ID]bool, len(saved))
	for _, s := range saved {
		unlocked[s.ID] = unlocked[s.ID] || s.Unlocked
	}
	out := Catalog()
	for i := range out {
		out[i].Unlocked = unlocked[out[i].ID]
	}
	return out
}

// Statuses strips the definitions, leaving what gets persisted.
func Statuses(list []Achievement) []Status {
	out := make([]Status, len(list))
	for i, a := range list {
		out[i] = Status{ID: a.ID, Unlocked: a.Unlocked}
	}
	return out
}

// Evaluate returns a copy of current with every locked achievement whose rule
// now holds flipped to unlocked. Unlocked entries are never re-checked.
func Evaluate(current []Achievement, data Snapshot, now time.Time) []Achievement {
	out := make([]Achievement, len(current))
	copy(out, current)
	for i := range out {
		if out[i].Unlocked {
			continue
		}
		r, ok := rules[out[i].ID]
		if !ok {
			continue
		}
		if r(data, now) {
			out[i].Unlocked = true
		}
	}
	return out
}

// Changed reports whether a and b differ by value.
func Changed(a, b []Achievement) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}

func hasWorkout(d Snapshot, _ time.Time) bool {
	return len(d.WorkoutLogs) > 0
}

// consistentWeek counts distinct local days among workouts in the trailing week.
func consistentWeek(d Snapshot, now time.Time) bool {
	since := now.Add(-weeklyWindow)
	days := make(map[string]struct{})
	for _, l := range d.WorkoutLogs {
		t, err := fitness.ParseDate(l.Date)
		if err != nil || t.Before(since) {
			continue
		}
		days[fitness.Day(t.In(now.Location()))] = struct{}{}
	}
	return len(days) >= weeklyMinDays
}

// mealStreak looks for a run of consecutive meal days.
func mealStreak(d Snapshot, _ time.Time) bool {
	seen := make(map[string]struct{})
	var days []time.Time
	for _, m := range d.Meals {
		if _, ok := seen[m.Date]; ok {
			continue
		}
		seen[m.Date] = struct{}{}
		t, err := fitness.ParseDate(m.Date)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run, longest := 0, 0
	for i, day := range days {
		if i > 0 && day.Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest >= mealStreakMinDays
}

// hasKeyLift only checks that a key lift was logged; it does not compare
// against earlier weights.
func hasKeyLift(d Snapshot, _ time.Time) bool {
	for _, l := range d.WorkoutLogs {
		for _, ex := range l.Exercises {
			if keyLift.MatchString(ex.Name) {
				return true
			}
		}
	}
	return false
}
