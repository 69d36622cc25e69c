package fitness

import (
	"math"
	"reflect"
	"testing"
)

func TestCalculateTDEE(t *testing.T) {
	tests := []struct {
		desc    string
		profile UserProfile
		want    float64
	}{
		{
			desc:    "male sedentary",
			profile: UserProfile{Age: 30, Gender: Male, Weight: 80, Height: 180, ActivityLevel: Sedentary},
			// 800 + 1125 - 150 + 5 = 1780
			want: 1780 * 1.2,
		},
		{
			desc:    "female very active",
			profile: UserProfile{Age: 25, Gender: Female, Weight: 60, Height: 165, ActivityLevel: VeryActive},
			// 600 + 1031.25 - 125 - 161 = 1345.25
			want: 1345.25 * 1.725,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := CalculateTDEE(tt.profile)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestActivityLevel(t *testing.T) {
	if !LightlyActive.Valid() {
		t.Error("expected 1.375 to be valid")
	}
	if ActivityLevel(1.3).Valid() {
		t.Error("expected 1.3 to be invalid")
	}
	if LightlyActive.Name() != "lightly active" {
		t.Errorf("unexpected name %q", LightlyActive.Name())
	}
}

func TestCleanWorkoutLog(t *testing.T) {
	in := WorkoutLog{
		Date: "2024-01-01T10:00:00Z",
		Exercises: []LoggedExercise{
			{Name: "Squat", Sets: []LoggedSet{{Reps: 5, Weight: 100}, {Reps: 0, Weight: 0}}},
			{Name: "Plank", Sets: []LoggedSet{{Reps: 0, Weight: 0}}},
			{Name: "Push-ups", Sets: []LoggedSet{{Reps: 12, Weight: 0}}},
		},
	}
	want := []LoggedExercise{
		{Name: "Squat", Sets: []LoggedSet{{Reps: 5, Weight: 100}}},
		{Name: "Push-ups", Sets: []LoggedSet{{Reps: 12, Weight: 0}}},
	}

	got := CleanWorkoutLog(in)
	if !reflect.DeepEqual(got.Exercises, want) {
		t.Errorf("expected %v, got %v", want, got.Exercises)
	}
	if len(in.Exercises[0].Sets) != 2 {
		t.Error("input log was modified")
	}
}

func TestSortWorkoutLogs(t *testing.T) {
	logs := []WorkoutLog{
		{Date: "2024-01-02T08:00:00Z", DayTitle: "b"},
		{Date: "2024-01-03T08:00:00Z", DayTitle: "c"},
		{Date: "2024-01-01T08:00:00Z", DayTitle: "a"},
	}
	SortWorkoutLogs(logs)
	for i, want := range []string{"c", "b", "a"} {
		if logs[i].DayTitle != want {
			t.Errorf("position %d: expected %s, got %s", i, want, logs[i].DayTitle)
		}
	}
}

func TestUpsertWeight(t *testing.T) {
	tests := []struct {
		desc    string
		inserts []WeightLogEntry
		want    []WeightLogEntry
	}{
		{
			desc:    "appends and sorts ascending",
			inserts: []WeightLogEntry{{"2024-01-03", 80}, {"2024-01-01", 82}, {"2024-01-02", 81}},
			want:    []WeightLogEntry{{"2024-01-01", 82}, {"2024-01-02", 81}, {"2024-01-03", 80}},
		},
		{
			desc:    "same day replaces",
			inserts: []WeightLogEntry{{"2024-01-01", 82}, {"2024-01-02", 81}, {"2024-01-01", 79.5}},
			want:    []WeightLogEntry{{"2024-01-01", 79.5}, {"2024-01-02", 81}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			var log []WeightLogEntry
			for _, e := range tt.inserts {
				log = UpsertWeight(log, e)
				seen := map[string]bool{}
				for i, entry := range log {
					if seen[entry.Date] {
						t.Fatalf("duplicate date %s", entry.Date)
					}
					seen[entry.Date] = true
					if i > 0 && log[i-1].Date > entry.Date {
						t.Fatalf("log not sorted: %v", log)
					}
				}
			}
			if !reflect.DeepEqual(log, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, log)
			}
		})
	}
}

func TestCaloriesByDate(t *testing.T) {
	meals := []Meal{
		{Date: "2024-01-02", TotalCalories: 500},
		{Date: "2024-01-01", TotalCalories: 300},
		{Date: "2024-01-02", TotalCalories: 250},
	}
	want := []DailyCalories{{"2024-01-01", 300}, {"2024-01-02", 750}}
	if got := CaloriesByDate(meals); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := TotalCalories(MealsOn(meals, "2024-01-02")); got != 750 {
		t.Errorf("expected 750, got %f", got)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-01-01T10:11:12.123Z"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	d, err := ParseDate("2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Day() != 1 || d.Hour() != 0 {
		t.Errorf("unexpected date %v", d)
	}
	if _, err := ParseDate("yesterday"); err == nil {
		t.Error("expected error, got nil")
	}
}
