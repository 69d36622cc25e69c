// Package app holds the in-memory application state and funnels every
// mutation through a named operation that persists the result.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lildude/fitpal/internal/achievements"
	"github.com/lildude/fitpal/internal/fitness"
	"github.com/lildude/fitpal/internal/storage"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrInvalidWeight  = errors.New("weight must be greater than zero")
	ErrNoProfile      = errors.New("no profile saved")
)

// Snapshot is a read-only copy of the whole state.
type Snapshot struct {
	Profile      *fitness.UserProfile       `json:"profile"`
	Meals        []fitness.Meal             `json:"meals"`
	ActivePlan   *fitness.ActiveWorkoutPlan `json:"activePlan"`
	WorkoutLogs  []fitness.WorkoutLog       `json:"workoutLogs"`
	WeightLog    []fitness.WeightLogEntry   `json:"weightLog"`
	Achievements []achievements.Achievement `json:"achievements"`
	ChatHistory  []fitness.ChatMessage      `json:"chatHistory"`
	Connected    bool                       `json:"honorHealthConnected"`
}

// State is the application state coordinator. It is safe for concurrent use.
type State struct {
	mu    sync.Mutex
	store *storage.Adapter
	log   logrus.FieldLogger
	now   func() time.Time

	profile      *fitness.UserProfile
	meals        []fitness.Meal
	plan         *fitness.ActiveWorkoutPlan
	workoutLogs  []fitness.WorkoutLog
	weightLog    []fitness.WeightLogEntry
	achievements []achievements.Achievement
	chat         []fitness.ChatMessage
	connected    bool
}

type Option func(*State)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// Load reads every slice from the store and seeds the image cache on a fresh install.
func Load(ctx context.Context, store *storage.Adapter, log logrus.FieldLogger, opts ...Option) *State {
	s := &State{store: store, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}

	s.profile = store.LoadUserProfile(ctx)
	s.meals = store.LoadMeals(ctx)
	s.plan = store.LoadActiveWorkoutPlan(ctx)
	s.workoutLogs = store.LoadWorkoutLogs(ctx)
	s.weightLog = store.LoadWeightLog(ctx)
	s.achievements = store.LoadAchievements(ctx)
	s.chat = store.LoadChatHistory(ctx)
	s.connected = store.LoadHonorHealthConnectionStatus(ctx)

	store.InitializeImageCache(ctx)
	s.refreshAchievements(ctx)

	log.WithFields(logrus.Fields{
		"meals":        len(s.meals),
		"workout_logs": len(s.workoutLogs),
		"weight_log":   len(s.weightLog),
		"has_profile":  s.profile != nil,
	}).Info("state loaded")
	return s
}

func (s *State) today() string {
	return fitness.Day(s.now())
}

// refreshAchievements re-evaluates achievements and persists them only when
// something unlocked. Callers hold s.mu.
func (s *State) refreshAchievements(ctx context.Context) {
	updated := achievements.Evaluate(s.achievements, achievements.Snapshot{
		WorkoutLogs: s.workoutLogs,
		Meals:       s.meals,
		WeightLog:   s.weightLog,
	}, s.now())
	if !achievements.Changed(s.achievements, updated) {
		return
	}
	for i := range updated {
		if updated[i].Unlocked && !s.achievements[i].Unlocked {
			s.log.WithField("achievement", updated[i].ID).Info("achievement unlocked")
		}
	}
	s.achievements = updated
	s.store.SaveAchievements(ctx, updated)
}

// Snapshot returns a deep-enough copy for callers to read without locking.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Meals:        append([]fitness.Meal{}, s.meals...),
		WorkoutLogs:  append([]fitness.WorkoutLog{}, s.workoutLogs...),
		WeightLog:    append([]fitness.WeightLogEntry{}, s.weightLog...),
		Achievements: append([]achievements.Achievement{}, s.achievements...),
		ChatHistory:  append([]fitness.ChatMessage{}, s.chat...),
		Connected:    s.connected,
	}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	if s.plan != nil {
		p := clonePlan(*s.plan)
		snap.ActivePlan = &p
	}
	return snap
}

func validateProfile(p fitness.UserProfile) error {
	switch {
	case p.Age <= 0:
		return fmt.Errorf("%w: age must be greater than zero", ErrInvalidProfile)
	case p.Weight <= 0:
		return fmt.Errorf("%w: weight must be greater than zero", ErrInvalidProfile)
	case p.Height <= 0:
		return fmt.Errorf("%w: height must be greater than zero", ErrInvalidProfile)
	case p.Gender != fitness.Male && p.Gender != fitness.Female:
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, p.Gender)
	case !p.ActivityLevel.Valid():
		return fmt.Errorf("%w: unknown activity level %v", ErrInvalidProfile, p.ActivityLevel)
	}
	return nil
}

// SaveProfile stores p and starts the weight log over with today's weight.
func (s *State) SaveProfile(ctx context.Context, p fitness.UserProfile) error {
	if err := validateProfile(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = &p
	s.store.SaveUserProfile(ctx, p)

	s.weightLog = []fitness.WeightLogEntry{{Date: s.today(), Weight: p.Weight}}
	s.store.SaveWeightLog(ctx, s.weightLog)
	s.refreshAchievements(ctx)
	return nil
}

// ClearProfile wipes every persisted key, not just the profile, and resets
// the in-memory state to a fresh install.
func (s *State) ClearProfile(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear(ctx)
	s.profile = nil
	s.meals = []fitness.Meal{}
	s.plan = nil
	s.workoutLogs = []fitness.WorkoutLog{}
	s.weightLog = []fitness.WeightLogEntry{}
	s.achievements = achievements.Catalog()
	s.chat = []fitness.ChatMessage{}
	s.connected = false
	s.log.Info("all data cleared")
}

// AddMeal appends m stamped with today's date and returns the stored meal.
func (s *State) AddMeal(ctx context.Context, m fitness.Meal) fitness.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.Date = s.today()
	meals := make([]fitness.Meal, len(s.meals), len(s.meals)+1)
	copy(meals, s.meals)
	s.meals = append(meals, m)
	s.store.SaveMeals(ctx, s.meals)
	s.refreshAchievements(ctx)
	return m
}

// AddWorkoutLog drops empty sets, appends the log and keeps the collection
// newest first. A log without a date is stamped with the current time.
func (s *State) AddWorkoutLog(ctx context.Context, l fitness.WorkoutLog) fitness.WorkoutLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	l = fitness.CleanWorkoutLog(l)
	if l.Date == "" {
		l.Date = s.now().UTC().Format(time.RFC3339Nano)
	}
	logs := make([]fitness.WorkoutLog, len(s.workoutLogs), len(s.workoutLogs)+1)
	copy(logs, s.workoutLogs)
	logs = append(logs, l)
	fitness.SortWorkoutLogs(logs)
	s.workoutLogs = logs
	s.store.SaveWorkoutLogs(ctx, s.workoutLogs)
	s.refreshAchievements(ctx)
	return l
}

// AddWeightEntry records e, replacing any entry for the same date. An empty
// date means today.
func (s *State) AddWeightEntry(ctx context.Context, e fitness.WeightLogEntry) error {
	if e.Weight <= 0 {
		return ErrInvalidWeight
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Date == "" {
		e.Date = s.today()
	} else {
		t, err := fitness.ParseDate(e.Date)
		if err != nil {
			return err
		}
		e.Date = fitness.Day(t)
	}
	s.weightLog = fitness.UpsertWeight(s.weightLog, e)
	s.store.SaveWeightLog(ctx, s.weightLog)
	s.refreshAchievements(ctx)
	return nil
}

// SetActivePlan replaces the active plan, filling exercise images from the cache.
func (s *State) SetActivePlan(ctx context.Context, plan fitness.ActiveWorkoutPlan) fitness.ActiveWorkoutPlan {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan = clonePlan(plan)
	images := s.store.LoadExerciseImageCache(ctx)
	for d := range plan.Days {
		for e := range plan.Days[d].Exercises {
			ex := &plan.Days[d].Exercises[e]
			if ex.ImageURL == "" {
				ex.ImageURL = images[ex.Name]
			}
		}
	}
	s.plan = &plan
	s.store.SaveActiveWorkoutPlan(ctx, plan)
	return clonePlan(plan)
}

func (s *State) ClearActivePlan(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plan = nil
	s.store.ClearActiveWorkoutPlan(ctx)
}

// UpdateExerciseImage writes the image through to the cache and patches every
// exercise of that name in the active plan.
func (s *State) UpdateExerciseImage(ctx context.Context, name, imageURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := s.store.LoadExerciseImageCache(ctx)
	images[name] = imageURL
	s.store.SaveExerciseImageCache(ctx, images)

	if s.plan == nil {
		return
	}
	plan := clonePlan(*s.plan)
	for d := range plan.Days {
		for e := range plan.Days[d].Exercises {
			if plan.Days[d].Exercises[e].Name == name {
				plan.Days[d].Exercises[e].ImageURL = imageURL
			}
		}
	}
	s.plan = &plan
	s.store.SaveActiveWorkoutPlan(ctx, plan)
}

// ExerciseImages returns the current image cache.
func (s *State) ExerciseImages(ctx context.Context) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadExerciseImageCache(ctx)
}

// SetConnection records whether the health integration is connected.
func (s *State) SetConnection(ctx context.Context, connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = connected
	s.store.SaveHonorHealthConnectionStatus(ctx, connected)
}

// AppendChat adds messages to the transcript.
func (s *State) AppendChat(ctx context.Context, msgs ...fitness.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := make([]fitness.ChatMessage, len(s.chat), len(s.chat)+len(msgs))
	copy(chat, s.chat)
	s.chat = append(chat, msgs...)
	s.store.SaveChatHistory(ctx, s.chat)
}

// ReplaceChat swaps the transcript wholesale, used when a chat session is
// restarted from a stored history.
func (s *State) ReplaceChat(ctx context.Context, msgs []fitness.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chat = append([]fitness.ChatMessage{}, msgs...)
	s.store.SaveChatHistory(ctx, s.chat)
}

func (s *State) ClearChat(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chat = []fitness.ChatMessage{}
	s.store.SaveChatHistory(ctx, s.chat)
}

// DailyCalorieGoal is the TDEE of the saved profile.
func (s *State) DailyCalorieGoal() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return 0, ErrNoProfile
	}
	return fitness.CalculateTDEE(*s.profile), nil
}

// CaloriesByDate returns per-day calorie totals, oldest first.
func (s *State) CaloriesByDate() []fitness.DailyCalories {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fitness.CaloriesByDate(s.meals)
}

// TodayCalories sums the calories logged today.
func (s *State) TodayCalories() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fitness.TotalCalories(fitness.MealsOn(s.meals, s.today()))
}

// Now returns the coordinator's current time.
func (s *State) Now() time.Time {
	return s.now()
}

func clonePlan(p fitness.ActiveWorkoutPlan) fitness.ActiveWorkoutPlan {
	out := fitness.ActiveWorkoutPlan{Title: p.Title, Days: make([]fitness.DayPlan, len(p.Days))}
	for i, d := range p.Days {
		out.Days[i] = fitness.DayPlan{Day: d.Day, Title: d.Title, Exercises: append([]fitness.Exercise{}, d.Exercises...)}
	}
	return out
}
